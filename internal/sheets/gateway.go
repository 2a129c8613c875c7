// Package sheets is the gateway to the remote spreadsheet service. A workbook is
// opened by title and its first sheet is treated as one table whose first row
// holds the column names.
//
// The gateway never validates the schema: callers check for the columns they
// need and report a configuration error themselves.
package sheets

import (
	"context"
	"fmt"

	"github.com/geocoder89/lentpath/internal/apperr"
)

// Row maps a column name to the cell's displayed value.
type Row map[string]string

// Records is the content of a table: the header row and every row below it as
// a row-mapping, in sheet order.
type Records struct {
	Columns []string
	Rows    []Row
}

func (r Records) Empty() bool {
	return len(r.Rows) == 0
}

// HasHeader is false for a completely blank sheet.
func (r Records) HasHeader() bool {
	for _, c := range r.Columns {
		if c != "" {
			return true
		}
	}

	return false
}

func (r Records) Has(col string) bool {
	if col == "" {
		return false
	}

	for _, c := range r.Columns {
		if c == col {
			return true
		}
	}

	return false
}

// MissingColumns returns the names in cols absent from the header.
func (r Records) MissingColumns(cols ...string) []string {
	var missing []string
	for _, c := range cols {
		if !r.Has(c) {
			missing = append(missing, c)
		}
	}

	return missing
}

type Gateway interface {
	Open(ctx context.Context, name string) (Table, error)
}

type Table interface {
	Name() string
	ReadAll(ctx context.Context) (Records, error)
	AppendRow(ctx context.Context, values []string) error
}

var (
	ErrTableNotFound    = apperr.New(apperr.KindConfiguration, "workbook not found")
	ErrPermissionDenied = apperr.New(apperr.KindAuthorization, "permission denied")
	ErrUnavailable      = apperr.New(apperr.KindUnavailable, "spreadsheet service unavailable")
)

// OpenError reports why a workbook could not be opened. Err is one of the
// package sentinels, Account is the identity that needs to be granted access
// when it is known.
type OpenError struct {
	Table   string
	Account string
	Err     error
	Cause   error
}

func (e *OpenError) Error() string {
	msg := fmt.Sprintf("open %q: %v", e.Table, e.Err)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	return msg
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// RecordsFromValues turns a raw grid into Records using the first row as
// header. Columns keeps the header as written, positions included. In the rows,
// short rows are padded with empty strings, cells under an empty header are
// dropped and a repeated header keeps its first column.
func RecordsFromValues(values [][]string) Records {
	if len(values) == 0 {
		return Records{}
	}

	columns := append([]string(nil), values[0]...)
	index := make(map[string]int, len(columns))

	for i, col := range columns {
		if col == "" {
			continue
		}
		if _, seen := index[col]; !seen {
			index[col] = i
		}
	}

	rows := make([]Row, 0, len(values)-1)

	for _, raw := range values[1:] {
		row := make(Row, len(index))

		for col, i := range index {
			if i < len(raw) {
				row[col] = raw[i]
			} else {
				row[col] = ""
			}
		}

		rows = append(rows, row)
	}

	return Records{Columns: columns, Rows: rows}
}

// Layout orders values by the header: each named column receives its value,
// other positions stay empty. A blank header yields cols in the given order.
func (r Records) Layout(cols []string, values map[string]string) []string {
	if !r.HasHeader() {
		out := make([]string, len(cols))
		for i, c := range cols {
			out[i] = values[c]
		}
		return out
	}

	out := make([]string, len(r.Columns))
	seen := make(map[string]bool, len(r.Columns))

	for i, c := range r.Columns {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out[i] = values[c]
	}

	return out
}
