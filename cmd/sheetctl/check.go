package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/geocoder89/lentpath/internal/domain/content"
	"github.com/geocoder89/lentpath/internal/domain/user"
	"github.com/geocoder89/lentpath/internal/sheets"
)

var errCheckFailed = errors.New("check failed")

var optionalContentColumns = []string{
	content.ColDayLabel,
	content.ColImageURL,
	content.ColBioText,
	content.ColScriptureQuote,
	content.ColDailyEffort,
}

// tableReport is what check learned about one workbook.
type tableReport struct {
	Name     string
	Err      error
	Rows     int
	Blank    bool
	Missing  []string
	Optional []string
}

func (r tableReport) ok() bool {
	return r.Err == nil && len(r.Missing) == 0
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Open both workbooks and verify their columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := a.gateway()
			if err != nil {
				return err
			}

			cfg := a.config()
			out := cmd.OutOrStdout()

			users := inspect(cmd, a, g, cfg.UsersSheet, user.RequiredColumns, nil)
			// a blank Users sheet is valid, the first registration writes the header
			if users.Blank {
				users.Missing = nil
			}

			entries := inspect(cmd, a, g, cfg.ContentSheet, []string{content.ColDate}, optionalContentColumns)
			if entries.Blank || entries.Rows == 0 {
				entries.Missing = nil
			}

			printReport(out, users)
			printReport(out, entries)

			if !users.ok() || !entries.ok() {
				return errCheckFailed
			}
			return nil
		},
	}
}

func inspect(cmd *cobra.Command, a *app, g sheets.Gateway, name string, required, optional []string) tableReport {
	rep := tableReport{Name: name}

	ctx, cancel := a.withTimeout(cmd.Context())
	defer cancel()

	t, err := g.Open(ctx, name)
	if err != nil {
		rep.Err = err
		return rep
	}

	rec, err := t.ReadAll(ctx)
	if err != nil {
		rep.Err = err
		return rep
	}

	rep.Rows = len(rec.Rows)
	rep.Blank = !rec.HasHeader()
	if !rep.Blank {
		rep.Missing = rec.MissingColumns(required...)
		rep.Optional = rec.MissingColumns(optional...)
	}

	return rep
}

func printReport(w io.Writer, r tableReport) {
	status := "ok"
	switch {
	case r.Err != nil:
		status = "error: " + r.Err.Error()
	case len(r.Missing) > 0:
		status = "missing columns"
	case r.Blank:
		status = "blank"
	}

	fmt.Fprintf(w, "%s\n", r.Name)
	fmt.Fprintf(w, "  status:   %s\n", status)
	if r.Err != nil {
		return
	}
	fmt.Fprintf(w, "  rows:     %d\n", r.Rows)
	if len(r.Missing) > 0 {
		fmt.Fprintf(w, "  required: %s\n", strings.Join(r.Missing, ", "))
	}
	if len(r.Optional) > 0 {
		fmt.Fprintf(w, "  optional: %s\n", strings.Join(r.Optional, ", "))
	}
}
