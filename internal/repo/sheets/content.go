package sheets

import (
	"context"

	"github.com/geocoder89/lentpath/internal/domain/content"
	gw "github.com/geocoder89/lentpath/internal/sheets"
)

// ContentRepo is the read-only snapshot of the Content table.
type ContentRepo struct {
	name    string
	records gw.Records
	loadErr error
}

func LoadContent(ctx context.Context, g gw.Gateway, name string) *ContentRepo {
	r := &ContentRepo{name: name}

	t, err := g.Open(ctx, name)
	if err != nil {
		r.loadErr = err
		return r
	}

	rec, err := t.ReadAll(ctx)
	if err != nil {
		r.loadErr = wrapGateway("read content", err)
		return r
	}

	r.records = rec

	return r
}

func (r *ContentRepo) Available() bool {
	return r.loadErr == nil
}

func (r *ContentRepo) LoadErr() error {
	return r.loadErr
}

func (r *ContentRepo) Len() int {
	return len(r.records.Rows)
}

// ByDate returns the first row whose Date cell equals date. An empty table is
// content.ErrNotFound even without a header; a populated table without a Date
// column is a configuration error.
func (r *ContentRepo) ByDate(date string) (content.Entry, error) {
	if r.loadErr != nil {
		return content.Entry{}, r.loadErr
	}

	if r.records.Empty() {
		return content.Entry{}, content.ErrNotFound
	}

	if !r.records.Has(content.ColDate) {
		return content.Entry{}, missingColumns(r.name, []string{content.ColDate})
	}

	for _, row := range r.records.Rows {
		if row[content.ColDate] == date {
			return content.FromRow(row), nil
		}
	}

	return content.Entry{}, content.ErrNotFound
}
