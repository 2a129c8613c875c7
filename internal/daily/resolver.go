// Package daily picks the content entry of the current day.
package daily

import (
	"time"

	"github.com/geocoder89/lentpath/internal/domain/content"
)

// ErrNoEntry is reported when no row carries today's date.
var ErrNoEntry = content.ErrNotFound

// EntrySource is the Content snapshot. *repo/sheets.ContentRepo implements it.
type EntrySource interface {
	ByDate(date string) (content.Entry, error)
}

type Resolver struct {
	src EntrySource
	loc *time.Location
	now func() time.Time
}

// NewResolver formats dates in loc (time.Local when nil) and uses now as the
// clock (time.Now when nil).
func NewResolver(src EntrySource, loc *time.Location, now func() time.Time) *Resolver {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}

	return &Resolver{src: src, loc: loc, now: now}
}

// DateKey is the Date cell value matching t in loc.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(content.DateLayout)
}

// Resolve returns the first entry whose Date equals today's date.
func (r *Resolver) Resolve(today time.Time) (content.Entry, error) {
	return r.src.ByDate(DateKey(today, r.loc))
}

func (r *Resolver) Today() (content.Entry, error) {
	return r.Resolve(r.now())
}

// TodayKey is the date Today looks up, shown in the page header.
func (r *Resolver) TodayKey() string {
	return DateKey(r.now(), r.loc)
}
