// Package content describes one day of the Lent journey as read from the
// Content workbook.
package content

import "github.com/geocoder89/lentpath/internal/apperr"

// Column headers of the Content workbook. Only ColDate is required.
const (
	ColDate           = "Date"
	ColDayLabel       = "Jour"
	ColImageURL       = "URL_Image"
	ColBioText        = "Texte_Cure_dArs"
	ColScriptureQuote = "Citation_Parole"
	ColDailyEffort    = "Effort_Jour"
)

const DateLayout = "2006-01-02"

// ErrNotFound means no row carries the requested date. The view shows a
// placeholder, it is never an error page.
var ErrNotFound = apperr.New(apperr.KindNotFound, "no content for this date")

// DefaultDayLabel captions the image when the Jour column is absent.
const DefaultDayLabel = "Carême"

type Entry struct {
	Date           string
	DayLabel       string
	ImageURL       string
	BioText        string
	ScriptureQuote string
	DailyEffort    string

	// Missing lists the optional columns that were absent from the row, so the
	// view can ask the editor to fill them.
	Missing []string
}

// FromRow maps a row-mapping onto an Entry. Absent optional columns get a
// placeholder and are recorded in Missing. An empty image cell is not a
// placeholder, the view shows a hint instead of a broken image.
func FromRow(row map[string]string) Entry {
	e := Entry{Date: row[ColDate]}

	if v, ok := row[ColDayLabel]; ok && v != "" {
		e.DayLabel = v
	} else {
		e.DayLabel = DefaultDayLabel
	}

	if v, ok := row[ColImageURL]; ok {
		e.ImageURL = v
	} else {
		e.Missing = append(e.Missing, ColImageURL)
	}

	e.BioText = field(row, ColBioText, &e.Missing)
	e.ScriptureQuote = field(row, ColScriptureQuote, &e.Missing)
	e.DailyEffort = field(row, ColDailyEffort, &e.Missing)

	return e
}

func field(row map[string]string, col string, missing *[]string) string {
	if v, ok := row[col]; ok {
		return v
	}

	*missing = append(*missing, col)

	return Placeholder(col)
}

// Placeholder is the text shown in place of an absent column.
func Placeholder(col string) string {
	return "**Contenu manquant.** Veuillez remplir la colonne '" + col + "'."
}

func (e Entry) HasImage() bool {
	return e.ImageURL != ""
}

func (e Entry) IsMissing(col string) bool {
	for _, c := range e.Missing {
		if c == col {
			return true
		}
	}

	return false
}
