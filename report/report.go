// Package report turns a Track Record Table into the cards of the
// dashboard page.
//
// A report is a fixed, ordered list of sections. Each section names the
// columns it needs; a section whose columns are absent is skipped
// without a trace. Sections only read the table and share nothing, so
// a page is a pure function of (table, selection).
package report

import (
	"github.com/cdfmlr/crud/log"

	"trackdash/table"
)

var logger = log.ZoneLogger("trackdash/report")

// Metric is a single labelled scalar.
type Metric struct {
	Label string
	Value string
}

// List is a labelled list of strings.
type List struct {
	Label string
	Items []string
}

// Grid is a small table to show as is.
type Grid struct {
	Caption string
	Header  []string
	Rows    [][]string
}

// Card is the rendered output of one section.
type Card struct {
	ID      string
	Title   string
	Grids   []Grid
	Metrics []Metric
	Lists   []List
	Chart   []byte // PNG, nil if the section draws none
}

// Page is the result of one render pass.
type Page struct {
	Selection string
	Choices   []string // song names to filter on, nil without a name column
	Rows      int      // rows after filtering
	Cards     []*Card
}

// Section is one self-contained, column-gated block of the report.
type Section struct {
	ID    string
	Title string
	// Requires reports whether the schema has what the section needs.
	Requires func(s table.Schema) bool
	// Build computes the card. A nil card means there is nothing to show.
	Build func(t *table.Table, s table.Schema) (*Card, error)
}

// Render runs every section against t filtered by selection, in order.
//
// A section that fails to build is logged and left out; the others
// are still rendered.
func Render(t *table.Table, selection string) *Page {
	if selection == "" {
		selection = table.AllSongs
	}
	schema := t.Schema()

	page := &Page{
		Selection: selection,
		Choices:   t.SongChoices(),
	}

	view := t.Filter(selection)
	page.Rows = view.Nrow()

	for _, sec := range Sections {
		card := renderSection(sec, view, schema)
		if card != nil {
			page.Cards = append(page.Cards, card)
		}
	}

	return page
}

func renderSection(sec Section, t *table.Table, s table.Schema) *Card {
	if !sec.Requires(s) {
		logger.WithField("section", sec.ID).Debug("renderSection: skipped, columns missing")
		return nil
	}

	card, err := sec.Build(t, s)
	if err != nil {
		logger.WithField("section", sec.ID).
			WithError(err).
			Error("renderSection: build failed")
		return nil
	}
	if card == nil {
		return nil
	}

	card.ID = sec.ID
	card.Title = sec.Title
	return card
}
