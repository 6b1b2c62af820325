// Package table holds the Track Record Table: the in-memory song dataset
// a dashboard render pass works on.
//
// A Table is built from a CSV (or any tabular source), gets its
// release_year derived right after load, and is then only read:
//   - Schema: which known columns are present and of what kind
//   - Filter: narrow to the rows of one song name
//   - Strings / Floats: column views for the report sections
package table

import (
	"math"
	"strconv"

	"github.com/cdfmlr/crud/log"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var logger = log.ZoneLogger("trackdash/table")

// Column names the dashboard knows about. Any other column is carried
// along untouched.
const (
	ColName        = "name"
	ColArtists     = "artists"
	ColReleaseDate = "release_date"
	ColReleaseYear = "release_year"
	ColPopularity  = "popularity"

	ColValence      = "valence"
	ColTempo        = "tempo"
	ColEnergy       = "energy"
	ColLoudness     = "loudness"
	ColDurationMs   = "duration_ms"
	ColDanceability = "danceability"
)

// AllSongs is the filter selection that keeps every row.
const AllSongs = "All"

// Table is a read-only view over a dataframe of tracks.
type Table struct {
	df dataframe.DataFrame
}

// FromDataFrame wraps df. release_year is derived if release_date exists.
func FromDataFrame(df dataframe.DataFrame) (*Table, error) {
	if df.Err != nil {
		return nil, df.Err
	}
	t := &Table{df: df}
	t.deriveReleaseYear()
	return t, nil
}

// Nrow returns the number of rows.
func (t *Table) Nrow() int { return t.df.Nrow() }

// Ncol returns the number of columns, release_year included.
func (t *Table) Ncol() int { return t.df.Ncol() }

// Names returns the column names in header order.
func (t *Table) Names() []string { return t.df.Names() }

// Schema builds the column facts of the table.
func (t *Table) Schema() Schema {
	names := t.df.Names()

	s := Schema{kinds: make(map[string]Kind, len(names)), order: names}
	for _, name := range names {
		s.kinds[name] = kindOf(name, t.df.Col(name))
	}
	return s
}

// kindOf classifies a column. A column with values that are all
// missing counts as numeric.
func kindOf(name string, col series.Series) Kind {
	if name == ColReleaseDate {
		return KindDate
	}
	if allMissing(col) {
		return KindNumeric
	}
	switch col.Type() {
	case series.Int, series.Float:
		return KindNumeric
	case series.String:
		return KindText
	case series.Bool:
		return KindBool
	default:
		return KindOther
	}
}

// Strings returns the values of col as strings, with a mask of missing
// values. It returns nil, nil if col does not exist.
func (t *Table) Strings(col string) (values []string, missing []bool) {
	if !t.has(col) {
		return nil, nil
	}
	s := t.df.Col(col)
	return cells(s), s.IsNaN()
}

// Floats returns the values of col as float64, NaN for missing values.
// It returns nil if col does not exist.
func (t *Table) Floats(col string) []float64 {
	if !t.has(col) {
		return nil
	}
	return t.df.Col(col).Float()
}

// Head returns the first n rows as strings, in header column order.
// Missing values are shown as NaN.
func (t *Table) Head(n int) [][]string {
	if n > t.Nrow() {
		n = t.Nrow()
	}
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = make([]string, t.Ncol())
	}
	for j, name := range t.Names() {
		records := cells(t.df.Col(name))
		for i := 0; i < n; i++ {
			rows[i][j] = records[i]
		}
	}
	return rows
}

// MissingCount is the number of missing values of one column.
type MissingCount struct {
	Column  string
	Missing int
}

// MissingCounts counts the missing values per column, in header order.
func (t *Table) MissingCounts() []MissingCount {
	counts := make([]MissingCount, 0, t.Ncol())
	for _, name := range t.Names() {
		n := 0
		for _, nan := range t.df.Col(name).IsNaN() {
			if nan {
				n++
			}
		}
		counts = append(counts, MissingCount{Column: name, Missing: n})
	}
	return counts
}

// cells renders a column as strings. Floats are printed in their
// shortest form instead of gota's fixed six decimals.
func cells(s series.Series) []string {
	if s.Type() != series.Float {
		return s.Records()
	}
	out := make([]string, s.Len())
	for i, v := range s.Float() {
		if math.IsNaN(v) {
			out[i] = "NaN"
			continue
		}
		out[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return out
}

func allMissing(col series.Series) bool {
	if col.Len() == 0 {
		return false
	}
	for _, nan := range col.IsNaN() {
		if !nan {
			return false
		}
	}
	return true
}

func (t *Table) has(col string) bool {
	for _, name := range t.df.Names() {
		if name == col {
			return true
		}
	}
	return false
}
