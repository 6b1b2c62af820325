package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ErrNoHeader is returned for an input without even a header row.
var ErrNoHeader = errors.New("csv has no header row")

// missingValues are the cell values read as missing.
var missingValues = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "<nil>"}

// Load reads the CSV file at path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Load: open %s failed: %w", path, err)
	}
	defer f.Close()

	t, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("Load: %s: %w", path, err)
	}

	logger.WithField("path", path).
		WithField("rows", t.Nrow()).
		WithField("cols", t.Ncol()).
		Debug("Load: success")

	return t, nil
}

// ReadCSV parses a comma separated table with a header row.
// Column types are detected from the values.
func ReadCSV(r io.Reader) (*Table, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ReadCSV: read failed: %w", err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, ErrNoHeader
	}

	records, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ReadCSV: parse failed: %w", err)
	}

	t, err := FromRecords(records)
	if err != nil {
		return nil, fmt.Errorf("ReadCSV: %w", err)
	}
	return t, nil
}

// FromRecords builds a table from string records, the first one being
// the header. Types are detected like ReadCSV does.
//
// A header without rows gives an empty table with those columns.
// A repeated column name keeps its first column, the later ones are
// renamed name.1, name.2, ...
func FromRecords(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, ErrNoHeader
	}
	header := uniqueNames(records[0])

	if len(records) == 1 {
		return FromDataFrame(emptyFrame(header))
	}

	withHeader := make([][]string, len(records))
	withHeader[0] = header
	copy(withHeader[1:], records[1:])

	df := dataframe.LoadRecords(withHeader,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(missingValues),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("FromRecords: %w", df.Err)
	}
	return FromDataFrame(df)
}

// emptyFrame has one zero-length text column per name.
func emptyFrame(names []string) dataframe.DataFrame {
	cols := make([]series.Series, len(names))
	for i, name := range names {
		cols[i] = series.New([]string{}, series.String, name)
	}
	return dataframe.New(cols...)
}

// uniqueNames renames repeated names to name.1, name.2, ... skipping
// names already taken.
func uniqueNames(names []string) []string {
	out := make([]string, len(names))
	taken := make(map[string]bool, len(names))
	for _, n := range names {
		taken[n] = true
	}

	seen := make(map[string]int, len(names))
	for i, n := range names {
		if _, dup := seen[n]; !dup {
			seen[n] = 0
			out[i] = n
			continue
		}
		for {
			seen[n]++
			renamed := n + "." + strconv.Itoa(seen[n])
			if !taken[renamed] {
				taken[renamed] = true
				out[i] = renamed
				break
			}
		}
	}
	return out
}

// deriveReleaseYear adds the integer release_year column parsed from
// release_date. A date that does not parse gives a missing year.
func (t *Table) deriveReleaseYear() {
	if !t.has(ColReleaseDate) {
		return
	}

	dates, missing := t.Strings(ColReleaseDate)
	years := make([]string, len(dates))
	bad := 0
	for i, d := range dates {
		years[i] = "NaN"
		if missing[i] {
			continue
		}
		when, ok := ParseDate(d)
		if !ok {
			bad++
			continue
		}
		years[i] = strconv.Itoa(when.Year())
	}

	if bad > 0 {
		logger.WithField("unparseable", bad).
			Debug("deriveReleaseYear: some release dates could not be parsed")
	}

	t.df = t.df.Mutate(series.New(years, series.Int, ColReleaseYear))
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
}

// ParseDate parses s as a calendar date in one of the usual layouts
// found in track datasets: full dates, year-month, bare years.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
