package report

import (
	"strconv"

	"github.com/dustin/go-humanize"

	"trackdash/table"
)

const (
	previewRows = 5
	topN        = 10
)

var (
	boxFeatures = []string{
		table.ColValence, table.ColTempo, table.ColEnergy, table.ColLoudness, table.ColDurationMs,
	}
	histFeatures = []string{
		table.ColValence, table.ColEnergy, table.ColTempo, table.ColLoudness, table.ColDanceability,
	}
)

// Sections is the report, in page order.
var Sections = []Section{
	{
		ID:       "preview",
		Title:    "Dataset Preview & Info",
		Requires: func(table.Schema) bool { return true },
		Build:    buildPreview,
	},
	{
		ID:       "top-artists",
		Title:    "Top 10 Artists",
		Requires: requireAll(table.ColArtists),
		Build:    buildTopCounts(table.ColArtists, "Top 10 Artists"),
	},
	{
		ID:       "top-songs",
		Title:    "Top 10 Songs",
		Requires: requireAll(table.ColName),
		Build:    buildTopCounts(table.ColName, "Top 10 Songs"),
	},
	{
		ID:       "correlation",
		Title:    "Correlation Heatmap",
		Requires: func(s table.Schema) bool { return len(s.Numeric()) > 1 },
		Build:    buildCorrelation,
	},
	{
		ID:       "artist-popularity",
		Title:    "Top 10 Artists by Average Popularity",
		Requires: requireAll(table.ColArtists, table.ColPopularity),
		Build:    buildArtistPopularity,
	},
	{
		ID:       "popularity-years",
		Title:    "Average Popularity Over Years",
		Requires: requireAll(table.ColReleaseYear, table.ColPopularity),
		Build:    buildPopularityOverYears,
	},
	{
		ID:       "boxplots",
		Title:    "Boxplots for Numerical Features",
		Requires: requireAny(boxFeatures...),
		Build:    buildFeatureGrid(boxFeatures, boxGridPNG),
	},
	{
		ID:       "histograms",
		Title:    "Feature Distributions",
		Requires: requireAny(histFeatures...),
		Build:    buildFeatureGrid(histFeatures, histGridPNG),
	},
}

func requireAll(cols ...string) func(table.Schema) bool {
	return func(s table.Schema) bool { return s.Has(cols...) }
}

func requireAny(cols ...string) func(table.Schema) bool {
	return func(s table.Schema) bool { return len(s.Present(cols...)) > 0 }
}

func buildPreview(t *table.Table, s table.Schema) (*Card, error) {
	missing := t.MissingCounts()
	missingRows := make([][]string, len(missing))
	for i, m := range missing {
		missingRows[i] = []string{m.Column, strconv.Itoa(m.Missing)}
	}

	return &Card{
		Grids: []Grid{
			{Caption: "Preview", Header: t.Names(), Rows: t.Head(previewRows)},
			{Caption: "Missing Values", Header: []string{"Column", "Missing"}, Rows: missingRows},
		},
		Metrics: []Metric{
			{Label: "Rows", Value: humanize.Comma(int64(t.Nrow()))},
			{Label: "Columns", Value: humanize.Comma(int64(t.Ncol()))},
		},
		Lists: []List{
			{Label: "Numerical Columns", Items: s.Numeric()},
			{Label: "Categorical Columns", Items: s.Text()},
		},
	}, nil
}

func buildTopCounts(col, title string) func(*table.Table, table.Schema) (*Card, error) {
	return func(t *table.Table, _ table.Schema) (*Card, error) {
		values, missing := t.Strings(col)
		counts := TopN(ValueCounts(values, missing), topN)
		if len(counts) == 0 {
			return nil, nil
		}

		png, err := barChartPNG(title, counts)
		if err != nil {
			return nil, err
		}
		return &Card{Chart: png}, nil
	}
}

func buildCorrelation(t *table.Table, s table.Schema) (*Card, error) {
	if t.Nrow() == 0 {
		return nil, nil
	}
	m := Correlation(t, s.Numeric())
	png, err := heatmapPNG(m)
	if err != nil {
		return nil, err
	}
	return &Card{Chart: png}, nil
}

func buildArtistPopularity(t *table.Table, _ table.Schema) (*Card, error) {
	artists, missing := t.Strings(table.ColArtists)
	groups := GroupMean(artists, missing, t.Floats(table.ColPopularity))
	SortByMeanDesc(groups)
	groups = TopN(groups, topN)
	if len(groups) == 0 {
		return nil, nil
	}

	png, err := hbarChartPNG(groups, "Average Popularity", "Artist")
	if err != nil {
		return nil, err
	}
	return &Card{Chart: png}, nil
}

func buildPopularityOverYears(t *table.Table, _ table.Schema) (*Card, error) {
	yearly := YearlyMean(t.Floats(table.ColReleaseYear), t.Floats(table.ColPopularity))
	if len(yearly) == 0 {
		return nil, nil
	}

	png, err := lineChartPNG(yearly, "Year", "Average Popularity")
	if err != nil {
		return nil, err
	}
	return &Card{Chart: png}, nil
}

func buildFeatureGrid(candidates []string, draw func([]feature) ([]byte, error)) func(*table.Table, table.Schema) (*Card, error) {
	return func(t *table.Table, s table.Schema) (*Card, error) {
		cols := s.Present(candidates...)
		features := make([]feature, len(cols))
		empty := true
		for i, c := range cols {
			features[i] = feature{Name: c, Values: t.Floats(c)}
			if len(present(features[i].Values)) > 0 {
				empty = false
			}
		}
		// nothing to draw in any cell
		if empty {
			return nil, nil
		}

		png, err := draw(features)
		if err != nil {
			return nil, err
		}
		return &Card{Chart: png}, nil
	}
}
