package report

import (
	"bytes"
	"testing"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

const spotifyCSV = `name,artists,popularity,release_date,valence,energy,tempo,loudness,danceability,duration_ms
Song1,ArtistA,80,2020-01-01,0.5,0.7,120.5,-5.1,0.61,200000
Song2,ArtistA,60,2019-06-15,0.2,0.4,98.0,-8.3,0.52,180000
Song3,ArtistB,90,bad-date,0.9,0.8,130.2,-4.0,0.77,240000
Song1,ArtistC,40,2018-03-03,0.4,0.3,101.1,-9.9,0.45,210000
`

func cardIDs(p *Page) []string {
	ids := make([]string, len(p.Cards))
	for i, c := range p.Cards {
		ids[i] = c.ID
	}
	return ids
}

func card(p *Page, id string) *Card {
	for _, c := range p.Cards {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func TestRenderAllSections(t *testing.T) {
	page := Render(readTable(t, spotifyCSV), "")

	want := []string{
		"preview", "top-artists", "top-songs", "correlation",
		"artist-popularity", "popularity-years", "boxplots", "histograms",
	}
	got := cardIDs(page)
	if len(got) != len(want) {
		t.Fatalf("cards = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("card[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	for _, c := range page.Cards[1:] {
		if !bytes.HasPrefix(c.Chart, pngMagic) {
			t.Errorf("%s: chart is not a PNG", c.ID)
		}
	}

	if page.Selection != "All" {
		t.Errorf("Selection = %q", page.Selection)
	}
	if len(page.Choices) != 3 {
		t.Errorf("Choices = %v", page.Choices)
	}
	if page.Rows != 4 {
		t.Errorf("Rows = %d", page.Rows)
	}
}

func TestRenderPreview(t *testing.T) {
	page := Render(readTable(t, spotifyCSV), "Song1")
	if page.Rows != 2 {
		t.Fatalf("filtered Rows = %d, want 2", page.Rows)
	}

	c := card(page, "preview")
	if c == nil {
		t.Fatal("no preview card")
	}
	if c.Metrics[0].Value != "2" {
		t.Errorf("Rows metric = %v", c.Metrics[0])
	}
	// ten columns read plus release_year
	if c.Metrics[1].Value != "11" {
		t.Errorf("Columns metric = %v", c.Metrics[1])
	}
	if len(c.Grids[0].Rows) != 2 {
		t.Errorf("preview rows = %d", len(c.Grids[0].Rows))
	}
	if got := c.Lists[1].Items; len(got) != 2 || got[0] != "name" || got[1] != "artists" {
		t.Errorf("text columns = %v", got)
	}
}

func TestRenderSkipsSectionsWithoutColumns(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		absent  []string
		present []string
	}{
		{
			name:    "no artists",
			csv:     "name,popularity\nA,1\nB,2\n",
			absent:  []string{"top-artists", "artist-popularity", "correlation", "popularity-years", "boxplots", "histograms"},
			present: []string{"preview", "top-songs"},
		},
		{
			name:    "no name",
			csv:     "artists,popularity,energy\nX,1,0.1\nY,2,0.3\n",
			absent:  []string{"top-songs", "popularity-years"},
			present: []string{"preview", "top-artists", "artist-popularity", "correlation", "boxplots", "histograms"},
		},
		{
			name:    "only duration",
			csv:     "duration_ms\n1000\n2000\n",
			absent:  []string{"top-artists", "top-songs", "correlation", "histograms"},
			present: []string{"preview", "boxplots"},
		},
		{
			name:    "release year without popularity",
			csv:     "release_date,tempo\n2001-01-01,100\n2002-01-01,110\n",
			absent:  []string{"popularity-years", "artist-popularity"},
			present: []string{"correlation", "boxplots", "histograms"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Render(readTable(t, tt.csv), "All")
			for _, id := range tt.absent {
				if card(page, id) != nil {
					t.Errorf("section %s rendered, want skipped", id)
				}
			}
			for _, id := range tt.present {
				if card(page, id) == nil {
					t.Errorf("section %s skipped, want rendered", id)
				}
			}
		})
	}
}

func TestRenderEmptySelection(t *testing.T) {
	page := Render(readTable(t, spotifyCSV), "no such song")
	if page.Rows != 0 {
		t.Errorf("Rows = %d", page.Rows)
	}
	if got := cardIDs(page); len(got) != 1 || got[0] != "preview" {
		t.Errorf("cards = %v, want only preview for an empty selection", got)
	}
}

func TestRenderHeaderOnly(t *testing.T) {
	page := Render(readTable(t, "name,artists,popularity,release_date,energy\n"), "")
	if got := cardIDs(page); len(got) != 1 || got[0] != "preview" {
		t.Errorf("cards = %v, want only preview", got)
	}
	if page.Cards[0].Metrics[0].Value != "0" {
		t.Errorf("Rows metric = %v", page.Cards[0].Metrics[0])
	}
}

func TestRenderAllMissingFeatures(t *testing.T) {
	page := Render(readTable(t, "name,energy,tempo\nA,,\nB,,\n"), "")

	if card(page, "correlation") == nil {
		t.Error("correlation skipped, want a heatmap of missing values")
	}
	for _, id := range []string{"boxplots", "histograms"} {
		if card(page, id) != nil {
			t.Errorf("%s rendered without any value to draw", id)
		}
	}
	if got := card(page, "preview").Lists[0].Items; !equal(got, []string{"energy", "tempo"}) {
		t.Errorf("numerical columns = %v", got)
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
