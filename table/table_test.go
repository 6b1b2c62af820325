package table

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const songsCSV = `name,artists,popularity,release_date
Song1,ArtistA,80,2020-01-01
Song2,ArtistA,60,2019-06-15
Song3,ArtistB,90,bad-date
`

func mustRead(t *testing.T, csv string) *Table {
	t.Helper()
	tbl, err := ReadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	return tbl
}

func TestReadCSVDerivesReleaseYear(t *testing.T) {
	tbl := mustRead(t, songsCSV)

	if tbl.Nrow() != 3 {
		t.Fatalf("Nrow = %d, want 3", tbl.Nrow())
	}
	// release_year is appended
	if tbl.Ncol() != 5 {
		t.Fatalf("Ncol = %d, want 5", tbl.Ncol())
	}

	years := tbl.Floats(ColReleaseYear)
	if years == nil {
		t.Fatal("release_year column missing")
	}
	if years[0] != 2020 || years[1] != 2019 {
		t.Errorf("years = %v, want [2020 2019 NaN]", years)
	}
	if !math.IsNaN(years[2]) {
		t.Errorf("years[2] = %v, want NaN for bad-date", years[2])
	}
}

func TestReleaseYearMixedDates(t *testing.T) {
	tbl := mustRead(t, `name,release_date
a,1999-12-31
b,not a date
c,1971
d,
e,2001-07
f,13/45/2020
`)
	want := []float64{1999, math.NaN(), 1971, math.NaN(), 2001, math.NaN()}
	got := tbl.Floats(ColReleaseYear)
	for i := range want {
		if math.IsNaN(want[i]) {
			if !math.IsNaN(got[i]) {
				t.Errorf("row %d: got %v, want missing", i, got[i])
			}
			continue
		}
		if got[i] != want[i] {
			t.Errorf("row %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNoReleaseDateNoReleaseYear(t *testing.T) {
	tbl := mustRead(t, "name,popularity\nx,1\n")
	if tbl.Schema().Has(ColReleaseYear) {
		t.Error("release_year derived without release_date")
	}
}

func TestReadCSVErrors(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("")); !errors.Is(err, ErrNoHeader) {
		t.Errorf("empty input: err = %v, want ErrNoHeader", err)
	}
	if _, err := ReadCSV(strings.NewReader("a,b\n1,2,3\n\"x\n")); err == nil {
		t.Error("malformed csv: want error")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(path, []byte(songsCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	tbl, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Nrow() != 3 {
		t.Errorf("Nrow = %d", tbl.Nrow())
	}

	if _, err := Load(filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("Load of a missing file: want error")
	}
}

func TestSchema(t *testing.T) {
	tbl := mustRead(t, "name,artists,popularity,energy,explicit,release_date\nS,A,10,0.5,true,2020-01-01\n")
	s := tbl.Schema()

	if !s.Has(ColName, ColArtists, ColPopularity) {
		t.Error("Has: want true for present columns")
	}
	if s.Has(ColName, ColTempo) {
		t.Error("Has: want false when one column is absent")
	}
	if got := s.Present(ColValence, ColEnergy, ColTempo); len(got) != 1 || got[0] != ColEnergy {
		t.Errorf("Present = %v, want [energy]", got)
	}

	wantNumeric := []string{ColPopularity, ColEnergy, ColReleaseYear}
	if got := s.Numeric(); !equal(got, wantNumeric) {
		t.Errorf("Numeric = %v, want %v", got, wantNumeric)
	}
	wantText := []string{ColName, ColArtists}
	if got := s.Text(); !equal(got, wantText) {
		t.Errorf("Text = %v, want %v", got, wantText)
	}
	if s.Kind(ColReleaseDate) != KindDate {
		t.Errorf("release_date kind = %v", s.Kind(ColReleaseDate))
	}
}

func TestFilter(t *testing.T) {
	tbl := mustRead(t, `name,artists
A,x
B,y
A,z
,w
C,x
`)

	if got := tbl.Filter(AllSongs); got.Nrow() != tbl.Nrow() {
		t.Errorf("All: Nrow = %d, want %d", got.Nrow(), tbl.Nrow())
	}
	if got := tbl.Filter(""); got.Nrow() != tbl.Nrow() {
		t.Errorf("empty selection: Nrow = %d, want %d", got.Nrow(), tbl.Nrow())
	}

	sub := tbl.Filter("A")
	if sub.Nrow() != 2 {
		t.Fatalf("A: Nrow = %d, want 2", sub.Nrow())
	}
	names, _ := sub.Strings(ColName)
	for _, n := range names {
		if n != "A" {
			t.Errorf("filtered row has name %q", n)
		}
	}
	artists, _ := sub.Strings(ColArtists)
	if !equal(artists, []string{"x", "z"}) {
		t.Errorf("artists = %v, want [x z]", artists)
	}

	if got := tbl.Filter("nope"); got.Nrow() != 0 {
		t.Errorf("unknown selection: Nrow = %d, want 0", got.Nrow())
	}
}

func TestSongChoices(t *testing.T) {
	tbl := mustRead(t, "name\nb\na\nb\n\nc\n")
	if got := tbl.SongChoices(); !equal(got, []string{"a", "b", "c"}) {
		t.Errorf("SongChoices = %v", got)
	}

	noName := mustRead(t, "artists\nx\n")
	if got := noName.SongChoices(); got != nil {
		t.Errorf("SongChoices without name = %v, want nil", got)
	}
	if got := noName.Filter("x"); got.Nrow() != 1 {
		t.Errorf("Filter without name column dropped rows: %d", got.Nrow())
	}
}

func TestHeadAndMissing(t *testing.T) {
	tbl := mustRead(t, "a,b\n1,0.5\n2,\n3,1.25\n4,2\n5,3\n6,4\n")

	head := tbl.Head(5)
	if len(head) != 5 {
		t.Fatalf("Head rows = %d", len(head))
	}
	if head[0][1] != "0.5" || head[1][1] != "NaN" {
		t.Errorf("head = %v", head)
	}
	if got := tbl.Head(100); len(got) != 6 {
		t.Errorf("Head(100) rows = %d, want 6", len(got))
	}

	miss := tbl.MissingCounts()
	if len(miss) != 2 || miss[0].Missing != 0 || miss[1].Missing != 1 {
		t.Errorf("MissingCounts = %+v", miss)
	}
}

func TestFromRecords(t *testing.T) {
	tbl, err := FromRecords([][]string{
		{"name", "release_date"},
		{"x", "1984-01-01"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if y := tbl.Floats(ColReleaseYear); len(y) != 1 || y[0] != 1984 {
		t.Errorf("release_year = %v", y)
	}
	if _, err := FromRecords(nil); !errors.Is(err, ErrNoHeader) {
		t.Errorf("nil records: err = %v", err)
	}
}

func TestReadCSVHeaderOnly(t *testing.T) {
	tbl := mustRead(t, "name,artists,popularity,release_date\n")

	if tbl.Nrow() != 0 {
		t.Errorf("Nrow = %d, want 0", tbl.Nrow())
	}
	want := []string{ColName, ColArtists, ColPopularity, ColReleaseDate, ColReleaseYear}
	if got := tbl.Names(); !equal(got, want) {
		t.Errorf("Names = %v, want %v", got, want)
	}
	if got := tbl.Filter("x").Nrow(); got != 0 {
		t.Errorf("Filter on empty table: Nrow = %d", got)
	}
	if got := tbl.Head(5); len(got) != 0 {
		t.Errorf("Head = %v", got)
	}
}

func TestReadCSVRepeatedColumns(t *testing.T) {
	tests := []struct {
		header string
		want   []string
	}{
		{"name,name,x", []string{"name", "name.1", "x"}},
		{"a,a,a", []string{"a", "a.1", "a.2"}},
		{"a,a.1,a", []string{"a", "a.1", "a.2"}},
	}
	for _, tt := range tests {
		tbl := mustRead(t, tt.header+"\n1,2,3\n")
		if got := tbl.Names(); !equal(got, tt.want) {
			t.Errorf("%s: Names = %v, want %v", tt.header, got, tt.want)
		}
	}

	tbl := mustRead(t, "name,name,x\na,b,1\n")
	if got := tbl.SongChoices(); len(got) != 1 || got[0] != "a" {
		t.Errorf("SongChoices = %v, want [a] from the first name column", got)
	}
}

func TestAllMissingColumnIsNumeric(t *testing.T) {
	s := mustRead(t, "name,energy,tempo\nA,,\nB,,\n").Schema()

	if s.Kind(ColEnergy) != KindNumeric || s.Kind(ColTempo) != KindNumeric {
		t.Errorf("kinds = %v, %v, want numeric", s.Kind(ColEnergy), s.Kind(ColTempo))
	}
	if got := s.Text(); !equal(got, []string{ColName}) {
		t.Errorf("Text = %v, want [name]", got)
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
