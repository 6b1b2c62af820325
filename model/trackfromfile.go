package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// TrackRow is one row of a library table: what the tags of an audio
// file tell about it.
type TrackRow struct {
	Name    string
	Artists string
	Album   string
	Genre   string
	Year    int // 0 if unknown
}

// TrackRowHeader is the CSV header matching TrackRow.Record.
var TrackRowHeader = []string{"name", "artists", "album", "genre", "release_date"}

// Record returns the row as CSV fields. A known year becomes the
// release_date "{year}-01-01", an unknown one stays empty.
func (r *TrackRow) Record() []string {
	date := ""
	if r.Year > 0 {
		date = fmt.Sprintf("%04d-01-01", r.Year)
	}
	return []string{r.Name, r.Artists, r.Album, r.Genre, date}
}

// this file implements a TrackRow contributor that
// reads track metadata from an audio file.
//
// If the file has no title tag, the file name is used as Name.
func TrackFromAudioFile(path string) (*TrackRow, error) {
	// open file
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// read metadata
	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, err
	}

	// construct track
	track := &TrackRow{
		Name:    m.Title(),
		Artists: m.Artist(),
		Album:   m.Album(),
		Genre:   m.Genre(),
		Year:    m.Year(),
	}

	if track.Name == "" {
		track.Name = strings.TrimSuffix(
			filepath.Base(path), filepath.Ext(path))
	}

	return track, nil
}
