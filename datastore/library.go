package datastore

// this file turns a local directory of audio files into a table:
// one row per file, read from its tags.

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"trackdash/model"
	"trackdash/table"
)

// LibraryTable reads the tags of every audio file under dir.
//
// Files whose tags cannot be read are logged and skipped. Rows are in
// path order.
func LibraryTable(dir string) (*table.Table, error) {
	logger.WithField("dir", dir).Info("LibraryTable: start")

	paths, err := enumMusicFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("LibraryTable: enumMusicFiles failed: %w", err)
	}

	records := [][]string{model.TrackRowHeader}
	for _, path := range paths {
		track, err := model.TrackFromAudioFile(path)
		if err != nil {
			logger.WithField("path", path).
				WithError(err).
				Warn("LibraryTable: TrackFromAudioFile failed")
			continue
		}
		records = append(records, track.Record())
	}

	if len(records) == 1 {
		return nil, fmt.Errorf("LibraryTable: no readable audio files in %s", dir)
	}

	logger.WithField("dir", dir).
		WithField("tracks", len(records)-1).
		Info("LibraryTable: done")

	return table.FromRecords(records)
}

// isMusicFile returns true if the file is a music file.
// It checks the file extension.
// supported extensions: .mp3, .m4a, .flac, .ogg
func isMusicFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".mp3", ".m4a", ".flac", ".ogg":
		return true
	default:
		return false
	}
}

// enumMusicFiles lists all the music files in the directory tree,
// sorted by path.
func enumMusicFiles(dir string) ([]string, error) {
	if dir == "" {
		return nil, errors.New("empty dir")
	}
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		return nil, errors.New("not a dir")
	}

	var paths []string

	// walk the directory
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// skip non-music files
		if d.IsDir() || !isMusicFile(path) {
			return nil
		}

		paths = append(paths, path)

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}
