// Package datastore keeps uploaded CSV datasets in a local directory,
// and builds tables out of a local audio library.
//
// Exposure a Store with the following methods:
//   - Save: check and store an uploaded CSV, catalogue it
//   - Open: load a stored dataset back as a table
package datastore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"trackdash/catalog"
	"trackdash/model"
	"trackdash/table"

	"github.com/cdfmlr/crud/log"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/zeebo/xxh3"
)

var logger = log.ZoneLogger("trackdash/datastore")

// ErrInvalidCSV is returned by Save for an upload that is not a table.
var ErrInvalidCSV = errors.New("not a readable csv table")

// Store stores uploaded datasets in a local directory.
type Store struct {
	Dir string
}

// NewStore returns a Store on dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = model.UploadDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("NewStore: Mkdir failed: %w", err)
	}
	return &Store{Dir: dir}, nil
}

// Save reads an uploaded CSV, checks that it parses as a table, and
// stores it:
//
//	{Dir}/{uuid}.csv
//
// An upload identical to a stored one is not stored again: the
// existing dataset is returned.
func (s *Store) Save(ctx context.Context, fileName string, r io.Reader) (*model.Dataset, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("Save: read upload failed: %w", err)
	}

	t, err := table.ReadCSV(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
	}

	sum := checksum(b)
	if catalog.DatasetExists(ctx, sum) {
		logger.WithField("checksum", sum).Info("Save: identical dataset already stored")
		return catalog.DatasetByChecksum(ctx, sum)
	}

	path := filepath.Join(s.Dir, model.UploadFileName(uuid.NewString()))
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return nil, fmt.Errorf("Save: write file failed: %w", err)
	}

	d := &model.Dataset{
		Name:       model.DisplayName(fileName),
		FileName:   filepath.Base(fileName),
		StoredPath: path,
		Size:       int64(len(b)),
		Checksum:   sum,
		Rows:       t.Nrow(),
		Columns:    t.Ncol(),
	}
	if err := catalog.CreateDataset(ctx, d); err != nil {
		os.Remove(path) // rollback

		return nil, fmt.Errorf("Save: CreateDataset failed: %w", err)
	}

	logger.WithField("ID", d.ID).
		WithField("Name", d.Name).
		WithField("Size", humanize.Bytes(uint64(d.Size))).
		Info("Save: success")

	return d, nil
}

// Open loads the stored dataset with the id.
func (s *Store) Open(ctx context.Context, id uint) (*table.Table, *model.Dataset, error) {
	d, err := catalog.GetDataset(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	t, err := table.Load(d.StoredPath)
	if err != nil {
		return nil, d, err
	}
	return t, d, nil
}

func checksum(b []byte) string {
	return strconv.FormatUint(xxh3.Hash(b), 16)
}
