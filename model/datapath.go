package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// this file defines where uploaded datasets live on disk.

const EnvTrackdashDataDir = "TRACKDASH_DATADIR"

const UploadDirname = "uploads"

// DataDir returns the base data directory:
//
//	{TRACKDASH_DATADIR}
//
// and defaults to the current directory (./).
func DataDir() string {
	base, ok := os.LookupEnv(EnvTrackdashDataDir)
	if !ok || base == "" {
		base = "."
	}
	return base
}

// UploadDir returns the default directory of uploaded CSV files:
//
//	{TRACKDASH_DATADIR}/uploads
func UploadDir() string {
	return filepath.Join(DataDir(), UploadDirname)
}

// UploadFileName returns "{key}.csv".
func UploadFileName(key string) string {
	return fmt.Sprintf("%s.csv", key)
}

// DisplayName turns an uploaded file name into a dataset name:
// "my tracks.csv" -> "my tracks".
func DisplayName(fileName string) string {
	base := filepath.Base(fileName)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." {
		return "dataset"
	}
	return name
}
