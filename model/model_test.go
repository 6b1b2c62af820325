package model

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTrackRowRecord(t *testing.T) {
	r := &TrackRow{Name: "n", Artists: "a", Album: "al", Genre: "g", Year: 1999}
	got := r.Record()
	if len(got) != len(TrackRowHeader) {
		t.Fatalf("record has %d fields, header %d", len(got), len(TrackRowHeader))
	}
	if got[4] != "1999-01-01" {
		t.Errorf("release_date = %q", got[4])
	}

	r.Year = 0
	if got := r.Record(); got[4] != "" {
		t.Errorf("unknown year: release_date = %q, want empty", got[4])
	}
}

func TestDisplayName(t *testing.T) {
	tests := map[string]string{
		"my tracks.csv":   "my tracks",
		"/tmp/x/data.csv": "data",
		"noext":           "noext",
		".csv":            "dataset",
	}
	for in, want := range tests {
		if got := DisplayName(in); got != want {
			t.Errorf("DisplayName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUploadDirFromEnv(t *testing.T) {
	t.Setenv(EnvTrackdashDataDir, "/srv/trackdash")
	if got, want := UploadDir(), filepath.Join("/srv/trackdash", "uploads"); got != want {
		t.Errorf("UploadDir = %q, want %q", got, want)
	}
	if got := UploadFileName("k"); got != "k.csv" {
		t.Errorf("UploadFileName = %q", got)
	}
}

func TestTrackFromAudioFileNotAudio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.mp3")
	if err := os.WriteFile(path, []byte("definitely not audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := TrackFromAudioFile(path); err == nil {
		t.Error("want error for a file without tags")
	}
}
