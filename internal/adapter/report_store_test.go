package adapter

import (
	"path/filepath"
	"testing"
	"time"

	m "rustmin.dev/pkg/rustmin/internal/model"
)

func TestReportStoreRoundTrip(t *testing.T) {
	store := NewLocalReportStore()
	dir := m.Path(filepath.Join(t.TempDir(), "reports"))

	report := m.Report{
		Target:    "src",
		StartedAt: time.Date(2026, 8, 14, 10, 30, 0, 0, time.UTC),
		Duration:  90 * time.Second,
		Builds:    42,
		Passes: []m.PassReport{
			{Name: "everybody-loops", Rounds: 2, Committed: 5, Failed: 1},
			{Name: "item-deleter", Rounds: 3, Committed: 11, Failed: 4},
		},
	}

	path, err := store.SaveReport(dir, report)
	if err != nil {
		t.Fatal(err)
	}

	if filepath.Dir(string(path)) != string(dir) {
		t.Fatalf("report saved at %s, want under %s", path, dir)
	}

	loaded, err := store.LoadReport(path)
	if err != nil {
		t.Fatal(err)
	}

	if loaded.Target != report.Target || loaded.Builds != report.Builds {
		t.Fatalf("loaded %+v, want %+v", loaded, report)
	}

	if len(loaded.Passes) != 2 || loaded.Passes[1].Committed != 11 {
		t.Fatalf("pass stats lost: %+v", loaded.Passes)
	}

	if !loaded.StartedAt.Equal(report.StartedAt) {
		t.Fatalf("started at %v, want %v", loaded.StartedAt, report.StartedAt)
	}
}

func TestReportStoreFileNameCarriesTimestamp(t *testing.T) {
	store := NewLocalReportStore()
	dir := m.Path(t.TempDir())

	report := m.Report{StartedAt: time.Date(2026, 8, 14, 10, 30, 0, 0, time.UTC)}

	path, err := store.SaveReport(dir, report)
	if err != nil {
		t.Fatal(err)
	}

	if filepath.Base(string(path)) != "run-20260814-103000.yaml" {
		t.Fatalf("file name = %s", filepath.Base(string(path)))
	}
}

func TestReportStoreLoadMissingFileFails(t *testing.T) {
	store := NewLocalReportStore()

	if _, err := store.LoadReport("does/not/exist.yaml"); err == nil {
		t.Fatal("expected an error")
	}
}
