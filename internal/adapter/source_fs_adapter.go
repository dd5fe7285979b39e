package adapter

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	m "rustmin.dev/pkg/rustmin/internal/model"
)

// SourceFSAdapter abstracts the filesystem operations the domain layer relies
// on. It hides direct `os` access so the minimization logic can be tested
// without touching the disk.
type SourceFSAdapter interface {
	// CollectRustFiles walks root and returns every .rs file under it,
	// skipping paths that start with one of the ignore prefixes.
	CollectRustFiles(root m.Path, ignore []m.Path) ([]m.Path, error)

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// WriteFile writes content to a file, preserving its permissions.
	WriteFile(path m.Path, content []byte) error
}

// LocalSourceFSAdapter is the concrete implementation backed by the os
// package.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// CollectRustFiles walks root collecting Rust sources. Walk errors on
// individual entries are logged and skipped so one unreadable directory does
// not abort the run.
func (a *LocalSourceFSAdapter) CollectRustFiles(root m.Path, ignore []m.Path) ([]m.Path, error) {
	var files []m.Path

	err := filepath.Walk(string(root), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			slog.Warn("Error during directory walk", "path", path, "error", err)
			return nil
		}

		if info.IsDir() || filepath.Ext(path) != ".rs" {
			return nil
		}

		for _, ignored := range ignore {
			if pathHasPrefix(path, string(ignored)) {
				slog.Info("Ignoring file", "path", path)
				return nil
			}
		}

		slog.Info("Collecting file", "path", path)
		files = append(files, m.Path(path))

		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// pathHasPrefix reports whether path is under prefix, component-wise.
func pathHasPrefix(path, prefix string) bool {
	rel, err := filepath.Rel(prefix, path)
	if err != nil {
		return false
	}

	return rel == "." || !strings.HasPrefix(rel, "..")
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// WriteFile writes content to an existing file, keeping its mode, or creates
// it with 0o644.
func (a *LocalSourceFSAdapter) WriteFile(path m.Path, content []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(string(path)); err == nil {
		mode = info.Mode()
	}

	return os.WriteFile(string(path), content, mode)
}
