package adapter

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "rustmin.dev/pkg/rustmin/internal/model"
)

// ReportStore persists minimization run reports.
type ReportStore interface {
	SaveReport(dir m.Path, report m.Report) (m.Path, error)
	LoadReport(path m.Path) (m.Report, error)
}

// LocalReportStore writes reports as YAML files named by start timestamp.
type LocalReportStore struct{}

// NewLocalReportStore constructs a LocalReportStore.
func NewLocalReportStore() *LocalReportStore {
	return &LocalReportStore{}
}

// SaveReport writes report into dir, creating dir if needed, and returns the
// path of the written file.
func (s *LocalReportStore) SaveReport(dir m.Path, report m.Report) (m.Path, error) {
	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return "", fmt.Errorf("creating reports dir: %w", err)
	}

	name := fmt.Sprintf("run-%s.yaml", report.StartedAt.Format("20060102-150405"))
	path := filepath.Join(string(dir), name)

	data, err := yaml.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	return m.Path(path), nil
}

// LoadReport reads one report file back.
func (s *LocalReportStore) LoadReport(path m.Path) (m.Report, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return m.Report{}, fmt.Errorf("reading report: %w", err)
	}

	var report m.Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		return m.Report{}, fmt.Errorf("decoding report: %w", err)
	}

	return report, nil
}
