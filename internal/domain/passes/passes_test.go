package passes

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"rustmin.dev/pkg/rustmin/internal/adapter"
	"rustmin.dev/pkg/rustmin/internal/domain"
	m "rustmin.dev/pkg/rustmin/internal/model"
)

// recordingChecker emulates the controller's collection phase: record and
// deny everything.
type recordingChecker struct {
	paths []m.AstPath
}

func (c *recordingChecker) CanProcess(path m.AstPath) bool {
	c.paths = append(c.paths, path)
	return false
}

func (c *recordingChecker) strings() []string {
	out := make([]string, 0, len(c.paths))
	for _, p := range c.paths {
		out = append(out, p.String())
	}

	return out
}

// approveAll emulates a bisection batch containing every site.
type approveAll struct{}

func (approveAll) CanProcess(m.AstPath) bool { return true }

// approveOnly approves exactly the named sites.
type approveOnly map[string]bool

func (c approveOnly) CanProcess(path m.AstPath) bool { return c[path.String()] }

func openFile(t *testing.T, content string) *domain.SourceFile {
	t.Helper()

	path := filepath.Join(t.TempDir(), "lib.rs")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	file, err := domain.OpenSourceFile(
		context.Background(),
		adapter.NewLocalSourceFSAdapter(),
		adapter.NewLocalRustFileAdapter(),
		m.Path(path),
	)
	if err != nil {
		t.Fatal(err)
	}

	return file
}

func apply(t *testing.T, file *domain.SourceFile, edits []m.Edit) string {
	t.Helper()

	out, err := adapter.NewLocalRustFileAdapter().ApplyEdits(file.Text(), edits)
	if err != nil {
		t.Fatal(err)
	}

	return string(out)
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}

	return false
}
