package adapter

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	m "rustmin.dev/pkg/rustmin/internal/model"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()

	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatal(err)
		}

		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	return root
}

func TestCollectRustFilesFindsOnlyRustSources(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"src/main.rs":        "fn main() {}",
		"src/lib.rs":         "",
		"src/nested/deep.rs": "",
		"Cargo.toml":         "[package]",
		"README.md":          "readme",
	})

	files, err := NewLocalSourceFSAdapter().CollectRustFiles(m.Path(root), nil)
	if err != nil {
		t.Fatal(err)
	}

	got := make([]string, 0, len(files))
	for _, f := range files {
		rel, _ := filepath.Rel(root, string(f))
		got = append(got, rel)
	}

	sort.Strings(got)

	want := []string{"src/lib.rs", "src/main.rs", "src/nested/deep.rs"}
	if len(got) != len(want) {
		t.Fatalf("collected %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("collected %v, want %v", got, want)
		}
	}
}

func TestCollectRustFilesHonorsIgnorePrefixes(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"src/main.rs":      "",
		"target/debug.rs":  "",
		"vendor/fake.rs":   "",
		"src/generated.rs": "",
	})

	files, err := NewLocalSourceFSAdapter().CollectRustFiles(m.Path(root), []m.Path{
		m.Path(filepath.Join(root, "target")),
		m.Path(filepath.Join(root, "vendor")),
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, f := range files {
		rel, _ := filepath.Rel(root, string(f))
		if rel == "target/debug.rs" || rel == "vendor/fake.rs" {
			t.Fatalf("ignored file collected: %s", rel)
		}
	}

	if len(files) != 2 {
		t.Fatalf("collected %d files, want 2", len(files))
	}
}

func TestCollectRustFilesSingleFileRoot(t *testing.T) {
	root := writeFiles(t, map[string]string{"repro.rs": "fn main() {}"})
	single := filepath.Join(root, "repro.rs")

	files, err := NewLocalSourceFSAdapter().CollectRustFiles(m.Path(single), nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(files) != 1 || string(files[0]) != single {
		t.Fatalf("collected %v, want just %s", files, single)
	}
}

func TestWriteFilePreservesMode(t *testing.T) {
	root := writeFiles(t, map[string]string{"script.rs": "fn main() {}"})
	path := filepath.Join(root, "script.rs")

	if err := os.Chmod(path, 0o600); err != nil {
		t.Fatal(err)
	}

	a := NewLocalSourceFSAdapter()
	if err := a.WriteFile(m.Path(path), []byte("fn main() { loop {} }")); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode = %v, want 0600", info.Mode().Perm())
	}

	data, err := a.ReadFile(m.Path(path))
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "fn main() { loop {} }" {
		t.Fatalf("content = %q", data)
	}
}
