package passes

import (
	"strings"
	"testing"

	m "rustmin.dev/pkg/rustmin/internal/model"
)

const loopsFixture = `fn main() {
    helper();
}

mod util {
    pub fn helper() {
        println!("hi");
    }
}
`

func TestEverybodyLoopsCollectsFunctionPaths(t *testing.T) {
	file := openFile(t, loopsFixture)
	checker := &recordingChecker{}

	state, edits := NewEverybodyLoops().ProcessFile(file, checker)

	if state != m.NoChange || edits != nil {
		t.Fatalf("collection walk must not edit, got state=%v edits=%v", state, edits)
	}

	got := checker.strings()
	for _, want := range []string{"main", "util::helper"} {
		if !contains(got, want) {
			t.Fatalf("candidates %v miss %q", got, want)
		}
	}
}

func TestEverybodyLoopsReplacesBodies(t *testing.T) {
	file := openFile(t, loopsFixture)

	state, edits := NewEverybodyLoops().ProcessFile(file, approveAll{})

	if state != m.Changed {
		t.Fatalf("state = %v, want changed", state)
	}

	out := apply(t, file, edits)

	if strings.Contains(out, "println!") || strings.Contains(out, "helper();") {
		t.Fatalf("bodies survived:\n%s", out)
	}

	if got := strings.Count(out, "{ loop {} }"); got != 2 {
		t.Fatalf("%d loop bodies, want 2:\n%s", got, out)
	}

	// Signatures stay intact.
	if !strings.Contains(out, "fn main()") || !strings.Contains(out, "pub fn helper()") {
		t.Fatalf("signatures damaged:\n%s", out)
	}
}

func TestEverybodyLoopsSkipsEmptyBodies(t *testing.T) {
	file := openFile(t, "fn main() {}\n\nfn busy() { work(); }\n")

	state, edits := NewEverybodyLoops().ProcessFile(file, approveAll{})

	if state != m.Changed || len(edits) != 1 {
		t.Fatalf("state=%v edits=%v, want one edit for the non-empty body", state, edits)
	}

	out := apply(t, file, edits)

	if !strings.Contains(out, "fn main() {}") {
		t.Fatalf("empty body rewritten:\n%s", out)
	}

	if !strings.Contains(out, "fn busy() { loop {} }") {
		t.Fatalf("non-empty body kept:\n%s", out)
	}
}

func TestEverybodyLoopsSkipsAlreadyLooped(t *testing.T) {
	file := openFile(t, "fn main() { loop {} }\n")

	state, edits := NewEverybodyLoops().ProcessFile(file, approveAll{})

	if state != m.NoChange || len(edits) != 0 {
		t.Fatalf("already-looped body retried: state=%v edits=%v", state, edits)
	}
}

func TestEverybodyLoopsIgnoresNestedFunctions(t *testing.T) {
	file := openFile(t, "fn outer() {\n    fn inner() { panic!() }\n    inner();\n}\n")
	checker := &recordingChecker{}

	NewEverybodyLoops().ProcessFile(file, checker)

	got := checker.strings()
	if contains(got, "outer::inner") || contains(got, "inner") {
		t.Fatalf("nested function offered separately: %v", got)
	}

	if !contains(got, "outer") {
		t.Fatalf("outer missing from %v", got)
	}
}
