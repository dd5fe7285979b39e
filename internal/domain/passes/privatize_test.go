package passes

import (
	"strings"
	"testing"

	m "rustmin.dev/pkg/rustmin/internal/model"
)

const privatizeFixture = `pub struct Config {
    pub retries: u32,
}

pub fn load() -> Config {
    Config { retries: 3 }
}

mod inner {
    pub use super::Config;

    pub fn helper() {}
}
`

func TestPrivatizeCollectsVisibilitySites(t *testing.T) {
	file := openFile(t, privatizeFixture)
	checker := &recordingChecker{}

	state, _ := NewPrivatize().ProcessFile(file, checker)

	if state != m.NoChange {
		t.Fatalf("collection walk state = %v", state)
	}

	got := checker.strings()
	for _, want := range []string{
		"Config::{{vis}}",
		"Config::retries::{{vis}}",
		"load::{{vis}}",
		"inner::pub use super::Config;::{{vis}}",
		"inner::helper::{{vis}}",
	} {
		if !contains(got, want) {
			t.Fatalf("candidates %v miss %q", got, want)
		}
	}
}

func TestPrivatizeLowersPubToCrate(t *testing.T) {
	file := openFile(t, privatizeFixture)

	state, edits := NewPrivatize().ProcessFile(file, approveAll{})

	if state != m.Changed {
		t.Fatalf("state = %v, want changed", state)
	}

	out := apply(t, file, edits)

	if strings.Contains(out, "pub ") {
		t.Fatalf("bare pub survived:\n%s", out)
	}

	for _, want := range []string{
		"pub(crate) struct Config",
		"pub(crate) retries: u32,",
		"pub(crate) fn load()",
		"pub(crate) use super::Config;",
		"pub(crate) fn helper()",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("%q missing:\n%s", want, out)
		}
	}
}

func TestPrivatizeKeepsSiblingModuleReferencesResolving(t *testing.T) {
	// `b` names `a::f` across modules, so anything weaker than
	// crate visibility would break the reference.
	file := openFile(t, "mod a {\n    pub fn f() {}\n}\n\nmod b {\n    pub fn g() {\n        crate::a::f();\n    }\n}\n")

	_, edits := NewPrivatize().ProcessFile(file, approveAll{})

	out := apply(t, file, edits)

	if !strings.Contains(out, "pub(crate) fn f()") {
		t.Fatalf("cross-module item not crate-visible:\n%s", out)
	}

	if strings.Contains(out, "\n    fn f()") {
		t.Fatalf("visibility removed entirely:\n%s", out)
	}
}

func TestPrivatizeSkipsRestrictedVisibility(t *testing.T) {
	file := openFile(t, "pub(crate) fn a() {}\n\npub(super) fn b() {}\n\npub fn c() {}\n")
	checker := &recordingChecker{}

	NewPrivatize().ProcessFile(file, checker)

	got := checker.strings()

	if !contains(got, "c::{{vis}}") {
		t.Fatalf("bare pub not offered: %v", got)
	}

	if contains(got, "a::{{vis}}") || contains(got, "b::{{vis}}") {
		t.Fatalf("restricted visibility offered again: %v", got)
	}
}

func TestPrivatizeSelective(t *testing.T) {
	file := openFile(t, privatizeFixture)

	_, edits := NewPrivatize().ProcessFile(file, approveOnly{"load::{{vis}}": true})

	if len(edits) != 1 {
		t.Fatalf("%d edits, want 1", len(edits))
	}

	out := apply(t, file, edits)

	if !strings.Contains(out, "pub(crate) fn load()") {
		t.Fatalf("load not lowered:\n%s", out)
	}

	if !strings.Contains(out, "pub struct Config") {
		t.Fatalf("unapproved site touched:\n%s", out)
	}
}
