package passes

import (
	"strings"
	"testing"
)

const fieldsFixture = `struct Named {
    first: u32,
    second: String,
    third: bool,
}

struct Tuple(u8, u16, u32);
`

func TestFieldDeleterCollectsNamedAndTupleFields(t *testing.T) {
	file := openFile(t, fieldsFixture)
	checker := &recordingChecker{}

	NewFieldDeleter().ProcessFile(file, checker)

	got := checker.strings()
	for _, want := range []string{
		"Named::first", "Named::second", "Named::third",
		"Tuple::0", "Tuple::1", "Tuple::2",
	} {
		if !contains(got, want) {
			t.Fatalf("candidates %v miss %q", got, want)
		}
	}
}

func TestFieldDeleterRemovesNamedFieldWithComma(t *testing.T) {
	file := openFile(t, fieldsFixture)

	_, edits := NewFieldDeleter().ProcessFile(file, approveOnly{"Named::second": true})
	out := apply(t, file, edits)

	if strings.Contains(out, "second") {
		t.Fatalf("field survived:\n%s", out)
	}

	if !strings.Contains(out, "first: u32,") || !strings.Contains(out, "third: bool,") {
		t.Fatalf("neighbours damaged:\n%s", out)
	}

	if strings.Contains(out, ",,") {
		t.Fatalf("double comma left behind:\n%s", out)
	}
}

func TestFieldDeleterRemovesLastTupleField(t *testing.T) {
	file := openFile(t, fieldsFixture)

	_, edits := NewFieldDeleter().ProcessFile(file, approveOnly{"Tuple::2": true})
	out := apply(t, file, edits)

	if !strings.Contains(out, "struct Tuple(u8, u16);") {
		t.Fatalf("trailing comma not repaired:\n%s", out)
	}
}

func TestFieldDeleterAdjacentFieldsMerge(t *testing.T) {
	file := openFile(t, fieldsFixture)

	_, edits := NewFieldDeleter().ProcessFile(file, approveOnly{
		"Tuple::1": true,
		"Tuple::2": true,
	})

	out := apply(t, file, edits)

	if !strings.Contains(out, "struct Tuple(u8);") {
		t.Fatalf("adjacent deletions left debris:\n%s", out)
	}
}

func TestFieldDeleterWholeStruct(t *testing.T) {
	file := openFile(t, fieldsFixture)

	_, edits := NewFieldDeleter().ProcessFile(file, approveOnly{
		"Named::first":  true,
		"Named::second": true,
		"Named::third":  true,
	})

	out := apply(t, file, edits)

	if strings.Contains(out, "first") || strings.Contains(out, "second") || strings.Contains(out, "third") {
		t.Fatalf("fields survived:\n%s", out)
	}

	if !strings.Contains(out, "struct Named {") {
		t.Fatalf("struct shell damaged:\n%s", out)
	}
}
