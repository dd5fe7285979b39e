package model

import "strings"

// Synthetic path segments for anonymous constructs.
const (
	// SegmentVisibility marks a visibility modifier minimization site.
	SegmentVisibility = "{{vis}}"
	// SegmentGroup marks a use-tree group minimization site.
	SegmentGroup = "{{group}}"
)

// AstPath identifies one minimization site by its lexical nesting context:
// module, item, field or method names from the file root down to the site,
// possibly ending in a synthetic segment like "{{vis}}".
type AstPath []string

// Clone returns an independent copy. Passes reuse a single path stack during
// traversal, so every path handed to the controller must be detached from it.
func (p AstPath) Clone() AstPath {
	out := make(AstPath, len(p))
	copy(out, p)

	return out
}

// Key returns a stable string form usable as a map key. The separator cannot
// occur in Rust identifiers or in the synthetic segments.
func (p AstPath) Key() string {
	return strings.Join(p, "\x1f")
}

// String renders the path the way it is logged, e.g. "outer::inner::{{vis}}".
func (p AstPath) String() string {
	return strings.Join(p, "::")
}

// Compare orders paths lexically segment by segment.
func (p AstPath) Compare(other AstPath) int {
	for i := 0; i < len(p) && i < len(other); i++ {
		if c := strings.Compare(p[i], other[i]); c != 0 {
			return c
		}
	}

	switch {
	case len(p) < len(other):
		return -1
	case len(p) > len(other):
		return 1
	default:
		return 0
	}
}

// HasPrefix reports whether prefix is a (not necessarily strict) segment-wise
// prefix of p. A path deleted by committing its prefix no longer exists.
func (p AstPath) HasPrefix(prefix AstPath) bool {
	if len(prefix) > len(p) {
		return false
	}

	for i, seg := range prefix {
		if p[i] != seg {
			return false
		}
	}

	return true
}
