// Package adapter contains infrastructure adapters for the rustmin engine:
// Rust parsing, build invocation, filesystem access and report persistence.
package adapter

import (
	"context"
	"fmt"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"

	m "rustmin.dev/pkg/rustmin/internal/model"
)

// RustFileAdapter encapsulates Rust-specific parsing and text-editing logic
// so the domain layer can focus on minimization while delegating grammar
// details to an infrastructure component.
type RustFileAdapter interface {
	// Parse builds a syntax tree for the provided source text. It returns an
	// error when the text does not parse as Rust.
	Parse(ctx context.Context, src []byte) (*sitter.Tree, error)

	// ApplyEdits splices a set of non-overlapping byte-range edits into src
	// and returns the resulting text. src is not modified.
	ApplyEdits(src []byte, edits []m.Edit) ([]byte, error)
}

// LocalRustFileAdapter provides a concrete RustFileAdapter backed by the
// tree-sitter Rust grammar.
type LocalRustFileAdapter struct {
	lang *sitter.Language
}

// NewLocalRustFileAdapter constructs a LocalRustFileAdapter.
func NewLocalRustFileAdapter() *LocalRustFileAdapter {
	return &LocalRustFileAdapter{lang: rust.GetLanguage()}
}

// Parse parses src as Rust. Tree-sitter always produces a tree, so broken
// input is detected by scanning for error or missing nodes.
func (a *LocalRustFileAdapter) Parse(ctx context.Context, src []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(a.lang)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parsing rust source: %w", err)
	}

	if node := firstErrorNode(tree.RootNode()); node != nil {
		point := node.StartPoint()
		tree.Close()

		return nil, fmt.Errorf("rust syntax error at line %d, column %d", point.Row+1, point.Column+1)
	}

	return tree, nil
}

func firstErrorNode(node *sitter.Node) *sitter.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}

	if !node.HasError() {
		return nil
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		if found := firstErrorNode(node.Child(i)); found != nil {
			return found
		}
	}

	return nil
}

// ApplyEdits applies edits from the highest start offset down so that lower
// offsets stay valid while splicing.
func (a *LocalRustFileAdapter) ApplyEdits(src []byte, edits []m.Edit) ([]byte, error) {
	sorted := make([]m.Edit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start > sorted[j].Start
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].End > sorted[i-1].Start {
			return nil, fmt.Errorf("overlapping edits: [%d,%d) and [%d,%d)",
				sorted[i].Start, sorted[i].End, sorted[i-1].Start, sorted[i-1].End)
		}
	}

	out := make([]byte, len(src))
	copy(out, src)

	for _, edit := range sorted {
		if int(edit.End) > len(out) || edit.Start > edit.End {
			return nil, fmt.Errorf("edit [%d,%d) out of bounds for %d bytes", edit.Start, edit.End, len(out))
		}

		var next []byte
		next = append(next, out[:edit.Start]...)
		next = append(next, edit.Text...)
		next = append(next, out[edit.End:]...)
		out = next
	}

	return out, nil
}
