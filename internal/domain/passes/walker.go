// Package passes contains the minimization strategies. Every pass walks a
// file's syntax tree, identifies candidate sites by a stable name path and
// emits byte-range edits for the sites the bisection controller approves.
package passes

import (
	sitter "github.com/smacker/go-tree-sitter"

	m "rustmin.dev/pkg/rustmin/internal/model"
)

// pathTracker maintains the name path from the file root to the node under
// visit. Paths are name based so they survive edits to sibling items.
type pathTracker struct {
	segs m.AstPath
}

func (t *pathTracker) push(seg string) {
	t.segs = append(t.segs, seg)
}

func (t *pathTracker) pop() {
	t.segs = t.segs[:len(t.segs)-1]
}

// current returns a copy safe to hand to the controller.
func (t *pathTracker) current() m.AstPath {
	return t.segs.Clone()
}

// at returns a copy of the current path extended with seg.
func (t *pathTracker) at(seg string) m.AstPath {
	p := make(m.AstPath, 0, len(t.segs)+1)
	p = append(p, t.segs...)

	return append(p, seg)
}

func nodeText(n *sitter.Node, src []byte) string {
	return string(src[n.StartByte():n.EndByte()])
}

// itemSegment returns the path segment for a container or item node, or
// false for node kinds that carry no name of their own.
func itemSegment(n *sitter.Node, src []byte) (string, bool) {
	switch n.Type() {
	case "function_item", "mod_item", "struct_item", "trait_item",
		"enum_item", "union_item", "static_item", "const_item", "type_item",
		"macro_definition", "enum_variant":
		if name := n.ChildByFieldName("name"); name != nil {
			return nodeText(name, src), true
		}
	case "impl_item":
		if typ := n.ChildByFieldName("type"); typ != nil {
			seg := "impl " + nodeText(typ, src)
			if tr := n.ChildByFieldName("trait"); tr != nil {
				seg = "impl " + nodeText(tr, src) + " for " + nodeText(typ, src)
			}

			return seg, true
		}
	case "use_declaration":
		return nodeText(n, src), true
	case "field_declaration":
		if name := n.ChildByFieldName("name"); name != nil {
			return nodeText(name, src), true
		}
	}

	return "", false
}

// containerBody returns the node whose children are the items nested inside
// n, or nil when n nests no items. Function bodies are not containers; no
// pass minimizes inside them.
func containerBody(n *sitter.Node) *sitter.Node {
	switch n.Type() {
	case "source_file":
		return n
	case "mod_item", "impl_item", "trait_item":
		return n.ChildByFieldName("body")
	}

	return nil
}

// deleteRange is the byte range removing n together with the attribute
// items and doc comments stacked directly above it.
func deleteRange(n *sitter.Node) (uint32, uint32) {
	start := n.StartByte()

	for prev := n.PrevNamedSibling(); prev != nil; prev = prev.PrevNamedSibling() {
		t := prev.Type()
		if t != "attribute_item" && t != "line_comment" && t != "block_comment" {
			break
		}

		start = prev.StartByte()
	}

	return start, n.EndByte()
}

// directItems calls fn for every named item directly inside container.
func directItems(container *sitter.Node, fn func(item *sitter.Node)) {
	for i := 0; i < int(container.NamedChildCount()); i++ {
		fn(container.NamedChild(i))
	}
}
