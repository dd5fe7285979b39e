package passes

import (
	sitter "github.com/smacker/go-tree-sitter"

	"rustmin.dev/pkg/rustmin/internal/domain"
	m "rustmin.dev/pkg/rustmin/internal/model"
)

// Privatize lowers `pub` items to `pub(crate)`. Crate-visible items are
// visible to the dead code lint while cross-module references keep
// resolving, so privatizing first lets the reaper find much more to delete.
type Privatize struct{}

func NewPrivatize() *Privatize {
	return &Privatize{}
}

func (p *Privatize) Name() string {
	return "privatize"
}

func (p *Privatize) ProcessFile(file *domain.SourceFile, checker domain.PathChecker) (m.ProcessState, []m.Edit) {
	src := file.Text()
	tracker := &pathTracker{}

	var edits []m.Edit

	var walk func(container *sitter.Node)
	walk = func(container *sitter.Node) {
		directItems(container, func(item *sitter.Node) {
			seg, tracked := itemSegment(item, src)

			if vis := visibilityOf(item); vis != nil && tracked && isBarePub(vis, src) {
				// A pub use is part of the consuming module's API surface;
				// its whole text names the site, and there is nothing
				// underneath it worth descending into.
				path := tracker.at(seg)
				path = append(path, m.SegmentVisibility)

				if checker.CanProcess(path) {
					edits = append(edits, lowerVisibility(vis))
				}

				if item.Type() == "use_declaration" {
					return
				}
			}

			if item.Type() == "struct_item" && tracked {
				tracker.push(seg)
				p.visitFields(item, src, tracker, checker, &edits)
				tracker.pop()

				return
			}

			if body := containerBody(item); body != nil && tracked {
				tracker.push(seg)
				walk(body)
				tracker.pop()
			}
		})
	}

	walk(file.Root())

	if len(edits) == 0 {
		return m.NoChange, nil
	}

	return m.Changed, edits
}

// visitFields offers the visibility of named struct fields.
func (p *Privatize) visitFields(st *sitter.Node, src []byte, tracker *pathTracker, checker domain.PathChecker, edits *[]m.Edit) {
	body := st.ChildByFieldName("body")
	if body == nil || body.Type() != "field_declaration_list" {
		return
	}

	directItems(body, func(field *sitter.Node) {
		if field.Type() != "field_declaration" {
			return
		}

		vis := visibilityOf(field)
		name := field.ChildByFieldName("name")

		if vis == nil || name == nil || !isBarePub(vis, src) {
			return
		}

		path := tracker.at(nodeText(name, src))
		path = append(path, m.SegmentVisibility)

		if checker.CanProcess(path) {
			*edits = append(*edits, lowerVisibility(vis))
		}
	})
}

func visibilityOf(item *sitter.Node) *sitter.Node {
	for i := 0; i < int(item.NamedChildCount()); i++ {
		if c := item.NamedChild(i); c.Type() == "visibility_modifier" {
			return c
		}
	}

	return nil
}

// isBarePub reports whether the modifier is plain `pub`. Restricted forms
// like `pub(crate)` or `pub(super)` are already at most crate-visible.
func isBarePub(vis *sitter.Node, src []byte) bool {
	return nodeText(vis, src) == "pub"
}

// lowerVisibility rewrites the modifier to crate visibility.
func lowerVisibility(vis *sitter.Node) m.Edit {
	return m.Edit{Start: vis.StartByte(), End: vis.EndByte(), Text: "pub(crate)"}
}
