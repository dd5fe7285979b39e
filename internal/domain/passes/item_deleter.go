package passes

import (
	sitter "github.com/smacker/go-tree-sitter"

	"rustmin.dev/pkg/rustmin/internal/domain"
	m "rustmin.dev/pkg/rustmin/internal/model"
)

// ItemDeleter deletes whole items: functions, types, impls, modules,
// imports, constants. It is the workhorse pass; the verification loop is
// what keeps it from deleting anything the reproduction needs.
type ItemDeleter struct {
	// keepFunctions leaves function items alone, for issues where a
	// function body is the reproduction itself.
	keepFunctions bool
}

func NewItemDeleter(keepFunctions bool) *ItemDeleter {
	return &ItemDeleter{keepFunctions: keepFunctions}
}

func (p *ItemDeleter) Name() string {
	return "item-deleter"
}

var deletableKinds = map[string]bool{
	"function_item":    true,
	"struct_item":      true,
	"enum_item":        true,
	"union_item":       true,
	"trait_item":       true,
	"impl_item":        true,
	"mod_item":         true,
	"use_declaration":  true,
	"static_item":      true,
	"const_item":       true,
	"type_item":        true,
	"macro_definition": true,
}

func (p *ItemDeleter) ProcessFile(file *domain.SourceFile, checker domain.PathChecker) (m.ProcessState, []m.Edit) {
	src := file.Text()
	tracker := &pathTracker{}

	var edits []m.Edit

	var walk func(container *sitter.Node)
	walk = func(container *sitter.Node) {
		directItems(container, func(item *sitter.Node) {
			seg, tracked := itemSegment(item, src)
			if !tracked {
				return
			}

			if p.deletable(item) && checker.CanProcess(tracker.at(seg)) {
				start, end := deleteRange(item)
				edits = append(edits, m.Edit{Start: start, End: end})

				// The item's children go with it; offering them as well
				// would produce overlapping edits.
				return
			}

			if body := containerBody(item); body != nil {
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

func (p *ItemDeleter) deletable(item *sitter.Node) bool {
	if !deletableKinds[item.Type()] {
		return false
	}

	if p.keepFunctions && item.Type() == "function_item" {
		return false
	}

	return true
}
