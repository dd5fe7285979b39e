package passes

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"rustmin.dev/pkg/rustmin/internal/domain"
	m "rustmin.dev/pkg/rustmin/internal/model"
)

// SplitUse flattens grouped use declarations one level at a time, turning
// `use a::{b, c::{d, e}};` into `use a::b;` and `use a::c::{d, e};`. On its
// own this removes nothing, but it gives the item deleter one declaration
// per import to bisect over.
type SplitUse struct{}

func NewSplitUse() *SplitUse {
	return &SplitUse{}
}

func (p *SplitUse) Name() string {
	return "split-use"
}

func (p *SplitUse) ProcessFile(file *domain.SourceFile, checker domain.PathChecker) (m.ProcessState, []m.Edit) {
	src := file.Text()
	tracker := &pathTracker{}

	var edits []m.Edit

	var walk func(container *sitter.Node)
	walk = func(container *sitter.Node) {
		directItems(container, func(item *sitter.Node) {
			if item.Type() == "use_declaration" {
				if e, ok := p.splitDeclaration(item, src, tracker, checker); ok {
					edits = append(edits, e)
				}

				return
			}

			seg, tracked := itemSegment(item, src)
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

	// Splitting rewrites the declarations the remaining candidate paths
	// were derived from, so a commit must restart the file.
	return m.FileInvalidated, edits
}

func (p *SplitUse) splitDeclaration(
	use *sitter.Node,
	src []byte,
	tracker *pathTracker,
	checker domain.PathChecker,
) (m.Edit, bool) {
	arg := use.ChildByFieldName("argument")
	if arg == nil {
		return m.Edit{}, false
	}

	var prefix string

	list := arg

	if arg.Type() == "scoped_use_list" {
		list = arg.ChildByFieldName("list")
		if path := arg.ChildByFieldName("path"); path != nil {
			prefix = nodeText(path, src) + "::"
		}
	}

	if list == nil || list.Type() != "use_list" {
		return m.Edit{}, false
	}

	head := "use "
	if vis := visibilityOf(use); vis != nil {
		head = nodeText(vis, src) + " use "
	}

	var decls []string

	directItems(list, func(entry *sitter.Node) {
		decls = append(decls, head+prefix+nodeText(entry, src)+";")
	})

	if len(decls) == 0 {
		return m.Edit{}, false
	}

	path := tracker.at(prefix + "{..}")
	path = append(path, m.SegmentGroup)

	if !checker.CanProcess(path) {
		return m.Edit{}, false
	}

	return m.Edit{
		Start: use.StartByte(),
		End:   use.EndByte(),
		Text:  strings.Join(decls, "\n"),
	}, true
}
