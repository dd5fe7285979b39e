package passes

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"rustmin.dev/pkg/rustmin/internal/adapter"
	"rustmin.dev/pkg/rustmin/internal/domain"
	m "rustmin.dev/pkg/rustmin/internal/model"
)

// DeadFunctions deletes functions and methods the dead_code lint reports as
// never used. Unlike the structural passes its candidate universe comes from
// the compiler, so the minimizer refreshes it between sweeps.
type DeadFunctions struct {
	build adapter.BuildRunner

	// spans holds the byte ranges of the reported function names, keyed by
	// the compiler's file name. They go stale the moment a deletion
	// commits, which is why ProcessFile reports the file invalidated.
	spans map[string][]m.Edit
}

func NewDeadFunctions(build adapter.BuildRunner) *DeadFunctions {
	return &DeadFunctions{build: build, spans: map[string][]m.Edit{}}
}

func (p *DeadFunctions) Name() string {
	return "delete-unused-functions"
}

// RefreshState reloads the dead_code diagnostics.
func (p *DeadFunctions) RefreshState(ctx context.Context) error {
	diags, _, err := p.build.Diagnostics(ctx)
	if err != nil {
		return fmt.Errorf("collecting dead code diagnostics: %w", err)
	}

	p.spans = map[string][]m.Edit{}

	for _, diag := range diags {
		if diag.Code == nil || diag.Code.Code != "dead_code" {
			continue
		}

		if !strings.Contains(diag.Message, "never used") {
			continue
		}

		if !strings.Contains(diag.Message, "function") &&
			!strings.Contains(diag.Message, "method") {
			continue
		}

		for _, span := range diag.Spans {
			p.spans[span.FileName] = append(p.spans[span.FileName], m.Edit{
				Start: span.ByteStart,
				End:   span.ByteEnd,
			})
		}
	}

	return nil
}

func (p *DeadFunctions) ProcessFile(file *domain.SourceFile, checker domain.PathChecker) (m.ProcessState, []m.Edit) {
	spans := p.spansFor(file.Path())
	if len(spans) == 0 {
		return m.NoChange, nil
	}

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

			if item.Type() == "function_item" {
				if p.deadName(item, spans) && checker.CanProcess(tracker.at(seg)) {
					start, end := deleteRange(item)
					edits = append(edits, m.Edit{Start: start, End: end})
				}

				return
			}

			if body := containerBody(item); body != nil {
				tracker.push(seg)
				walk(body)
				tracker.pop()

				if item.Type() == "impl_item" {
					edits = collapseEmptiedImpl(item, edits)
				}
			}
		})
	}

	walk(file.Root())

	if len(edits) == 0 {
		return m.NoChange, nil
	}

	// Committing shifts every remaining span.
	return m.FileInvalidated, edits
}

func (p *DeadFunctions) spansFor(path m.Path) []m.Edit {
	for name, spans := range p.spans {
		if string(path) == name ||
			strings.HasSuffix(string(path), "/"+name) ||
			strings.HasSuffix(name, "/"+string(path)) {
			return spans
		}
	}

	return nil
}

func (p *DeadFunctions) deadName(fn *sitter.Node, spans []m.Edit) bool {
	name := fn.ChildByFieldName("name")
	if name == nil {
		return false
	}

	for _, s := range spans {
		if name.StartByte() == s.Start && name.EndByte() == s.End {
			return true
		}
	}

	return false
}

// collapseEmptiedImpl replaces the per-method edits of an impl block with a
// single deletion of the whole block when every item in it is going, so no
// empty `impl T {}` shells are left behind.
func collapseEmptiedImpl(impl *sitter.Node, edits []m.Edit) []m.Edit {
	body := impl.ChildByFieldName("body")
	if body == nil {
		return edits
	}

	var kept, inner []m.Edit

	for _, e := range edits {
		if e.Start >= body.StartByte() && e.End <= body.EndByte() {
			inner = append(inner, e)
		} else {
			kept = append(kept, e)
		}
	}

	var total int

	directItems(body, func(item *sitter.Node) {
		if item.Type() != "attribute_item" {
			total++
		}
	})

	if total == 0 || len(inner) != total {
		// Not everything goes; keep the per-method edits.
		return append(kept, inner...)
	}

	start, end := deleteRange(impl)

	return append(kept, m.Edit{Start: start, End: end})
}
