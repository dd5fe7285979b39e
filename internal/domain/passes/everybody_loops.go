package passes

import (
	sitter "github.com/smacker/go-tree-sitter"

	"rustmin.dev/pkg/rustmin/internal/domain"
	m "rustmin.dev/pkg/rustmin/internal/model"
)

const loopBody = "{ loop {} }"

// EverybodyLoops replaces function bodies with `loop {}`. The body of a
// function rarely matters for reproducing a compiler issue, only its
// signature does, and a diverging body keeps every signature well typed.
type EverybodyLoops struct{}

func NewEverybodyLoops() *EverybodyLoops {
	return &EverybodyLoops{}
}

func (p *EverybodyLoops) Name() string {
	return "everybody-loops"
}

func (p *EverybodyLoops) ProcessFile(file *domain.SourceFile, checker domain.PathChecker) (m.ProcessState, []m.Edit) {
	src := file.Text()
	tracker := &pathTracker{}

	var edits []m.Edit

	var walk func(container *sitter.Node)
	walk = func(container *sitter.Node) {
		directItems(container, func(item *sitter.Node) {
			if item.Type() == "function_item" {
				p.visitFunction(item, src, tracker, checker, &edits)

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

	return m.Changed, edits
}

// visitFunction never descends into the body, so nested functions vanish
// together with the body they live in.
func (p *EverybodyLoops) visitFunction(
	fn *sitter.Node,
	src []byte,
	tracker *pathTracker,
	checker domain.PathChecker,
	edits *[]m.Edit,
) {
	name := fn.ChildByFieldName("name")
	body := fn.ChildByFieldName("body")

	if name == nil || body == nil {
		return
	}

	// An empty body is already as small as a body gets.
	if body.NamedChildCount() == 0 {
		return
	}

	if nodeText(body, src) == loopBody {
		return
	}

	if !checker.CanProcess(tracker.at(nodeText(name, src))) {
		return
	}

	*edits = append(*edits, m.Edit{
		Start: body.StartByte(),
		End:   body.EndByte(),
		Text:  loopBody,
	})
}
