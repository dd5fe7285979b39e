package passes

import (
	"strconv"

	sitter "github.com/smacker/go-tree-sitter"

	"rustmin.dev/pkg/rustmin/internal/domain"
	m "rustmin.dev/pkg/rustmin/internal/model"
)

// FieldDeleter deletes struct fields, both named and tuple. Construction
// sites break when a field goes, so this pass pays off mostly on reductions
// whose structs are only referenced by type.
type FieldDeleter struct{}

func NewFieldDeleter() *FieldDeleter {
	return &FieldDeleter{}
}

func (p *FieldDeleter) Name() string {
	return "field-deleter"
}

func (p *FieldDeleter) ProcessFile(file *domain.SourceFile, checker domain.PathChecker) (m.ProcessState, []m.Edit) {
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

			if item.Type() == "struct_item" {
				tracker.push(seg)
				edits = append(edits, p.visitStruct(item, src, tracker, checker)...)
				tracker.pop()

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

func (p *FieldDeleter) visitStruct(
	st *sitter.Node,
	src []byte,
	tracker *pathTracker,
	checker domain.PathChecker,
) []m.Edit {
	body := st.ChildByFieldName("body")
	if body == nil {
		return nil
	}

	var fields []*sitter.Node
	var approved []bool

	switch body.Type() {
	case "field_declaration_list":
		directItems(body, func(field *sitter.Node) {
			if field.Type() != "field_declaration" {
				return
			}

			name := field.ChildByFieldName("name")
			if name == nil {
				return
			}

			fields = append(fields, field)
			approved = append(approved, checker.CanProcess(tracker.at(nodeText(name, src))))
		})
	case "ordered_field_declaration_list":
		directItems(body, func(field *sitter.Node) {
			if field.Type() == "attribute_item" || field.Type() == "visibility_modifier" {
				return
			}

			fields = append(fields, field)
			approved = append(approved, checker.CanProcess(tracker.at(strconv.Itoa(len(fields)-1))))
		})
	default:
		return nil
	}

	return runEdits(fields, approved)
}

// runEdits turns maximal runs of approved fields into one deletion each,
// taking the comma after the run, or the one before it when the run reaches
// the end of the list, so the separators stay balanced.
func runEdits(fields []*sitter.Node, approved []bool) []m.Edit {
	var edits []m.Edit

	for i := 0; i < len(fields); {
		if !approved[i] {
			i++
			continue
		}

		j := i
		for j+1 < len(fields) && approved[j+1] {
			j++
		}

		start, _ := deleteRange(fields[i])
		end := fields[j].EndByte()

		if next := fields[j].NextSibling(); next != nil && next.Type() == "," {
			end = next.EndByte()
		} else if prev := fields[i].PrevSibling(); prev != nil && prev.Type() == "," {
			start = prev.StartByte()
		}

		edits = append(edits, m.Edit{Start: start, End: end})
		i = j + 1
	}

	return edits
}
