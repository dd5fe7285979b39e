package passes

import (
	"fmt"
	"strings"

	"rustmin.dev/pkg/rustmin/internal/domain"
)

// Options carries the knobs individual passes honour.
type Options struct {
	NoDeleteFunctions bool
}

// Build constructs one pass by name.
func Build(name string, opts Options) (domain.Pass, error) {
	switch name {
	case "everybody-loops":
		return NewEverybodyLoops(), nil
	case "privatize":
		return NewPrivatize(), nil
	case "split-use":
		return NewSplitUse(), nil
	case "item-deleter":
		return NewItemDeleter(opts.NoDeleteFunctions), nil
	case "field-deleter":
		return NewFieldDeleter(), nil
	}

	return nil, fmt.Errorf("unknown pass %q, available: %s", name, strings.Join(Names(), ", "))
}

// Names lists the selectable passes in their default running order.
func Names() []string {
	return []string{"everybody-loops", "privatize", "split-use", "item-deleter", "field-deleter"}
}

// DefaultNames is the pass order used when the user selects none. Without
// verification the destructive passes would erase the whole tree unchecked,
// so only the body-preserving one runs there.
func DefaultNames(noVerify bool) []string {
	if noVerify {
		return []string{"everybody-loops"}
	}

	return Names()
}

// BuildAll constructs the named passes in order.
func BuildAll(names []string, opts Options) ([]domain.Pass, error) {
	out := make([]domain.Pass, 0, len(names))

	for _, name := range names {
		p, err := Build(name, opts)
		if err != nil {
			return nil, err
		}

		out = append(out, p)
	}

	return out, nil
}
