package domain

import (
	"fmt"
	"sort"

	m "rustmin.dev/pkg/rustmin/internal/model"
)

// PassController is the interface between the passes and the core logic. Its
// job is to bisect down the minimization sites so that every site that can be
// applied is applied, while trying as many as possible per build.
//
// The controller starts in a collection phase: every site a pass offers is
// recorded and denied, so the first walk over a file changes nothing. Once
// the pass reports that walk as a no-change, the full candidate set becomes
// the first batch to try. From then on a failing batch of size one is a
// confirmed bad edit, and a larger failing batch is split in half and both
// halves are queued, delta-debugging style. A batch is never retried whole.
type PassController struct {
	state ctrlState

	// collection phase
	candidates []m.AstPath
	seen       map[string]struct{}

	// bisection phase
	committed map[string]m.AstPath
	failed    map[string]m.AstPath
	current   map[string]m.AstPath
	worklist  [][]m.AstPath
}

type ctrlState int

const (
	stateCollecting ctrlState = iota
	stateBisecting
	stateSuccess
)

// NewPassController creates a controller for one (pass, file) pair.
func NewPassController() *PassController {
	return &PassController{
		state: stateCollecting,
		seen:  map[string]struct{}{},
	}
}

// CanProcess decides whether the pass may apply the edit at path right now.
// During collection it records the site and denies. During bisection it
// allows exactly the sites of the current batch.
func (c *PassController) CanProcess(path m.AstPath) bool {
	switch c.state {
	case stateCollecting:
		key := path.Key()
		if _, ok := c.seen[key]; !ok {
			c.seen[key] = struct{}{}
			c.candidates = append(c.candidates, path.Clone())
		}

		return false
	case stateBisecting:
		_, ok := c.current[path.Key()]
		return ok
	default:
		panic("pass controller: CanProcess after success")
	}
}

// Reproduces records that the issue still reproduced with the current batch
// applied: everything in it is good and stays on disk.
func (c *PassController) Reproduces() {
	switch c.state {
	case stateBisecting:
		for key, path := range c.current {
			c.committed[key] = path
		}

		c.current = map[string]m.AstPath{}
		c.pruneWorklist()
		c.nextInWorklist()
	case stateCollecting:
		panic("pass controller: build verdict during collection")
	default:
		panic("pass controller: Reproduces after success")
	}
}

// DoesNotReproduce records that the current batch broke reproduction. A
// single-element batch is a confirmed bad edit; a larger one is split.
func (c *PassController) DoesNotReproduce() {
	switch c.state {
	case stateBisecting:
		if len(c.current) == 1 {
			for key, path := range c.current {
				c.failed[key] = path
			}
		} else {
			first, second := splitBatch(sortedPaths(c.current))
			c.pushBatch(first)
			c.pushBatch(second)
		}

		c.current = map[string]m.AstPath{}
		c.nextInWorklist()
	case stateCollecting:
		panic("pass controller: build verdict during collection")
	default:
		panic("pass controller: DoesNotReproduce after success")
	}
}

// NoChange records that the pass made no edits in this walk. During
// collection this is the expected hand-off into bisection; during bisection
// it means the pass stopped honoring the sites it offered.
func (c *PassController) NoChange() {
	switch c.state {
	case stateCollecting:
		if len(c.candidates) == 0 {
			c.state = stateSuccess
			return
		}

		c.current = map[string]m.AstPath{}
		for _, path := range c.candidates {
			c.current[path.Key()] = path
		}

		c.committed = map[string]m.AstPath{}
		c.failed = map[string]m.AstPath{}
		c.candidates = nil
		c.seen = nil
		c.state = stateBisecting
	case stateBisecting:
		panic(fmt.Sprintf("pass controller: no change while bisecting %d sites; the pass does not track its process state correctly", len(c.current)))
	default:
		// Spurious NoChange after success is harmless.
	}
}

// IsFinished reports whether every candidate has been committed or thrown
// away.
func (c *PassController) IsFinished() bool {
	return c.state == stateSuccess
}

// Candidates returns the sites recorded so far, in path order. Only
// meaningful during collection; the list command uses it for dry counting.
func (c *PassController) Candidates() []m.AstPath {
	out := make([]m.AstPath, len(c.candidates))
	copy(out, c.candidates)
	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })

	return out
}

// CommittedCount returns how many sites were verified good.
func (c *PassController) CommittedCount() int {
	return len(c.committed)
}

// FailedCount returns how many sites were confirmed bad.
func (c *PassController) FailedCount() int {
	return len(c.failed)
}

func (c *PassController) pushBatch(batch []m.AstPath) {
	if len(batch) > 0 {
		c.worklist = append(c.worklist, batch)
	}
}

func (c *PassController) nextInWorklist() {
	for len(c.worklist) > 0 {
		next := c.worklist[len(c.worklist)-1]
		c.worklist = c.worklist[:len(c.worklist)-1]

		if len(next) == 0 {
			continue
		}

		c.current = map[string]m.AstPath{}
		for _, path := range next {
			c.current[path.Key()] = path
		}

		return
	}

	c.state = stateSuccess
}

// pruneWorklist drops pending sites nested strictly inside a committed one:
// deleting a containing item already removed them, and trying a batch of
// vanished sites would make the pass report a mid-bisection no-change.
func (c *PassController) pruneWorklist() {
	for i, batch := range c.worklist {
		kept := batch[:0]

		for _, path := range batch {
			if !c.nestedInCommitted(path) {
				kept = append(kept, path)
			}
		}

		c.worklist[i] = kept
	}
}

func (c *PassController) nestedInCommitted(path m.AstPath) bool {
	for _, committed := range c.committed {
		if len(committed) < len(path) && path.HasPrefix(committed) {
			return true
		}
	}

	return false
}

func sortedPaths(set map[string]m.AstPath) []m.AstPath {
	out := make([]m.AstPath, 0, len(set))
	for _, path := range set {
		out = append(out, path)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })

	return out
}

// splitBatch splits a batch in half, the first half taking the extra element
// for odd sizes.
func splitBatch(batch []m.AstPath) ([]m.AstPath, []m.AstPath) {
	half := (len(batch) + 1) / 2
	return batch[:half], batch[half:]
}
