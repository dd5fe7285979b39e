package model

// ProcessState is what a pass reports after one walk over a file.
type ProcessState int

const (
	// NoChange means the pass found nothing it was allowed to edit.
	NoChange ProcessState = iota
	// Changed means the pass produced edits that should be tried.
	Changed
	// FileInvalidated means the pass produced edits and, if they are kept,
	// any metadata the pass holds about this file (diagnostic spans keyed by
	// line and column) is stale until the pass refreshes its state.
	FileInvalidated
)

func (s ProcessState) String() string {
	switch s {
	case NoChange:
		return "no-change"
	case Changed:
		return "changed"
	case FileInvalidated:
		return "file-invalidated"
	default:
		return "unknown"
	}
}
