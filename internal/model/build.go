package model

// Predicate decides from raw build output (and the exit code, when the
// process ran to completion) whether the issue reproduced. How the predicate
// came to exist is not the engine's business.
type Predicate func(output string, exitCode *int) bool

// BuildResult is the verdict of one build/verification run.
type BuildResult struct {
	// ReproducesIssue is the raw predicate verdict. Meaningless when
	// NoVerify is set.
	ReproducesIssue bool
	// NoVerify records that verification was skipped entirely.
	NoVerify bool
	// Output is the captured build output, kept for user-facing context.
	Output string
}

// Reproduces reports whether the engine should treat the tried edits as good.
// In no-verify mode every edit is good by definition.
func (r BuildResult) Reproduces() bool {
	return r.ReproducesIssue || r.NoVerify
}

// Verdict renders the result for progress output.
func (r BuildResult) Verdict() string {
	switch {
	case r.ReproducesIssue:
		return "yes"
	case r.NoVerify:
		return "yes (no-verify)"
	default:
		return "no"
	}
}
