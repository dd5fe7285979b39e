package domain

import (
	"context"

	m "rustmin.dev/pkg/rustmin/internal/model"
)

// PathChecker is the view of the bisection controller a pass sees while
// walking a file: for each candidate site it asks whether the mutation
// should be applied in the current round.
type PathChecker interface {
	// CanProcess records path as a candidate during collection and reports
	// whether it is part of the batch under test during bisection.
	CanProcess(path m.AstPath) bool
}

// Pass is one minimization strategy. ProcessFile walks the file, asks the
// checker at each candidate site and returns the edits for the sites that
// were approved, together with the state of the traversal.
type Pass interface {
	// Name is the stable identifier used for pass selection and reporting.
	Name() string

	// ProcessFile never mutates the file itself; the returned edits are
	// byte ranges against the file's current text.
	ProcessFile(file *SourceFile, checker PathChecker) (m.ProcessState, []m.Edit)
}

// StateRefresher is implemented by passes whose candidate universe depends
// on external state, such as fresh compiler diagnostics. The minimizer
// refreshes once after a sweep that found no candidates at all, then retries.
type StateRefresher interface {
	RefreshState(ctx context.Context) error
}
