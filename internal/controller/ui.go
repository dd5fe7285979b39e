// Package controller provides output adapters for reporting minimization
// progress and results.
package controller

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"

	m "rustmin.dev/pkg/rustmin/internal/model"
)

// UI is how the engine reports progress. Implementations decide formatting;
// the engine only states facts.
type UI interface {
	DisplayInitialBuild(ctx context.Context, result m.BuildResult)
	DisplayPassStart(ctx context.Context, pass string)
	DisplayPassFinished(ctx context.Context, pass string)
	DisplayBuildVerdict(ctx context.Context, file m.Path, pass string, result m.BuildResult)
	DisplayNoChange(ctx context.Context, file m.Path, pass string)
	DisplayCandidates(ctx context.Context, counts []m.CandidateCount) error
	DisplaySummary(ctx context.Context, report m.Report) error
}

// IsTTY reports whether f is attached to a terminal. Color output is
// disabled when it is not.
func IsTTY(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
