package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"rustmin.dev/pkg/rustmin/internal/adapter"
	"rustmin.dev/pkg/rustmin/internal/controller"
	m "rustmin.dev/pkg/rustmin/internal/model"
)

// Options configures one minimization run.
type Options struct {
	// Path is the file or directory to minimize.
	Path m.Path

	// Passes is the ordered list of passes to run. Empty means the
	// mode-dependent default order.
	Passes []Pass

	// IgnorePaths are path prefixes relative to Path that are never touched.
	IgnorePaths []m.Path

	// NoVerify skips all build verification and treats every candidate
	// batch as reproducing.
	NoVerify bool

	// NoDeleteFunctions disables function deletion in the item deleter and
	// the dead code reaper.
	NoDeleteFunctions bool
}

// Minimizer drives the passes over the source tree, feeding build verdicts
// into one bisection controller per (file, pass) unit.
type Minimizer struct {
	opts  Options
	fs    adapter.SourceFSAdapter
	rust  adapter.RustFileAdapter
	build adapter.BuildRunner
	ui    controller.UI

	files []*SourceFile

	report m.Report
}

// NewMinimizer collects the Rust files under opts.Path and parses them.
func NewMinimizer(
	ctx context.Context,
	opts Options,
	fs adapter.SourceFSAdapter,
	rust adapter.RustFileAdapter,
	build adapter.BuildRunner,
	ui controller.UI,
) (*Minimizer, error) {
	paths, err := fs.CollectRustFiles(opts.Path, opts.IgnorePaths)
	if err != nil {
		return nil, fmt.Errorf("collecting files under %s: %w", opts.Path, err)
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("no Rust files found under %s", opts.Path)
	}

	files := make([]*SourceFile, 0, len(paths))

	for _, p := range paths {
		f, err := OpenSourceFile(ctx, fs, rust, p)
		if err != nil {
			return nil, err
		}

		files = append(files, f)
	}

	return &Minimizer{
		opts:  opts,
		fs:    fs,
		rust:  rust,
		build: build,
		ui:    ui,
		files: files,
		report: m.Report{
			Target:    opts.Path,
			StartedAt: time.Now(),
			NoVerify:  opts.NoVerify,
		},
	}, nil
}

// Files returns the files under minimization.
func (mz *Minimizer) Files() []*SourceFile {
	return mz.files
}

// Report returns the run report accumulated so far.
func (mz *Minimizer) Report() m.Report {
	r := mz.report
	r.Duration = time.Since(mz.report.StartedAt)

	return r
}

// RunPasses verifies that the unmodified tree reproduces the issue, then
// runs every configured pass to its fixpoint.
func (mz *Minimizer) RunPasses(ctx context.Context) error {
	initial, err := mz.verify(ctx)
	if err != nil {
		return err
	}

	mz.ui.DisplayInitialBuild(ctx, initial)

	if !initial.Reproduces() {
		return errors.New("the unmodified source does not reproduce the issue, nothing to minimize")
	}

	for _, pass := range mz.opts.Passes {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := mz.runPass(ctx, pass); err != nil {
			return err
		}
	}

	return nil
}

// runPass repeats full sweeps of one pass until a sweep commits nothing.
// Earlier deletions can expose new opportunities, so a single sweep is not
// enough. A file whose tree was invalidated by a commit is held back from
// further sweeps until the pass has refreshed its state; the refresh runs
// once per quiet stretch and reopens the held-back files.
func (mz *Minimizer) runPass(ctx context.Context, pass Pass) error {
	mz.ui.DisplayPassStart(ctx, pass.Name())

	pr := m.PassReport{Name: pass.Name()}

	invalidated := make(map[m.Path]bool)
	refreshed := false

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		pr.Rounds++

		changes := &Changes{}

		for _, file := range mz.files {
			if invalidated[file.Path()] {
				continue
			}

			committed, failed, err := mz.processFile(ctx, pass, file, changes, invalidated)

			pr.Committed += committed
			pr.Failed += failed

			if err != nil {
				return err
			}
		}

		if changes.HadChanges() {
			refreshed = false

			continue
		}

		if len(invalidated) > 0 && !refreshed {
			slog.Debug("refreshing state", "pass", pass.Name(), "invalidated", len(invalidated))

			if r, ok := pass.(StateRefresher); ok {
				if err := r.RefreshState(ctx); err != nil {
					return err
				}
			}

			invalidated = make(map[m.Path]bool)
			refreshed = true

			continue
		}

		break
	}

	mz.report.Passes = append(mz.report.Passes, pr)
	mz.ui.DisplayPassFinished(ctx, pass.Name())

	return nil
}

// processFile runs the full bisection protocol of one pass on one file:
// a collection walk, then repeated candidate-batch walks with a build
// verdict after each, until the controller finishes or the file's tree is
// invalidated by a commit.
func (mz *Minimizer) processFile(
	ctx context.Context,
	pass Pass,
	file *SourceFile,
	changes *Changes,
	invalidated map[m.Path]bool,
) (committed, failed int, err error) {
	pc := NewPassController()

	state, _ := pass.ProcessFile(file, pc)
	if state == m.FileInvalidated {
		invalidated[file.Path()] = true

		return 0, 0, nil
	}

	pc.NoChange()

	if pc.IsFinished() {
		mz.ui.DisplayNoChange(ctx, file.Path(), pass.Name())

		return 0, 0, nil
	}

	counts := func() (int, int) { return pc.CommittedCount(), pc.FailedCount() }

	for !pc.IsFinished() {
		if err := ctx.Err(); err != nil {
			committed, failed = counts()

			return committed, failed, err
		}

		change, err := file.TryChange(changes)
		if err != nil {
			committed, failed = counts()

			return committed, failed, err
		}

		state, edits := pass.ProcessFile(file, pc)

		if state == m.NoChange || len(edits) == 0 {
			change.Close()
			pc.NoChange()

			continue
		}

		if err := change.Write(ctx, edits); err != nil {
			change.Close()
			committed, failed = counts()

			return committed, failed, err
		}

		res, err := mz.verify(ctx)
		if err != nil {
			_ = change.Rollback()
			change.Close()
			committed, failed = counts()

			return committed, failed, err
		}

		mz.report.Builds++
		mz.ui.DisplayBuildVerdict(ctx, file.Path(), pass.Name(), res)

		if res.Reproduces() {
			change.Commit()
			change.Close()
			pc.Reproduces()

			if state == m.FileInvalidated {
				// The committed text no longer matches the paths the
				// controller still holds. Restart this file after the
				// next refresh instead of bisecting against a stale tree.
				invalidated[file.Path()] = true

				committed, failed = counts()

				return committed, failed, nil
			}
		} else {
			if err := change.Rollback(); err != nil {
				change.Close()
				committed, failed = counts()

				return committed, failed, err
			}

			change.Close()
			pc.DoesNotReproduce()
		}
	}

	committed, failed = counts()

	return committed, failed, nil
}

// verify runs one build through the runner.
func (mz *Minimizer) verify(ctx context.Context) (m.BuildResult, error) {
	res, err := mz.build.Build(ctx)
	if err != nil {
		return m.BuildResult{}, fmt.Errorf("running build: %w", err)
	}

	return res, nil
}

// EnumerateCandidates runs every configured pass in collection mode only
// and returns the candidate counts per (file, pass), without building or
// mutating anything.
func (mz *Minimizer) EnumerateCandidates(ctx context.Context) ([]m.CandidateCount, error) {
	var counts []m.CandidateCount

	for _, pass := range mz.opts.Passes {
		for _, file := range mz.files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			pc := NewPassController()
			pass.ProcessFile(file, pc)

			counts = append(counts, m.CandidateCount{
				File:  file.Path(),
				Pass:  pass.Name(),
				Count: len(pc.Candidates()),
			})
		}
	}

	return counts, nil
}
