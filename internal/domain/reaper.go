package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"rustmin.dev/pkg/rustmin/internal/adapter"
	m "rustmin.dev/pkg/rustmin/internal/model"
)

// DeleteDeadCode removes code the compiler reports as unused once the passes
// have settled: unused imports via the compiler's own machine-applicable
// suggestions, then never-used functions through deadFns, a pass that feeds
// on dead_code diagnostics. deadFns may be nil to skip function deletion.
//
// Both phases keep the usual discipline: every applied change is verified to
// still reproduce the issue and rolled back otherwise.
func (mz *Minimizer) DeleteDeadCode(ctx context.Context, deadFns Pass) error {
	if !mz.build.SupportsDiagnostics() {
		slog.Warn("build mode produces no diagnostics, skipping dead code removal")

		return nil
	}

	res, err := mz.verify(ctx)
	if err != nil {
		return err
	}

	if !res.Reproduces() {
		return errors.New("the source no longer reproduces the issue, refusing to remove dead code")
	}

	if err := mz.applyUnusedImports(ctx); err != nil {
		return err
	}

	if deadFns == nil || mz.opts.NoDeleteFunctions {
		return nil
	}

	// The pass starts out without diagnostics; load them before the first
	// sweep so it has spans to match.
	if r, ok := deadFns.(StateRefresher); ok {
		if err := r.RefreshState(ctx); err != nil {
			return err
		}
	}

	return mz.runPass(ctx, deadFns)
}

// applyUnusedImports repeatedly asks the compiler for unused-import
// suggestions and applies them per file. Removing one import can make
// another one unused, so a single round is not enough.
func (mz *Minimizer) applyUnusedImports(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		diags, _, err := mz.build.Diagnostics(ctx)
		if err != nil {
			return fmt.Errorf("collecting diagnostics: %w", err)
		}

		byFile := mz.unusedImportEdits(diags)
		if len(byFile) == 0 {
			return nil
		}

		changes := &Changes{}

		for _, file := range mz.files {
			edits, ok := byFile[file.Path()]
			if !ok {
				continue
			}

			if err := mz.applyVerified(ctx, file, changes, edits); err != nil {
				return err
			}
		}

		if !changes.HadChanges() {
			// Every file rolled back; retrying would apply the exact same
			// suggestions again.
			return nil
		}
	}
}

// applyVerified writes edits to file, builds and commits or rolls back.
func (mz *Minimizer) applyVerified(ctx context.Context, file *SourceFile, changes *Changes, edits []m.Edit) error {
	change, err := file.TryChange(changes)
	if err != nil {
		return err
	}

	defer change.Close()

	if err := change.Write(ctx, edits); err != nil {
		return err
	}

	res, err := mz.verify(ctx)
	if err != nil {
		_ = change.Rollback()

		return err
	}

	mz.report.Builds++
	mz.ui.DisplayBuildVerdict(ctx, file.Path(), "unused-imports", res)

	if res.Reproduces() {
		change.Commit()

		return nil
	}

	return change.Rollback()
}

// unusedImportEdits distills unused-import diagnostics into per-file edit
// lists, deduplicated and guaranteed non-overlapping.
func (mz *Minimizer) unusedImportEdits(diags []m.Diagnostic) map[m.Path][]m.Edit {
	byFile := make(map[m.Path][]m.Edit)

	for _, diag := range diags {
		if !strings.HasPrefix(diag.Message, "unused import") {
			continue
		}

		for _, sug := range adapter.CollectSuggestions(diag) {
			file := mz.fileFor(sug.FileName())
			if file == nil {
				continue
			}

			for _, rep := range sug.Replacements {
				byFile[file.Path()] = append(byFile[file.Path()], m.Edit{
					Start: rep.ByteStart,
					End:   rep.ByteEnd,
					Text:  rep.Text,
				})
			}
		}
	}

	for path, edits := range byFile {
		byFile[path] = dedupEdits(edits)
	}

	return byFile
}

// fileFor resolves a diagnostic file name against the files under
// minimization. The compiler reports paths relative to the project
// directory, so an exact match is tried first and a suffix match second.
func (mz *Minimizer) fileFor(name string) *SourceFile {
	if name == "" {
		return nil
	}

	for _, file := range mz.files {
		if string(file.Path()) == name {
			return file
		}
	}

	for _, file := range mz.files {
		p := string(file.Path())
		if strings.HasSuffix(p, "/"+name) || strings.HasSuffix(name, "/"+p) {
			return file
		}
	}

	return nil
}

// dedupEdits sorts edits by start offset and drops exact duplicates and
// overlaps. The compiler sometimes attaches the same replacement to several
// diagnostics.
func dedupEdits(edits []m.Edit) []m.Edit {
	sort.Slice(edits, func(i, j int) bool {
		if edits[i].Start != edits[j].Start {
			return edits[i].Start < edits[j].Start
		}

		return edits[i].End < edits[j].End
	})

	out := edits[:0]

	var lastEnd uint32

	for i, e := range edits {
		if i > 0 && e.Start < lastEnd {
			continue
		}

		out = append(out, e)
		lastEnd = e.End
	}

	return out
}
