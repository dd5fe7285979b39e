// Package domain contains the core minimization engine: the pass-scheduling
// minimizer, the bisection controller and the file transaction layer.
package domain

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"rustmin.dev/pkg/rustmin/internal/adapter"
	m "rustmin.dev/pkg/rustmin/internal/model"
)

// SourceFile is the representation of one source file with its cached text
// and syntax tree. All filesystem operations on that file MUST go through it
// so the cache is always representative of the on-disk state; it is never
// copied for the same reason.
type SourceFile struct {
	path m.Path
	fs   adapter.SourceFSAdapter
	rust adapter.RustFileAdapter

	text []byte
	tree *sitter.Tree
}

// OpenSourceFile reads and parses path.
func OpenSourceFile(ctx context.Context, fs adapter.SourceFSAdapter, rust adapter.RustFileAdapter, path m.Path) (*SourceFile, error) {
	text, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}

	tree, err := rust.Parse(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("parsing file %s: %w", path, err)
	}

	return &SourceFile{
		path: path,
		fs:   fs,
		rust: rust,
		text: text,
		tree: tree,
	}, nil
}

// Path returns the file's identity.
func (f *SourceFile) Path() m.Path {
	return f.path
}

// Text returns the cached text. Callers must not mutate it.
func (f *SourceFile) Text() []byte {
	return f.text
}

// Root returns the root node of the cached syntax tree.
func (f *SourceFile) Root() *sitter.Node {
	return f.tree.RootNode()
}

// write puts text on disk and reparses it to refresh the cache. Reparsing
// the just-written text rather than reusing a predicted tree guarantees the
// cache matches exactly what a subsequent build will see. A reparse failure
// after our own edit application is an internal bug.
func (f *SourceFile) write(ctx context.Context, text []byte) error {
	if err := f.fs.WriteFile(f.path, text); err != nil {
		return fmt.Errorf("writing file %s: %w", f.path, err)
	}

	tree, err := f.rust.Parse(ctx, text)
	if err != nil {
		return fmt.Errorf("internal error: reparsing %s after edit: %w", f.path, err)
	}

	f.text = text
	f.tree = tree

	return nil
}

// restore rewrites a known-good snapshot without reparsing.
func (f *SourceFile) restore(text []byte, tree *sitter.Tree) error {
	if err := f.fs.WriteFile(f.path, text); err != nil {
		return fmt.Errorf("restoring file %s: %w", f.path, err)
	}

	f.text = text
	f.tree = tree

	return nil
}

// TryChange begins a transaction on the file, snapshotting its current text
// and tree. Exactly one transaction may be in flight per file.
func (f *SourceFile) TryChange(changes *Changes) (*FileChange, error) {
	return &FileChange{
		file:       f,
		changes:    changes,
		beforeText: f.text,
		beforeTree: f.tree,
	}, nil
}

// Changes accumulates whether any transaction committed during one pass
// sweep, which decides the fixpoint.
type Changes struct {
	anyChange bool
}

// HadChanges reports whether any transaction committed.
func (c *Changes) HadChanges() bool {
	return c.anyChange
}

// FileChange is a scoped mutation of one SourceFile: write a tentative
// state, then either commit it or roll back to the snapshot. Ending the
// scope without a decision is a programming error; Close enforces it.
type FileChange struct {
	file    *SourceFile
	changes *Changes

	beforeText []byte
	beforeTree *sitter.Tree

	written bool
	done    bool
}

// BeforeText returns the pre-transaction snapshot text.
func (c *FileChange) BeforeText() []byte {
	return c.beforeText
}

// Write applies edits against the snapshot text, puts the result on disk and
// refreshes the file cache.
func (c *FileChange) Write(ctx context.Context, edits []m.Edit) error {
	text, err := c.file.rust.ApplyEdits(c.beforeText, edits)
	if err != nil {
		return fmt.Errorf("applying edits to %s: %w", c.file.path, err)
	}

	if err := c.file.write(ctx, text); err != nil {
		return err
	}

	c.written = true

	return nil
}

// Commit keeps the written state and marks the sweep as changed.
func (c *FileChange) Commit() {
	if !c.written {
		panic("commit of a change that was never written")
	}

	c.written = false
	c.done = true
	c.changes.anyChange = true
}

// Rollback restores the pre-transaction snapshot on disk and in the cache.
func (c *FileChange) Rollback() error {
	if !c.written {
		panic("rollback of a change that was never written")
	}

	c.written = false
	c.done = true

	return c.file.restore(c.beforeText, c.beforeTree)
}

// Close enforces the transaction discipline: a change dropped while written
// is a bug. The snapshot is restored best-effort before panicking so the
// disk is not left inconsistent.
func (c *FileChange) Close() {
	if !c.written {
		return
	}

	_ = c.file.restore(c.beforeText, c.beforeTree)

	panic(fmt.Sprintf("file %s contains unsaved changes", c.file.path))
}
