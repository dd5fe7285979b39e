package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	m "rustmin.dev/pkg/rustmin/internal/model"
)

// BuildMode selects what the build runner shells out to.
type BuildMode int

const (
	// ModeCargo runs `cargo build` in the project directory.
	ModeCargo BuildMode = iota
	// ModeRustc compiles a single file with plain rustc.
	ModeRustc
	// ModeScript runs a user-supplied verification script.
	ModeScript
)

// ErrNoDiagnostics is returned when the configured build mode cannot produce
// structured compiler diagnostics.
var ErrNoDiagnostics = errors.New("build mode does not produce diagnostics")

// BuildRunner abstracts running the build/verification command and fetching
// structured diagnostics. It is stateless per invocation and may be called
// repeatedly.
type BuildRunner interface {
	// Build runs one build and reports whether the issue still reproduces.
	Build(ctx context.Context) (m.BuildResult, error)

	// Diagnostics rebuilds with JSON output enabled and returns the parsed
	// diagnostic stream plus the machine-applicable suggestions in it.
	Diagnostics(ctx context.Context) ([]m.Diagnostic, []m.Suggestion, error)

	// SupportsDiagnostics reports whether Diagnostics can work at all.
	SupportsDiagnostics() bool
}

// BuildConfig configures a LocalBuildRunner.
type BuildConfig struct {
	Mode BuildMode
	// InputPath is the file handed to rustc in ModeRustc.
	InputPath m.Path
	// WorkDir is where build commands run; empty means the current dir.
	WorkDir m.Path
	// Script is the verification command for ModeScript.
	Script m.Path
	// Env holds extra KEY=VALUE entries forwarded to the build.
	Env []string
	// NoVerify skips building entirely; every result reports reproduction.
	NoVerify bool
	// Predicate overrides the built-in per-mode verdict when non-nil.
	Predicate m.Predicate
}

// LocalBuildRunner provides a concrete BuildRunner using os/exec.
type LocalBuildRunner struct {
	cfg BuildConfig
}

// NewLocalBuildRunner constructs a LocalBuildRunner for the given config.
func NewLocalBuildRunner(cfg BuildConfig) *LocalBuildRunner {
	return &LocalBuildRunner{cfg: cfg}
}

// Build runs the verification command and applies the verdict predicate.
func (b *LocalBuildRunner) Build(ctx context.Context) (m.BuildResult, error) {
	if b.cfg.NoVerify {
		return m.BuildResult{NoVerify: true}, nil
	}

	cmd, err := b.buildCommand(ctx)
	if err != nil {
		return m.BuildResult{}, err
	}

	output, exitCode, err := b.run(cmd)
	if err != nil {
		return m.BuildResult{}, err
	}

	return m.BuildResult{
		ReproducesIssue: b.verdict(output, exitCode),
		Output:          output,
	}, nil
}

func (b *LocalBuildRunner) buildCommand(ctx context.Context) (*exec.Cmd, error) {
	switch b.cfg.Mode {
	case ModeCargo:
		return exec.CommandContext(ctx, "cargo", "build"), nil
	case ModeRustc:
		return exec.CommandContext(ctx, "rustc", "--edition", "2018", string(b.cfg.InputPath)), nil
	case ModeScript:
		return exec.CommandContext(ctx, string(b.cfg.Script)), nil
	default:
		return nil, fmt.Errorf("unknown build mode %d", b.cfg.Mode)
	}
}

// run executes cmd and returns its combined output and exit code. A non-zero
// exit is not an error; failing to spawn the process is.
func (b *LocalBuildRunner) run(cmd *exec.Cmd) (string, *int, error) {
	if b.cfg.WorkDir != "" {
		cmd.Dir = string(b.cfg.WorkDir)
	}

	cmd.Env = append(os.Environ(), b.cfg.Env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	output := stdout.String() + stderr.String()

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", nil, fmt.Errorf("spawning %s: %w", cmd.Path, err)
		}
	}

	code := cmd.ProcessState.ExitCode()

	return output, &code, nil
}

func (b *LocalBuildRunner) verdict(output string, exitCode *int) bool {
	if b.cfg.Predicate != nil {
		return b.cfg.Predicate(output, exitCode)
	}

	switch b.cfg.Mode {
	case ModeCargo:
		return strings.Contains(output, "internal compiler error")
	case ModeRustc:
		return exitCode != nil && *exitCode == 101
	case ModeScript:
		return exitCode != nil && *exitCode == 0
	default:
		return false
	}
}

// SupportsDiagnostics reports whether the mode emits structured diagnostics.
// Scripts are opaque, so they do not.
func (b *LocalBuildRunner) SupportsDiagnostics() bool {
	return b.cfg.Mode == ModeCargo || b.cfg.Mode == ModeRustc
}

// Diagnostics rebuilds with JSON diagnostics enabled and parses the stream.
func (b *LocalBuildRunner) Diagnostics(ctx context.Context) ([]m.Diagnostic, []m.Suggestion, error) {
	var (
		cmd        *exec.Cmd
		fromStderr bool
	)

	switch b.cfg.Mode {
	case ModeCargo:
		cmd = exec.CommandContext(ctx, "cargo", "build", "--message-format=json")
	case ModeRustc:
		cmd = exec.CommandContext(ctx, "rustc", "--edition", "2018", "--error-format=json", string(b.cfg.InputPath))
		fromStderr = true
	default:
		return nil, nil, ErrNoDiagnostics
	}

	if b.cfg.WorkDir != "" {
		cmd.Dir = string(b.cfg.WorkDir)
	}

	cmd.Env = append(os.Environ(), b.cfg.Env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, nil, fmt.Errorf("spawning %s: %w", cmd.Path, err)
		}
	}

	stream := stdout.Bytes()
	if fromStderr {
		stream = stderr.Bytes()
	}

	var diags []m.Diagnostic

	var err error
	if b.cfg.Mode == ModeCargo {
		diags, err = decodeCargoMessages(stream)
	} else {
		diags, err = decodeDiagnostics(stream)
	}

	if err != nil {
		return nil, nil, fmt.Errorf("decoding compiler diagnostics: %w", err)
	}

	var suggestions []m.Suggestion
	for _, diag := range diags {
		suggestions = append(suggestions, CollectSuggestions(diag)...)
	}

	return diags, suggestions, nil
}

// cargoMessage is one line of `cargo build --message-format=json` output.
type cargoMessage struct {
	Reason  string        `json:"reason"`
	Message *m.Diagnostic `json:"message"`
}

func decodeCargoMessages(stream []byte) ([]m.Diagnostic, error) {
	var diags []m.Diagnostic

	dec := json.NewDecoder(bytes.NewReader(stream))
	for {
		var msg cargoMessage

		err := dec.Decode(&msg)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, err
		}

		if msg.Reason != "compiler-message" || msg.Message == nil {
			continue
		}

		diags = append(diags, *msg.Message)
	}

	return diags, nil
}

func decodeDiagnostics(stream []byte) ([]m.Diagnostic, error) {
	var diags []m.Diagnostic

	dec := json.NewDecoder(bytes.NewReader(stream))
	for {
		var diag m.Diagnostic

		err := dec.Decode(&diag)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, err
		}

		diags = append(diags, diag)
	}

	return diags, nil
}

// CollectSuggestions extracts machine-applicable fixes from a diagnostic.
// One diagnostic can carry several suggestions, one per child that has
// replacement spans.
func CollectSuggestions(diag m.Diagnostic) []m.Suggestion {
	var suggestions []m.Suggestion

	for _, child := range diag.Children {
		var replacements []m.Replacement

		for _, span := range child.Spans {
			if !span.MachineApplicable() {
				continue
			}

			replacements = append(replacements, m.Replacement{
				FileName:  span.FileName,
				ByteStart: span.ByteStart,
				ByteEnd:   span.ByteEnd,
				Text:      *span.SuggestedReplacement,
			})
		}

		if len(replacements) > 0 {
			suggestions = append(suggestions, m.Suggestion{
				Message:      diag.Message,
				Replacements: replacements,
			})
		}
	}

	return suggestions
}
