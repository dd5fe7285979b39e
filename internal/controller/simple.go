package controller

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "rustmin.dev/pkg/rustmin/internal/model"
)

var (
	styleYes      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleNo       = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleNoChange = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// SimpleUI implements UI with plain lines through the cobra command's
// stdout, optionally colored.
type SimpleUI struct {
	cmd   *cobra.Command
	color bool
}

// NewSimpleUI creates a SimpleUI. color enables lipgloss styling of build
// verdicts.
func NewSimpleUI(cmd *cobra.Command, color bool) *SimpleUI {
	return &SimpleUI{cmd: cmd, color: color}
}

// DisplayInitialBuild reports the up-front reproduction check.
func (s *SimpleUI) DisplayInitialBuild(ctx context.Context, result m.BuildResult) {
	if ctx.Err() != nil {
		return
	}

	s.printf("Initial build: %s\n", s.verdict(result))
}

// DisplayPassStart reports that a pass begins a round of sweeps.
func (s *SimpleUI) DisplayPassStart(ctx context.Context, pass string) {
	if ctx.Err() != nil {
		return
	}

	s.printf("Starting a round of %s\n", pass)
}

// DisplayPassFinished reports that a pass reached its fixpoint.
func (s *SimpleUI) DisplayPassFinished(ctx context.Context, pass string) {
	if ctx.Err() != nil {
		return
	}

	s.printf("Finished %s\n", pass)
}

// DisplayBuildVerdict reports the reproduction verdict after a trial edit.
func (s *SimpleUI) DisplayBuildVerdict(ctx context.Context, file m.Path, pass string, result m.BuildResult) {
	if ctx.Err() != nil {
		return
	}

	s.printf("%s: After %s: %s\n", file, pass, s.verdict(result))
}

// DisplayNoChange reports that a pass had nothing left to try on a file.
func (s *SimpleUI) DisplayNoChange(ctx context.Context, file m.Path, pass string) {
	if ctx.Err() != nil {
		return
	}

	label := "no changes"
	if s.color {
		label = styleNoChange.Render(label)
	}

	s.printf("%s: After %s: %s\n", file, pass, label)
}

func (s *SimpleUI) verdict(result m.BuildResult) string {
	label := result.Verdict()
	if !s.color {
		return label
	}

	if result.Reproduces() {
		return styleYes.Render(label)
	}

	return styleNo.Render(label)
}

// DisplayCandidates renders the `list` output: per file and pass, how many
// minimization sites were found.
func (s *SimpleUI) DisplayCandidates(ctx context.Context, counts []m.CandidateCount) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sorted := make([]m.CandidateCount, len(counts))
	copy(sorted, counts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].File != sorted[j].File {
			return sorted[i].File < sorted[j].File
		}

		return sorted[i].Pass < sorted[j].Pass
	})

	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"File", "Pass", "Candidates"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	total := 0
	for _, count := range sorted {
		table.Append([]string{string(count.File), count.Pass, fmt.Sprintf("%d", count.Count)})
		total += count.Count
	}

	table.SetFooter([]string{"", "Total", fmt.Sprintf("%d", total)})
	table.Render()

	s.printf("\n%s", buf.String())

	return nil
}

// DisplaySummary renders the final per-pass statistics table.
func (s *SimpleUI) DisplaySummary(ctx context.Context, report m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Pass", "Rounds", "Committed", "Failed"})
	table.SetBorder(false)
	table.SetCenterSeparator("")

	committed := 0
	failed := 0

	for _, pass := range report.Passes {
		table.Append([]string{
			pass.Name,
			fmt.Sprintf("%d", pass.Rounds),
			fmt.Sprintf("%d", pass.Committed),
			fmt.Sprintf("%d", pass.Failed),
		})
		committed += pass.Committed
		failed += pass.Failed
	}

	table.SetFooter([]string{
		fmt.Sprintf("%d builds", report.Builds),
		"",
		fmt.Sprintf("%d", committed),
		fmt.Sprintf("%d", failed),
	})
	table.Render()

	s.printf("\n%s", buf.String())
	s.printf("Minimized %s in %s\n", report.Target, report.Duration.Round(time.Millisecond))

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
