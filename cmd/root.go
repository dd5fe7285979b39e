// Package cmd provides the root command and CLI setup for rustmin.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"rustmin.dev/pkg/rustmin/internal/adapter"
	"rustmin.dev/pkg/rustmin/internal/controller"
	m "rustmin.dev/pkg/rustmin/internal/model"
)

var rustFileAdapter adapter.RustFileAdapter
var sourceFSAdapter adapter.SourceFSAdapter
var reportStore adapter.ReportStore
var ui controller.UI

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

// ignorePatterns is a root-level flag that excludes path prefixes from minimization.
var ignorePatterns []string

// noColorFlag disables styled terminal output.
var noColorFlag bool

// verboseFlag raises the log level to debug.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewSimpleUI(rootCmd, controller.IsTTY(os.Stdout))
	rustFileAdapter = adapter.NewLocalRustFileAdapter()
	sourceFSAdapter = adapter.NewLocalSourceFSAdapter()
	reportStore = adapter.NewLocalReportStore()
}

const rootLongDescription = `Rustmin shrinks a Rust source tree to the smallest version that still
reproduces a compiler issue. It mutates the sources one candidate batch at
a time, rebuilds after every trial and keeps only the changes under which
the issue persists.

By default it runs 'cargo build' in the project directory and treats an
internal compiler error as reproduction; use --rustc for single files,
--verify-script or --verify-grep for custom reproduction criteria, or
--no-verify to apply the conservative passes without building at all.`

const runLongDescription = `Minimize the Rust sources under the given path (default: src).

Every trial change is verified against the build before it sticks; failed
trials are bisected down to the individual change that broke reproduction
and rolled back.`

const listLongDescription = `List source files and the number of candidate minimization sites per pass,
without building or modifying anything.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rustmin",
		Short: "Rust source tree minimizer",
		Long:  rootLongDescription,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for minimization reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringArrayVar(&ignorePatterns, ignoreFlagName, viper.GetStringSlice(ignoreConfigKey), "path prefix never to touch (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(ignoreFlagName), ignoreConfigKey)

	cmd.PersistentFlags().BoolVar(&noColorFlag, noColorFlagName, false, "disable colored output")
	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", false, "enable debug logging")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
