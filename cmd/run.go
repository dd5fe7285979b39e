package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"rustmin.dev/pkg/rustmin/internal/adapter"
	"rustmin.dev/pkg/rustmin/internal/controller"
	"rustmin.dev/pkg/rustmin/internal/domain"
	"rustmin.dev/pkg/rustmin/internal/domain/passes"
	m "rustmin.dev/pkg/rustmin/internal/model"
)

// defaultTarget is minimized when no path argument is given.
const defaultTarget = "src"

var noVerifyFlag bool
var rustcFlag bool
var verifyScriptFlag string
var verifyGrepFlag string
var passesFlag []string
var envFlag []string
var projectDirFlag string
var noDeleteFunctionsFlag bool

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [path]",
		Short: "Minimize a Rust source tree",
		Long:  runLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configureLogger("", verboseFlag)

			target := m.Path(defaultTarget)
			if len(args) == 1 {
				target = m.Path(args[0])
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runMinimize(ctx, cmd, target)
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&noVerifyFlag, noVerifyFlagName, viper.GetBool(noVerifyConfigKey), "apply the conservative passes without any build verification")
	bindFlagToConfig(cmd.Flags().Lookup(noVerifyFlagName), noVerifyConfigKey)

	cmd.Flags().BoolVar(&rustcFlag, rustcFlagName, viper.GetBool(rustcConfigKey), "verify a single file with plain rustc instead of cargo")
	bindFlagToConfig(cmd.Flags().Lookup(rustcFlagName), rustcConfigKey)

	cmd.Flags().StringVar(&verifyScriptFlag, verifyScriptFlagName, viper.GetString(verifyScriptConfigKey), "script whose exit code 0 means the issue reproduces")
	bindFlagToConfig(cmd.Flags().Lookup(verifyScriptFlagName), verifyScriptConfigKey)

	cmd.Flags().StringVar(&verifyGrepFlag, verifyGrepFlagName, viper.GetString(verifyGrepConfigKey), "substring of the build output that means the issue reproduces")
	bindFlagToConfig(cmd.Flags().Lookup(verifyGrepFlagName), verifyGrepConfigKey)

	cmd.Flags().StringSliceVar(&passesFlag, passesFlagName, viper.GetStringSlice(passesConfigKey), "comma-separated pass names to run, in order (default: mode-dependent)")
	bindFlagToConfig(cmd.Flags().Lookup(passesFlagName), passesConfigKey)

	cmd.Flags().StringArrayVar(&envFlag, envFlagName, viper.GetStringSlice(envConfigKey), "extra KEY=VALUE for the build environment (can be repeated)")
	bindFlagToConfig(cmd.Flags().Lookup(envFlagName), envConfigKey)

	cmd.Flags().StringVar(&projectDirFlag, projectDirFlagName, viper.GetString(projectDirConfigKey), "directory to run build commands in (default: current)")
	bindFlagToConfig(cmd.Flags().Lookup(projectDirFlagName), projectDirConfigKey)

	cmd.Flags().BoolVar(&noDeleteFunctionsFlag, noDeleteFunctionsFlagName, viper.GetBool(noDeleteFunctionsConfigKey), "never delete functions, only shrink them")
	bindFlagToConfig(cmd.Flags().Lookup(noDeleteFunctionsFlagName), noDeleteFunctionsConfigKey)
}

func runMinimize(ctx context.Context, cmd *cobra.Command, target m.Path) error {
	buildCfg, err := buildConfigFromFlags(target)
	if err != nil {
		return err
	}

	runner := adapter.NewLocalBuildRunner(buildCfg)

	passList, err := selectedPasses()
	if err != nil {
		return err
	}

	display := ui
	if noColorFlag {
		display = controller.NewSimpleUI(cmd, false)
	}

	mz, err := domain.NewMinimizer(ctx, domain.Options{
		Path:              target,
		Passes:            passList,
		IgnorePaths:       parsePaths(viper.GetStringSlice(ignoreConfigKey)),
		NoVerify:          viper.GetBool(noVerifyConfigKey),
		NoDeleteFunctions: viper.GetBool(noDeleteFunctionsConfigKey),
	}, sourceFSAdapter, rustFileAdapter, runner, display)
	if err != nil {
		return err
	}

	err = mz.RunPasses(ctx)
	if err == nil {
		err = mz.DeleteDeadCode(ctx, passes.NewDeadFunctions(runner))
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if errors.Is(err, context.Canceled) {
		cmd.Println("Interrupted, sources left in their last committed state")
	}

	report := mz.Report()

	if path, saveErr := reportStore.SaveReport(m.Path(viper.GetString(outputFlagName)), report); saveErr != nil {
		cmd.PrintErrf("saving report: %v\n", saveErr)
	} else {
		cmd.Printf("Report written to %s\n", path)
	}

	return display.DisplaySummary(ctx, report)
}

// buildConfigFromFlags resolves the verification mode. Script beats rustc
// beats cargo; --verify-grep overlays a substring predicate on whichever
// mode is active.
func buildConfigFromFlags(target m.Path) (adapter.BuildConfig, error) {
	cfg := adapter.BuildConfig{
		Mode:     adapter.ModeCargo,
		WorkDir:  m.Path(viper.GetString(projectDirConfigKey)),
		Env:      viper.GetStringSlice(envConfigKey),
		NoVerify: viper.GetBool(noVerifyConfigKey),
	}

	if script := viper.GetString(verifyScriptConfigKey); script != "" {
		cfg.Mode = adapter.ModeScript
		cfg.Script = m.Path(script)
	} else if viper.GetBool(rustcConfigKey) {
		info, err := os.Stat(string(target))
		if err != nil {
			return cfg, fmt.Errorf("inspecting %s: %w", target, err)
		}

		if info.IsDir() {
			return cfg, errors.New("--rustc needs a single file target, not a directory")
		}

		cfg.Mode = adapter.ModeRustc
		cfg.InputPath = target
	}

	if grep := viper.GetString(verifyGrepConfigKey); grep != "" {
		cfg.Predicate = func(output string, _ *int) bool {
			return strings.Contains(output, grep)
		}
	}

	return cfg, nil
}

func selectedPasses() ([]domain.Pass, error) {
	names := viper.GetStringSlice(passesConfigKey)
	if len(names) == 0 {
		names = passes.DefaultNames(viper.GetBool(noVerifyConfigKey))
	}

	return passes.BuildAll(names, passes.Options{
		NoDeleteFunctions: viper.GetBool(noDeleteFunctionsConfigKey),
	})
}
