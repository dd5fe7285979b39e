package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"rustmin.dev/pkg/rustmin/internal/adapter"
	"rustmin.dev/pkg/rustmin/internal/domain"
	"rustmin.dev/pkg/rustmin/internal/domain/passes"
	m "rustmin.dev/pkg/rustmin/internal/model"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [path]",
		Short: "List source files and candidate counts",
		Long:  listLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			configureLogger("", verboseFlag)

			target := m.Path(defaultTarget)
			if len(args) == 1 {
				target = m.Path(args[0])
			}

			ctx := context.Background()

			passList, err := passes.BuildAll(passes.Names(), passes.Options{
				NoDeleteFunctions: viper.GetBool(noDeleteFunctionsConfigKey),
			})
			if err != nil {
				return err
			}

			// Listing never builds, so a no-verify runner is enough.
			runner := adapter.NewLocalBuildRunner(adapter.BuildConfig{NoVerify: true})

			mz, err := domain.NewMinimizer(ctx, domain.Options{
				Path:        target,
				Passes:      passList,
				IgnorePaths: parsePaths(viper.GetStringSlice(ignoreConfigKey)),
			}, sourceFSAdapter, rustFileAdapter, runner, ui)
			if err != nil {
				return err
			}

			counts, err := mz.EnumerateCandidates(ctx)
			if err != nil {
				return err
			}

			return ui.DisplayCandidates(ctx, counts)
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
