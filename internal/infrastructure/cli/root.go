package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/doeshing/raix/internal/app"
	"github.com/doeshing/raix/internal/infrastructure/cli/commands"
	"github.com/doeshing/raix/internal/infrastructure/cli/tui"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose    bool
	ConfigPath string
}

// NewRootCmd wires the cobra root command. The returned cleanup releases the
// container and must run after the command finishes.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, func(), error) {
	container, err := app.BuildContainer(ctx, app.Options{
		Verbose:    opts.Verbose,
		ConfigPath: opts.ConfigPath,
	})
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := container.Close(); err != nil {
			container.Logger.Warn("shutdown", map[string]interface{}{"error": err.Error()})
		}
	}

	runCmd := newRunCommand(container)

	root := &cobra.Command{
		Use:   "raix [prompt]",
		Short: "raix - Recursive AI Executor client",
		Long: "raix sends a prompt to a recursive AI executor, retries failed calls up to a fixed cap, " +
			"and keeps a session log that can be exported as JSON.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runCmd.RunE(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.Flags().AddFlagSet(runCmd.Flags())
	root.AddCommand(runCmd)
	root.AddCommand(tui.NewCommand(container))
	root.AddCommand(commands.NewHistoryCommand(container))
	root.AddCommand(commands.NewConfigCommand(container))
	root.AddCommand(commands.NewDoctorCommand(container))
	root.AddCommand(commands.NewVersionCommand())
	return root, cleanup, nil
}
