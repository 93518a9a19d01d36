package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/doeshing/raix/internal/app"
)

// NewCommand creates the 'ui' command.
func NewCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "ui [prompt]",
		Short: "Open the interactive terminal UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.Ready(); err != nil {
				return err
			}
			// the alternate screen owns the terminal while the UI runs
			container.Generator.Logger = container.Logger.Detached()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			model := New(ctx, container.Generator, container.Exporter, strings.Join(args, " "))
			program := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err := program.Run()
			return err
		},
	}
}
