package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/raix/internal/app"
	"github.com/doeshing/raix/internal/application/session"
	"github.com/doeshing/raix/internal/domain"
)

// stdoutExportDir streams the session log to stdout instead of a file.
const stdoutExportDir = "-"

func newRunCommand(container *app.Container) *cobra.Command {
	var (
		exportLog bool
		exportDir string
		asJSON    bool
		noSpinner bool
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run [prompt]",
		Short: "Generate and execute code for a prompt",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.Ready(); err != nil {
				return err
			}
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			var progress *Spinner
			if !noSpinner && !asJSON {
				progress = NewSpinner(cmd.ErrOrStderr())
			}
			state, runErr := generate(ctx, container, strings.Join(args, " "), progress)
			if isRejected(runErr) {
				return runErr
			}

			if asJSON {
				if err := RenderJSON(cmd.OutOrStdout(), state, runErr); err != nil {
					return err
				}
			} else {
				RenderResult(cmd.OutOrStdout(), state)
			}

			if exportLog {
				if err := exportSessionLog(cmd.OutOrStdout(), cmd.ErrOrStderr(), container, exportDir); err != nil {
					return err
				}
			}
			return runErr
		},
	}

	cmd.Flags().BoolVarP(&exportLog, "export", "e", false, "Export the session log after the run")
	cmd.Flags().StringVar(&exportDir, "export-dir", "", "Export directory (default from config, '-' for stdout)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&noSpinner, "no-spinner", false, "Disable the progress spinner")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Deadline for the whole generation action (0 disables)")

	return cmd
}

// generate runs one action and folds its events into a session state.
func generate(ctx context.Context, container *app.Container, prompt string, progress *Spinner) (session.State, error) {
	state := session.Reduce(session.State{}, session.Submitted{Prompt: prompt})
	if progress != nil {
		progress.Start()
		defer progress.Stop()
	}

	_, err := container.Generator.Execute(ctx, domain.PromptRequest{Prompt: prompt}, func(ev session.Event) {
		state = session.Reduce(state, ev)
		if started, ok := ev.(session.AttemptStarted); ok && progress != nil {
			progress.SetLabel(fmt.Sprintf("attempt %d/%d", started.Attempt, started.MaxAttempts))
		}
	})
	return state, err
}

// isRejected reports errors raised before any attempt was made.
func isRejected(err error) bool {
	var empty *domain.EmptyPromptError
	return errors.As(err, &empty) || errors.Is(err, domain.ErrGenerationInProgress)
}

func exportSessionLog(out, status io.Writer, container *app.Container, dir string) error {
	if dir == stdoutExportDir {
		_, err := container.Exporter.WriteTo(out)
		if err == nil {
			fmt.Fprintln(out)
		}
		return err
	}
	exporter := *container.Exporter
	if dir != "" {
		exporter.Dir = dir
	}
	result, err := exporter.Export()
	if err != nil {
		return fmt.Errorf("export session log: %w", err)
	}
	fmt.Fprintf(status, "Exported %d record(s) to %s (%s)\n", result.Count, result.Path, humanize.Bytes(uint64(result.Bytes)))
	return nil
}
