package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/raix/internal/app"
	"github.com/doeshing/raix/internal/domain"
	"github.com/doeshing/raix/internal/infrastructure/cli/helpers"
	"github.com/doeshing/raix/internal/ports"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect archived generation actions",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistorySearchCommand(container),
		newHistoryClearCommand(container),
		newHistoryExportCommand(container),
		newHistoryStatsCommand(container),
	)

	return historyCmd
}

// newHistoryListCommand creates the 'history list' subcommand
func newHistoryListCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistoryEntries(cmd.OutOrStdout(), container.HistoryStore, limit, time.Now())
		},
	}

	cmd.Flags().IntVar(&limit, "limit", DefaultHistoryLimit, "Max entries to show")
	return cmd
}

// newHistorySearchCommand creates the 'history search' subcommand
func newHistorySearchCommand(container *app.Container) *cobra.Command {
	var query string
	var searchLimit int

	cmd := &cobra.Command{
		Use:   "search [keyword]",
		Short: "Search prompts, code and output for a keyword",
		RunE: func(cmd *cobra.Command, args []string) error {
			if query == "" {
				query = strings.Join(args, " ")
			}
			if strings.TrimSpace(query) == "" {
				return errors.New(ErrQueryRequired)
			}
			return searchHistoryEntries(cmd.OutOrStdout(), container.HistoryStore, query, searchLimit)
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "Search keyword")
	cmd.Flags().IntVar(&searchLimit, "limit", DefaultHistorySearchLimit, "Limit search results")
	return cmd
}

// newHistoryClearCommand creates the 'history clear' subcommand
func newHistoryClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every archived entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			return clearHistory(cmd.OutOrStdout(), container.HistoryStore)
		},
	}
}

// newHistoryExportCommand creates the 'history export' subcommand
func newHistoryExportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export the archive as a JSON array",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportHistory(cmd.OutOrStdout(), container.HistoryStore, args[0])
		},
	}
}

// newHistoryStatsCommand creates the 'history stats' subcommand
func newHistoryStatsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show success rate, retry distribution and top prompts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistoryStats(cmd.OutOrStdout(), container.HistoryStore)
		},
	}
}

// listHistoryEntries lists recent history entries
func listHistoryEntries(out io.Writer, store ports.HistoryRepository, limit int, now time.Time) error {
	if store == nil {
		return errors.New(ErrHistoryDisabled)
	}

	records, err := store.Records(limit, "")
	if err != nil {
		return fmt.Errorf("failed to retrieve history records: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	for _, rec := range records {
		fmt.Fprintf(out, "%-14s | %-9s | %d | %s\n",
			humanize.RelTime(rec.Timestamp.Time, now, "ago", "from now"),
			rec.Outcome,
			rec.Retries,
			preview(rec.Prompt))
	}

	return nil
}

// searchHistoryEntries searches history for a keyword
func searchHistoryEntries(out io.Writer, store ports.HistoryRepository, query string, limit int) error {
	if store == nil {
		return errors.New(ErrHistoryDisabled)
	}

	records, err := store.Records(limit, query)
	if err != nil {
		return fmt.Errorf("failed to search history: %w", err)
	}

	for _, rec := range records {
		fmt.Fprintf(out, "%s | %s\n",
			rec.Timestamp.Format(domain.TimestampFormat),
			preview(rec.Prompt))
	}

	return nil
}

// clearHistory deletes the archive contents
func clearHistory(out io.Writer, store ports.HistoryRepository) error {
	if store == nil {
		return errors.New(ErrHistoryDisabled)
	}

	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	fmt.Fprintf(out, "Cleared %s\n", store.Path())
	return nil
}

// exportHistory exports the archive to a JSON file
func exportHistory(out io.Writer, store ports.HistoryRepository, path string) error {
	if store == nil {
		return errors.New(ErrHistoryDisabled)
	}

	if err := store.ExportJSON(path); err != nil {
		return fmt.Errorf("failed to export history to %s: %w", path, err)
	}

	fmt.Fprintf(out, "History exported to %s\n", path)
	return nil
}

// showHistoryStats displays success rate, retries and top prompts
func showHistoryStats(out io.Writer, store ports.HistoryRepository) error {
	if store == nil {
		return errors.New(ErrHistoryDisabled)
	}

	records, err := store.Records(MaxHistoryAnalysisRecords, "")
	if err != nil {
		return fmt.Errorf("failed to retrieve history for analysis: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	displayHistoryStatistics(out, helpers.AnalyzeHistory(records, TopPromptCount))
	return nil
}

// displayHistoryStatistics displays formatted history statistics
func displayHistoryStatistics(out io.Writer, stats helpers.HistoryStatistics) {
	fmt.Fprintf(out, "Entries analyzed: %s\nSucceeded: %s\nSuccess rate: %.1f%%\nAverage attempts: %.2f\n",
		humanize.Comma(int64(stats.Total)),
		humanize.Comma(int64(stats.Succeeded)),
		stats.SuccessRate(),
		stats.AverageRetries())

	fmt.Fprintln(out, "Attempts per action:")
	attempts := make([]int, 0, len(stats.RetriesByCount))
	for n := range stats.RetriesByCount {
		attempts = append(attempts, n)
	}
	sort.Ints(attempts)
	for _, n := range attempts {
		fmt.Fprintf(out, "  %d: %d\n", n, stats.RetriesByCount[n])
	}

	fmt.Fprintln(out, "Top prompts:")
	for _, stat := range stats.TopPrompts {
		fmt.Fprintf(out, "  %s (%d)\n", preview(stat.Prompt), stat.Count)
	}
}

func preview(prompt string) string {
	flat := strings.Join(strings.Fields(prompt), " ")
	runes := []rune(flat)
	if len(runes) <= promptPreviewWidth {
		return flat
	}
	return string(runes[:promptPreviewWidth-3]) + "..."
}
