package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/declient/packages/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history <database>",
	Short: "Show recently recorded calls",
	Long: `Show the most recent calls recorded with --history, newest first.

Examples:
  declient history calls.db
  declient history calls.db --limit 50`,
	Args: cobra.ExactArgs(1),
	RunE: historyCommand,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum entries to show")
}

func historyCommand(cmd *cobra.Command, args []string) error {
	store, err := history.Open(args[0])
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(historyLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no recorded calls")
		return nil
	}

	for _, e := range entries {
		status := fmt.Sprintf("%d", e.Status)
		if e.Outcome != "response" {
			status = e.Outcome
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %-9s %-6s %s (%dms)\n",
			e.RecordedAt.Format("2006-01-02 15:04:05"), e.Operation, status, e.URL, e.DurationMs)
	}
	return nil
}
