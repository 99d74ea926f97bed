package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/gcpolicy/pkg/cli"
	"mercator-hq/gcpolicy/pkg/config"
	"mercator-hq/gcpolicy/pkg/history"
	"mercator-hq/gcpolicy/pkg/schema"
)

var historyFlags struct {
	family    string
	action    string
	status    string
	operation string
	since     string
	limit     int
	offset    int
	olderThan string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Query and prune the modification history",
	Long: `Every modification sent by create-family, apply and reconcile is recorded when
history is enabled in the config (history.enabled: true).`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded modifications, newest first",
	Long: `List recorded modifications, newest first.

Examples:
  gcpolicy history list --family cf5
  gcpolicy history list --status failed --since 7d --output json`,
	Args: cobra.NoArgs,
	RunE: listHistory,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old history entries",
	Long: `Delete entries older than --older-than, or history.retention from the config.

Examples:
  gcpolicy history prune --older-than 90d`,
	Args: cobra.NoArgs,
	RunE: pruneHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyPruneCmd)

	historyListCmd.Flags().StringVar(&historyFlags.family, "family", "", "filter by column family")
	historyListCmd.Flags().StringVar(&historyFlags.action, "action", "", "filter by action (create, update, drop)")
	historyListCmd.Flags().StringVar(&historyFlags.status, "status", "", "filter by status (applied, failed)")
	historyListCmd.Flags().StringVar(&historyFlags.operation, "operation", "", "filter by operation id")
	historyListCmd.Flags().StringVar(&historyFlags.since, "since", "", "only entries newer than this age (e.g. 24h, 7d)")
	historyListCmd.Flags().IntVar(&historyFlags.limit, "limit", 50, "max results")
	historyListCmd.Flags().IntVar(&historyFlags.offset, "offset", 0, "pagination offset")

	historyPruneCmd.Flags().StringVar(&historyFlags.olderThan, "older-than", "", "delete entries older than this age (e.g. 90d)")
}

func requireHistory() (history.Store, error) {
	store, err := openHistory()
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, cli.NewConfigError("history.enabled", "history is disabled in the configuration")
	}
	return store, nil
}

func listHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	query := &history.Query{
		Family:      historyFlags.family,
		Action:      historyFlags.action,
		Status:      historyFlags.status,
		OperationID: historyFlags.operation,
		Limit:       historyFlags.limit,
		Offset:      historyFlags.offset,
	}
	if globalFlags.table != "" {
		table, err := resolveTable("")
		if err != nil {
			return err
		}
		query.Table = table.Name()
	}
	if historyFlags.since != "" {
		age, err := schema.ParseAge(historyFlags.since)
		if err != nil {
			return cli.NewConfigError("since", err.Error())
		}
		query.Since = time.Now().Add(-age)
	}

	store, err := requireHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Query(ctx, query)
	if err != nil {
		return cli.NewCommandError("history", fmt.Errorf("query failed: %w", err))
	}

	if app.format == cli.FormatText {
		return outputHistoryText(cmd.OutOrStdout(), entries)
	}
	if entries == nil {
		entries = []*history.Entry{}
	}
	return writeOutput(cmd, entries)
}

func outputHistoryText(w io.Writer, entries []*history.Entry) error {
	fmt.Fprintf(w, "Total entries: %d\n", len(entries))
	if len(entries) == 0 {
		fmt.Fprintln(w, "No entries found.")
		return nil
	}

	for _, e := range entries {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Time: %s\n", e.Time.Format(time.RFC3339))
		fmt.Fprintf(w, "Operation: %s (%s)\n", e.OperationID, e.Trigger)
		fmt.Fprintf(w, "Table: %s\n", e.Table)
		fmt.Fprintf(w, "Family: %s\n", e.Family)
		fmt.Fprintf(w, "Action: %s\n", e.Action)
		if e.Rule != "" {
			fmt.Fprintf(w, "Rule: %s\n", e.Rule)
		}
		fmt.Fprintf(w, "Status: %s\n", e.Status)
		if e.Error != "" {
			fmt.Fprintf(w, "Error: %s\n", e.Error)
		}
	}
	return nil
}

func pruneHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	retention := config.MustGetConfig().History.Retention
	if historyFlags.olderThan != "" {
		age, err := schema.ParseAge(historyFlags.olderThan)
		if err != nil {
			return cli.NewConfigError("older-than", err.Error())
		}
		retention = age
	}
	if retention <= 0 {
		return cli.NewConfigError("older-than", "no retention: pass --older-than or set history.retention")
	}

	store, err := requireHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	cutoff := time.Now().Add(-retention)
	n, err := store.Prune(ctx, cutoff)
	if err != nil {
		return cli.NewCommandError("history", fmt.Errorf("prune failed: %w", err))
	}

	reporter := cli.NewStatusReporter(cmd.OutOrStdout(), globalFlags.quiet)
	reporter.Done("Deleted %d entries older than %s.", n, cutoff.Format(time.RFC3339))
	return nil
}
