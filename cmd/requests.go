package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/trivia/internal/store"
)

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "Inspect the question source request log",
}

var requestsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent source requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		src, _ := cmd.Flags().GetString("source")
		since, _ := cmd.Flags().GetDuration("since")

		st, err := openStoreFromFlags(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		opts := store.QueryOpts{Limit: limit, Source: src}
		if since > 0 {
			opts.From = time.Now().Add(-since)
		}
		events, err := st.RequestRepo().ListRequests(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query requests: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No requests found.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-19s  %-24s  %-10s  %-6s  %-7s  %s\n",
			"ID", "Timestamp", "Source", "Endpoint", "Items", "Ms", "OK")
		fmt.Fprintln(out, strings.Repeat("─", 90))
		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗ " + e.ErrorKind
			}
			name := e.Source
			if len(name) > 24 {
				name = name[:24]
			}
			fmt.Fprintf(out, "%-5d  %-19s  %-24s  %-10s  %-6d  %-7d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				name,
				e.Endpoint,
				e.Items,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var requestsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize requests per source and endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStoreFromFlags(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := st.RequestRepo().Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("request stats: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(stats) == 0 {
			fmt.Fprintln(out, "No requests found.")
			return nil
		}

		fmt.Fprintf(out, "%-24s  %-10s  %-6s  %-8s  %-8s  %s\n",
			"Source", "Endpoint", "Total", "Failed", "Success", "Avg ms")
		fmt.Fprintln(out, strings.Repeat("─", 76))
		for _, s := range stats {
			fmt.Fprintf(out, "%-24s  %-10s  %-6d  %-8d  %-8s  %.0f\n",
				s.Source, s.Endpoint, s.Total, s.Failures,
				fmt.Sprintf("%.0f%%", s.SuccessRate()*100), s.AvgLatencyMs)
		}
		return nil
	},
}

var requestsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the most recent requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		keep, _ := cmd.Flags().GetInt("keep")
		if keep < 0 {
			return fmt.Errorf("--keep must not be negative")
		}

		st, err := openStoreFromFlags(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := st.RequestRepo().Prune(cmd.Context(), keep)
		if err != nil {
			return fmt.Errorf("prune requests: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d request(s).\n", n)
		return nil
	},
}

// openStoreFromFlags opens the request log without building a source or
// logger.
func openStoreFromFlags(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return openStore(cfg)
}

func init() {
	requestsListCmd.Flags().Int("limit", 20, "Max number of requests to show")
	requestsListCmd.Flags().String("source", "", "Only show requests from this source, e.g. opentdb")
	requestsListCmd.Flags().Duration("since", 0, "Only show requests newer than this, e.g. 24h")
	requestsPruneCmd.Flags().Int("keep", 1000, "Number of recent requests to keep")

	requestsCmd.AddCommand(requestsListCmd)
	requestsCmd.AddCommand(requestsStatsCmd)
	requestsCmd.AddCommand(requestsPruneCmd)
}
