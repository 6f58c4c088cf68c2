package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/internal/report"
	"github.com/rustyeddy/tradejournal/journal"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print journal performance statistics",
	Long: `Compute statistics and advanced analytics over every trade in the
journal and print a summary.

Examples:
  tradejournal stats
  tradejournal stats --org review.org`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

var (
	statsOrgFile string
	statsTitle   string
)

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&statsOrgFile, "org", "", "also write an Org report to this file")
	statsCmd.Flags().StringVar(&statsTitle, "title", "Trading Journal", "report title")
}

func runStats(cmd *cobra.Command, args []string) error {
	j, err := openStore(nil)
	if err != nil {
		return err
	}
	defer j.Close()

	trades, err := j.ListTrades(cmd.Context(), journal.OrderAsc)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	r := report.Build(statsTitle, trades, time.Now())
	report.Print(cmd.OutOrStdout(), r)

	if statsOrgFile != "" {
		if err := report.WriteOrgFile(statsOrgFile, r); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote Org report: %s\n", statsOrgFile)
	}
	return nil
}
