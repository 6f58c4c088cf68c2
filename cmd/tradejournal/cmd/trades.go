package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/journal"
)

var tradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "Query trade journal data",
	Long: `Query and display trade journal records as Org entries.

Subcommands:
  list   - List every trade
  show   - Get details of a specific trade by ID
  today  - List trades entered today
  day    - List trades entered on a specific day

Examples:
  tradejournal trades show <trade-id>
  tradejournal trades today
  tradejournal trades day 2024-01-15`,
}

var tradesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every trade",
	Args:  cobra.NoArgs,
	RunE:  runTradesList,
}

var tradesShowCmd = &cobra.Command{
	Use:   "show <trade-id>",
	Short: "Get details of a specific trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradesShow,
}

var tradesTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List trades entered today",
	Args:  cobra.NoArgs,
	RunE:  runTradesToday,
}

var tradesDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List trades entered on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradesDay,
}

var tradesOldestFirst bool

func init() {
	rootCmd.AddCommand(tradesCmd)
	tradesCmd.AddCommand(tradesListCmd)
	tradesCmd.AddCommand(tradesShowCmd)
	tradesCmd.AddCommand(tradesTodayCmd)
	tradesCmd.AddCommand(tradesDayCmd)

	tradesListCmd.Flags().BoolVar(&tradesOldestFirst, "asc", false, "oldest trades first")
}

func runTradesList(cmd *cobra.Command, args []string) error {
	j, err := openStore(nil)
	if err != nil {
		return err
	}
	defer j.Close()

	order := journal.OrderDesc
	if tradesOldestFirst {
		order = journal.OrderAsc
	}
	recs, err := j.ListTrades(cmd.Context(), order)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradesOrg(recs))
	return nil
}

func runTradesShow(cmd *cobra.Command, args []string) error {
	j, err := openStore(nil)
	if err != nil {
		return err
	}
	defer j.Close()

	rec, err := j.GetTrade(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(rec))
	return nil
}

func runTradesToday(cmd *cobra.Command, args []string) error {
	loc := time.Local
	return printDay(cmd, loc, time.Now().In(loc).Format("2006-01-02"))
}

func runTradesDay(cmd *cobra.Command, args []string) error {
	return printDay(cmd, time.Local, args[0])
}

func printDay(cmd *cobra.Command, loc *time.Location, day string) error {
	start, end, err := dayBounds(loc, day)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	j, err := openStore(nil)
	if err != nil {
		return err
	}
	defer j.Close()

	recs, err := j.ListTradesEnteredBetween(cmd.Context(), start, end)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradesOrg(recs))
	return nil
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start, end, nil
}
