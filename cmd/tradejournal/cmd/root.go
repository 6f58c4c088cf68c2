package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/internal/logger"
	"github.com/rustyeddy/tradejournal/internal/metrics"
	"github.com/rustyeddy/tradejournal/internal/service"
	"github.com/rustyeddy/tradejournal/journal"
)

var (
	cfgFile string
	dbPath  string

	cfg *config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tradejournal",
	Short: "A trading journal with performance analytics",
	Long: `Tradejournal records trades, their screenshots and reviews, and
computes performance analytics over the whole journal.

It provides tools for:
  - Serving the journal REST API
  - Printing statistics and exporting Org reports
  - Listing trades by day
  - Exporting trades to CSV or Excel
  - Seeding a journal with sample trades

Configuration is read from an optional YAML or JSON file, then .env,
then TRADEJOURNAL_* environment variables.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "path to SQLite journal DB (overrides config)")
}

// loadConfig runs before every command that touches the journal.
func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("db") {
		c.Storage.DBPath = dbPath
	}
	cfg = c
	log = logger.New(c.Logging.Level, c.Logging.Format, cmd.ErrOrStderr())
	return nil
}

func skipConfig(cmd *cobra.Command, args []string) error { return nil }

// openStore opens the configured journal. Rows that cannot be decoded
// are logged and counted on m, which may be nil.
func openStore(m *metrics.Metrics) (*journal.SQLite, error) {
	j, err := journal.NewSQLite(cfg.Storage.DBPath,
		journal.WithLogger(log),
		journal.WithSkipHook(service.SkipCounter(m)),
	)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}
