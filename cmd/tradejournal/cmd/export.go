package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/journal"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export trades to CSV or Excel",
	Long: `Write every trade, oldest first, as CSV or as an Excel workbook.
The format defaults to the output file's extension.

Examples:
  tradejournal export -o trades.csv
  tradejournal export -o trades.xlsx
  tradejournal export --format csv > trades.csv`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var (
	exportFormat string
	exportOutput string
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "csv or xlsx")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
}

func exportWriter(format string) (func(io.Writer, []journal.TradeRecord) error, error) {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(exportOutput)), ".")
	}
	switch format {
	case "", "csv":
		return journal.WriteCSV, nil
	case "xlsx":
		return journal.WriteXLSX, nil
	}
	return nil, fmt.Errorf("unknown export format %q", format)
}

func runExport(cmd *cobra.Command, args []string) error {
	write, err := exportWriter(strings.ToLower(exportFormat))
	if err != nil {
		return err
	}

	j, err := openStore(nil)
	if err != nil {
		return err
	}
	defer j.Close()

	trades, err := j.ListTrades(cmd.Context(), journal.OrderAsc)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	if exportOutput == "" {
		return write(cmd.OutOrStdout(), trades)
	}

	f, err := os.Create(exportOutput)
	if err != nil {
		return err
	}
	if err := write(f, trades); err != nil {
		f.Close()
		return fmt.Errorf("export: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "✓ Exported %d trades: %s\n", len(trades), exportOutput)
	return nil
}
