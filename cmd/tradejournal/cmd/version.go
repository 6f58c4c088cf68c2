package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the tradejournal CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tradejournal version %s\n", version)
		fmt.Fprintln(cmd.OutOrStdout(), "A trading journal with performance analytics")
		fmt.Fprintln(cmd.OutOrStdout(), "https://github.com/rustyeddy/tradejournal")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.PersistentPreRunE = skipConfig
}
