package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "trex",
	Short: "trex — a tick-synchronized reactor agent runtime",
	Long: `trex assembles a set of reactors declared in an XML configuration file
into a priority-ordered tick loop and runs it, the way the original
agent's Assembly/Agent pair did, minus the process-wide singleton.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json", false, "emit structured JSON logs instead of text")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(topologyCmd)
	rootCmd.AddCommand(statusCmd)
}
