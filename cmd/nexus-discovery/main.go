/*
Package main is the entry point for the nexus-discovery CLI.

nexus-discovery is the hybrid tool-discovery engine behind the marketplace:
a semantic vector index with tiered lexical and most-recent fallbacks, plus
reputation, anomaly and dynamic-pricing models over tool history.

Usage:
  nexus-discovery [command]

Available Commands:
  add         Register a tool in the catalog and semantic index
  reindex     Re-embed a tool after its description changed
  search      Find tools by free-text query
  score       Compute a tool's reputation score
  anomaly     Check a tool's latest usage for anomalous volume
  price       Compute a tool's dynamic price
  usage       Log a tool usage event
  rate        Rate a tool
  help        Help about any command
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emcpnexus/nexus-discovery/internal/cli"
)

// Version information (set via ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "nexus-discovery",
		Short: "Hybrid tool-discovery engine for the marketplace",
		Long: `nexus-discovery indexes marketplace tools for semantic search and scores
them for ranking and pricing.

Free-text queries are resolved through three tiers of decreasing precision:
embedding nearest-neighbor search, lexical matching against tool names and
descriptions, and the most recently created tools as a last resort.
Reputation, anomaly and dynamic-pricing models consume each tool's
transaction, rating and usage history.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	}

	rootCmd.AddCommand(cli.NewAddCmd())
	rootCmd.AddCommand(cli.NewReindexCmd())
	rootCmd.AddCommand(cli.NewSearchCmd())
	rootCmd.AddCommand(cli.NewScoreCmd())
	rootCmd.AddCommand(cli.NewAnomalyCmd())
	rootCmd.AddCommand(cli.NewPriceCmd())
	rootCmd.AddCommand(cli.NewUsageCmd())
	rootCmd.AddCommand(cli.NewRateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
