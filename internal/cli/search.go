package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewSearchCmd creates the 'search' command.
func NewSearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Find tools by free-text query",
		Long: `Search the marketplace for tools matching a free-text query.

Search escalates through three tiers: semantic embedding search, lexical
matching against names and descriptions, and (unless disabled in config)
the most recently created tools as a last resort.`,
		Example: `  nexus-discovery search "summarize pdf documents"
  nexus-discovery search "image classification" -k 10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine()
			if err != nil {
				return err
			}
			defer eng.Close()

			results, tier, err := eng.Search(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}

			if len(results) == 0 {
				fmt.Println("No tools found.")
				return nil
			}

			fmt.Printf("Found %d tool(s) via %s tier:\n\n", len(results), tier)
			for i, r := range results {
				fmt.Printf("%d. %s (id %d, $%.2f)\n", i+1, r.Name, r.ID, r.Cost)
				if r.Description != "" {
					fmt.Printf("   %s\n", r.Description)
				}
				if r.HasScore {
					fmt.Printf("   score: %.4f\n", r.Score)
				}
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "k", 0, "Maximum number of results (0 = config default)")

	return cmd
}

// parseToolID parses a positional tool id argument.
func parseToolID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid tool id %q", arg)
	}
	return id, nil
}
