package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emcpnexus/nexus-discovery/internal/catalog"
)

// NewAddCmd creates the 'add' command for registering a tool.
func NewAddCmd() *cobra.Command {
	var (
		description string
		cost        float64
		url         string
		ownerID     int64
	)

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Register a tool in the marketplace catalog and semantic index",
		Long: `Add a tool to the catalog and index its embedding for semantic search.

The tool's name and description are embedded together and appended to the
vector index. If the embedding endpoint is unavailable the tool is still
created and remains reachable through lexical search; run 'reindex' later
to add it to the semantic index.`,
		Example: `  nexus-discovery add "AI Summarizer" \
    --description "Summarize documents and web pages" \
    --cost 0.05 --url https://tools.example.com/summarizer --owner 42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine()
			if err != nil {
				return err
			}
			defer eng.Close()

			tool := &catalog.Tool{
				Name:        args[0],
				Description: description,
				Cost:        cost,
				URL:         url,
				OwnerID:     ownerID,
			}

			id, err := eng.AddTool(cmd.Context(), tool)
			if err != nil {
				if id != 0 {
					fmt.Printf("⚠️  Tool %d created but not semantically indexed: %v\n", id, err)
					return nil
				}
				return err
			}

			fmt.Printf("✅ Tool %d added to catalog and semantic index\n", id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Tool description")
	cmd.Flags().Float64VarP(&cost, "cost", "c", 0, "Base price per call")
	cmd.Flags().StringVarP(&url, "url", "u", "", "Tool endpoint URL")
	cmd.Flags().Int64VarP(&ownerID, "owner", "o", 0, "Owner user id")
	cmd.MarkFlagRequired("description")

	return cmd
}

// NewReindexCmd creates the 'reindex' command for re-embedding a tool.
func NewReindexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex [tool-id]",
		Short: "Re-embed a tool after its description changed",
		Long: `Re-embed a tool and append a fresh entry to the semantic index.

The index is append-only: the old entry stays, and search keeps the
best-ranked occurrence per tool.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			toolID, err := parseToolID(args[0])
			if err != nil {
				return err
			}

			eng, err := newEngine()
			if err != nil {
				return err
			}
			defer eng.Close()

			if err := eng.Reindex(cmd.Context(), toolID); err != nil {
				return err
			}

			fmt.Printf("✅ Tool %d re-indexed\n", toolID)
			return nil
		},
	}
}
