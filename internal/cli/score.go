package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewScoreCmd creates the 'score' command for reputation scoring.
func NewScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score [tool-id]",
		Short: "Compute a tool's reputation score",
		Long: `Compute the reputation score for a tool from its transaction volume,
ratings, usage frequency, success rate and latency. The score is in [0,1]
at 3-decimal precision.`,
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

			score, err := eng.Reputation(toolID)
			if err != nil {
				return err
			}

			fmt.Printf("Tool %d reputation: %.3f\n", toolID, score)
			return nil
		},
	}
}

// NewAnomalyCmd creates the 'anomaly' command.
func NewAnomalyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "anomaly [tool-id]",
		Short: "Check a tool's latest usage for anomalous volume",
		Long: `Test whether a tool's most recent daily usage count is an outlier
against its usage history (z-score above 3).`,
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

			anomalous, err := eng.Anomalous(toolID)
			if err != nil {
				return err
			}

			if anomalous {
				fmt.Printf("⚠️  Tool %d: anomalous usage detected\n", toolID)
			} else {
				fmt.Printf("Tool %d: usage within normal range\n", toolID)
			}
			return nil
		},
	}
}
