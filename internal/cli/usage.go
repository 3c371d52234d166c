package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emcpnexus/nexus-discovery/internal/catalog"
)

// NewUsageCmd creates the 'usage' command for logging a tool invocation.
func NewUsageCmd() *cobra.Command {
	var (
		userID         int64
		failed         bool
		processingTime float64
	)

	cmd := &cobra.Command{
		Use:   "usage [tool-id]",
		Short: "Log a tool usage event",
		Long: `Record a tool invocation. Usage history feeds the reputation score,
the anomaly detector and the demand component of dynamic pricing.`,
		Example: `  nexus-discovery usage 7 --user 42 --time 0.8
  nexus-discovery usage 7 --user 42 --failed`,
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
			// Close flushes the queued event before exit.
			defer eng.Close()

			eng.TrackUsage(catalog.UsageEvent{
				ToolID:         toolID,
				UserID:         userID,
				Success:        !failed,
				ProcessingTime: processingTime,
			})

			fmt.Printf("Usage logged for tool %d by user %d\n", toolID, userID)
			return nil
		},
	}

	cmd.Flags().Int64VarP(&userID, "user", "u", 0, "User id")
	cmd.Flags().BoolVar(&failed, "failed", false, "Mark the invocation as failed")
	cmd.Flags().Float64VarP(&processingTime, "time", "t", 0, "Processing time in seconds")

	return cmd
}

// NewRateCmd creates the 'rate' command.
func NewRateCmd() *cobra.Command {
	var (
		userID int64
		rating int
	)

	cmd := &cobra.Command{
		Use:   "rate [tool-id]",
		Short: "Rate a tool (0-5), one rating per user per tool",
		Args:  cobra.ExactArgs(1),
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

			err = eng.RateTool(catalog.Rating{ToolID: toolID, UserID: userID, Value: rating})
			if errors.Is(err, catalog.ErrRatingConflict) {
				return fmt.Errorf("user %d already rated tool %d", userID, toolID)
			}
			if err != nil {
				return err
			}

			fmt.Printf("Rated tool %d: %d/5\n", toolID, rating)
			return nil
		},
	}

	cmd.Flags().Int64VarP(&userID, "user", "u", 0, "User id")
	cmd.Flags().IntVarP(&rating, "rating", "r", 0, "Rating value (0-5)")
	cmd.MarkFlagRequired("rating")

	return cmd
}
