package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// NewPriceCmd creates the 'price' command for dynamic pricing.
func NewPriceCmd() *cobra.Command {
	var showPlans bool

	cmd := &cobra.Command{
		Use:   "price [tool-id]",
		Short: "Compute a tool's dynamic price",
		Long: `Compute the current dynamic price for a tool. The base price is scaled
by reputation (up to +50%) and recent demand (up to +50%), compounding
multiplicatively.`,
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

			price, err := eng.DynamicPrice(toolID)
			if err != nil {
				return err
			}

			fmt.Printf("Tool %d dynamic price: $%.2f\n", toolID, price)

			if showPlans {
				plans := eng.SubscriptionPlans(toolID)
				names := make([]string, 0, len(plans))
				for name := range plans {
					names = append(names, name)
				}
				sort.Strings(names)

				fmt.Println("\nSubscription plans:")
				for _, name := range names {
					plan := plans[name]
					if plan.Requests == 0 {
						fmt.Printf("  %-10s $%.2f/mo, unlimited requests\n", name, plan.Price)
					} else {
						fmt.Printf("  %-10s $%.2f/mo, %d requests\n", name, plan.Price, plan.Requests)
					}
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&showPlans, "plans", "p", false, "Also list subscription plans")

	return cmd
}
