/*
Package pricing derives dynamic tool prices from reputation and demand.
*/
package pricing

import "math"

const (
	// reputationBoost is the maximum price uplift from a perfect
	// reputation score (+50%).
	reputationBoost = 0.5

	// demandBoost is the maximum price uplift from demand (+50%).
	demandBoost = 0.5

	// demandSaturation is the recent usage count at which the demand
	// multiplier reaches its cap.
	demandSaturation = 1000.0
)

// DynamicPrice computes the current price for a tool.
//
// The reputation and demand multipliers are each clamped independently and
// then compound multiplicatively, so a maximally reputed, maximally demanded
// tool costs 2.25x its base price. The result is rounded to 2 decimal
// places.
func DynamicPrice(basePrice, reputationScore float64, recentUsageCount int) float64 {
	reputationMultiplier := 1.0 + reputationScore*reputationBoost
	demandMultiplier := 1.0 + math.Min(float64(recentUsageCount)/demandSaturation, demandBoost)

	price := basePrice * reputationMultiplier * demandMultiplier
	return math.Round(price*100) / 100
}

// Plan describes a subscription tier for a tool.
type Plan struct {
	// Price is the monthly price in USD.
	Price float64 `json:"price"`

	// Requests is the monthly request allowance; 0 means unlimited.
	Requests int `json:"requests"`
}

// SubscriptionPlans returns the subscription tiers offered for a tool.
// The plan table is currently static across tools.
func SubscriptionPlans(toolID int64) map[string]Plan {
	return map[string]Plan{
		"basic":      {Price: 19.99, Requests: 1000},
		"pro":        {Price: 49.99, Requests: 5000},
		"enterprise": {Price: 99.99, Requests: 0},
	}
}
