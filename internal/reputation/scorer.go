/*
Package reputation implements the numeric scoring models over tool history.

A tool's reputation is a weighted blend of rating, transaction volume, usage
frequency, success rate and latency, each normalized to [0,1]. Anomaly
detection is a trailing-point z-score test over a usage-frequency series.
*/
package reputation

import "math"

const (
	// ratingWeight is the weight of the normalized average rating (40%).
	ratingWeight = 0.4

	// volumeWeight is the weight of the transaction volume score (20%).
	volumeWeight = 0.2

	// usageWeight is the weight of the usage frequency score (10%).
	usageWeight = 0.1

	// successWeight is the weight of the success rate (20%).
	successWeight = 0.2

	// speedWeight is the weight of the processing speed score (10%).
	speedWeight = 0.1

	// maxRating is the maximum rating value, used for normalization.
	maxRating = 5.0

	// volumeSaturation is the transaction volume treated as maximal.
	volumeSaturation = 1000.0

	// usageSaturation is the usage count treated as maximal.
	usageSaturation = 10000.0

	// speedSaturation is the processing time (seconds) treated as slowest.
	speedSaturation = 10.0
)

// Score computes a tool's reputation in [0,1], rounded to 3 decimal places.
//
// A tool with neither ratings nor transactions has no reputation signal and
// scores 0.0 regardless of the other inputs.
func Score(transactions []float64, ratings []int, usageCount int, successRate, avgProcessingTime float64) float64 {
	if len(ratings) == 0 && len(transactions) == 0 {
		return 0.0
	}

	ratingScore := 0.0
	if len(ratings) > 0 {
		ratingScore = meanInt(ratings) / maxRating
	}

	volumeScore := 0.0
	if len(transactions) > 0 {
		volumeScore = math.Min(sum(transactions)/volumeSaturation, 1.0)
	}

	usageScore := math.Min(float64(usageCount)/usageSaturation, 1.0)

	// Lower processing time is better.
	speedScore := 1.0 - math.Min(avgProcessingTime/speedSaturation, 1.0)

	score := ratingScore*ratingWeight +
		volumeScore*volumeWeight +
		usageScore*usageWeight +
		successRate*successWeight +
		speedScore*speedWeight

	return math.Round(score*1000) / 1000
}

// sum totals a float series.
func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

// meanInt averages an integer series.
func meanInt(values []int) float64 {
	var total float64
	for _, v := range values {
		total += float64(v)
	}
	return total / float64(len(values))
}
