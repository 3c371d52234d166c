package reputation

import "math"

// anomalyZScore is the z-score above which the trailing point is flagged.
const anomalyZScore = 3.0

// DetectAnomaly flags an outlier in the most recent observation of a
// usage-frequency series.
//
// The z-score of the last element is computed against the mean and
// population standard deviation of the full series, including the last
// element itself. Series with fewer than 2 points or zero variance are never
// anomalous; the variance guard also protects against division by zero.
func DetectAnomaly(series []float64) bool {
	if len(series) < 2 {
		return false
	}

	mean := sum(series) / float64(len(series))

	var variance float64
	for _, v := range series {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(series))

	if variance == 0 {
		return false
	}

	stddev := math.Sqrt(variance)
	last := series[len(series)-1]
	zScore := math.Abs(last-mean) / stddev

	return zScore > anomalyZScore
}
