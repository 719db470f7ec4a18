package analyze

import "math"

// meanStdDev returns the arithmetic mean and population standard deviation
// (divide by N, not N-1) of the given values.
func meanStdDev(values []float64) (mean, stdDev float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(len(values))

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

// zScore returns how many standard deviations value lies from the mean of
// the baseline counts. A flat baseline (zero deviation) yields 0 so that
// history without variance never anomalizes.
func zScore(baseline []float64, value float64) float64 {
	mean, stdDev := meanStdDev(baseline)
	if stdDev == 0 {
		return 0
	}
	return (value - mean) / stdDev
}
