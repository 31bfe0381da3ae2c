package domain

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics over a valid-pixel set.
// When Count is zero every statistical field is nil, never NaN or zero.
type Summary struct {
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
	Mean   *float64 `json:"mean"`
	Median *float64 `json:"median"`
	Std    *float64 `json:"std"`
	Count  int      `json:"count"`
}

// Summarize computes descriptive statistics over a valid-pixel set.
// An empty set is a representable state: the result has Count 0 and nil
// fields. Std is the population standard deviation.
func Summarize(pixels []float64) Summary {
	if len(pixels) == 0 {
		return Summary{}
	}

	minV := floats.Min(pixels)
	maxV := floats.Max(pixels)
	mean := stat.Mean(pixels, nil)
	std := stat.PopStdDev(pixels, nil)
	med := median(pixels)

	return Summary{
		Min:    &minV,
		Max:    &maxV,
		Mean:   &mean,
		Median: &med,
		Std:    &std,
		Count:  len(pixels),
	}
}

// SummarizeStrict is the whole-coverage form: an empty pixel set is an error,
// not an empty record.
func SummarizeStrict(pixels []float64) (Summary, error) {
	if len(pixels) == 0 {
		return Summary{}, ErrNoValidData
	}
	return Summarize(pixels), nil
}

// median returns the middle value, or the mean of the two middle values for
// an even count.
func median(pixels []float64) float64 {
	sorted := slices.Clone(pixels)
	slices.Sort(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// round2 and round3 apply the presentation rounding used for percentages and
// the severity index. Decision logic always runs on unrounded values.
func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
