package dataset

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary condenses the present values of a series.
type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

// Summarize computes count, extremes, mean and sample standard deviation, ignoring gaps.
func Summarize(s Series) Summary {
	xs := s.Present()
	if len(xs) == 0 {
		return Summary{}
	}
	sum := Summary{
		Count: len(xs),
		Min:   floats.Min(xs),
		Max:   floats.Max(xs),
		Mean:  stat.Mean(xs, nil),
	}
	if len(xs) > 1 {
		sum.StdDev = stat.StdDev(xs, nil)
	}
	return sum
}
