package stat

import (
	"math"

	gsl "github.com/grd/stat"
)

// Summary describes the spread of a sequence of lengths or counts.
type Summary struct {
	Average float64 `json:"average"`

	// Stdev is the sample standard deviation (n-1 denominator).
	Stdev float64 `json:"stdev"`

	Range int `json:"range"`

	// Oscillation is the fraction of adjacent pairs whose values differ.
	Oscillation float64 `json:"oscillation_ratio"`
}

// Measure computes the Summary of xs. Sequences shorter than two elements
// have zero Stdev and Oscillation; an empty sequence yields the zero
// Summary.
func Measure(xs []int) Summary {
	if len(xs) == 0 {
		return Summary{}
	}

	data := make(gsl.IntSlice, len(xs))
	for i, x := range xs {
		data[i] = int64(x)
	}

	hi, _ := gsl.Max(data)
	lo, _ := gsl.Min(data)

	s := Summary{
		Average: gsl.Mean(data),
		Range:   int(hi - lo),
	}

	if len(xs) < 2 {
		return s
	}

	s.Stdev = math.Sqrt(gsl.Variance(data))
	s.Oscillation = Oscillation(xs)
	return s
}

// Oscillation returns the number of positions i where xs[i] != xs[i-1],
// divided by len(xs)-1. It is 0 for sequences shorter than two.
func Oscillation(xs []int) float64 {
	if len(xs) < 2 {
		return 0
	}

	changes := 0
	for i := 1; i < len(xs); i++ {
		if xs[i] != xs[i-1] {
			changes++
		}
	}

	return float64(changes) / float64(len(xs)-1)
}
