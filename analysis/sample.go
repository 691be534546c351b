package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// SampleFunction evaluates fn on n evenly spaced points of iv, endpoints included.
// A point that fails to evaluate is marked undefined; the batch always
// completes.
func SampleFunction(fn *Function, iv Interval, n int) (SampleSet, error) {
	if err := iv.Validate(); err != nil {
		return SampleSet{}, err
	}
	if n < 2 {
		return SampleSet{}, fmt.Errorf("%w: need at least 2 sample points, got %d", ErrInvalidConfig, n)
	}
	xs := linspace(iv, n)
	pts := make([]Sample, n)
	for i, x := range xs {
		y, ok := fn.Eval(x)
		if !ok {
			y = math.NaN()
		}
		pts[i] = Sample{X: x, Y: y, Defined: ok}
	}
	return SampleSet{Interval: iv, Points: pts}, nil
}

// linspace returns n >= 2 points from iv.Min to iv.Max inclusive. The last
// point is exactly iv.Max.
func linspace(iv Interval, n int) []float64 {
	xs := floats.Span(make([]float64, n), iv.Min, iv.Max)
	xs[n-1] = iv.Max
	return xs
}
