package analysis_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/plotsense/analysis"
)

func TestSample_EndpointsAndUndefined(t *testing.T) {
	s, err := analysis.SampleFunction(mustNormalize(t, "1/(x-2)"), analysis.Interval{Min: 0, Max: 4}, 5)
	require.NoError(t, err)
	require.Len(t, s.Points, 5)

	assert.Equal(t, 0.0, s.Points[0].X)
	assert.Equal(t, 4.0, s.Points[4].X)
	assert.False(t, s.Points[2].Defined, "x = 2 is a pole")
	assert.True(t, math.IsNaN(s.Points[2].Y))
	assert.InDelta(t, -0.5, s.Points[0].Y, 1e-15)
	assert.Equal(t, 4, s.Defined())
}

func TestSample_NeverPanics(t *testing.T) {
	inputs := []string{
		"ln(x)", "sqrt(x)", "asin(x)", "tan(x)", "1/x", "x^x",
		"exp(x^2)", "1/(sin(x) - sin(x))", "cosh(x)", "floor(x)/x",
	}
	for _, in := range inputs {
		fn, err := analysis.Normalize(in)
		if err != nil {
			continue
		}
		for _, n := range []int{2, 3, 101, 1600} {
			s, err := analysis.SampleFunction(fn, analysis.Interval{Min: -30, Max: 30}, n)
			require.NoError(t, err, in)
			require.Len(t, s.Points, n, in)
			for _, p := range s.Points {
				if p.Defined {
					assert.False(t, math.IsNaN(p.Y) || math.IsInf(p.Y, 0), "%s at %v", in, p.X)
				} else {
					assert.True(t, math.IsNaN(p.Y), "%s at %v", in, p.X)
				}
			}
		}
	}
}

func TestSample_InvalidArguments(t *testing.T) {
	fn := mustNormalize(t, "x")
	_, err := analysis.SampleFunction(fn, analysis.Interval{Min: 1, Max: -1}, 10)
	assert.ErrorIs(t, err, analysis.ErrInvalidInterval)

	_, err = analysis.SampleFunction(fn, analysis.Interval{Min: math.Inf(-1), Max: 1}, 10)
	assert.ErrorIs(t, err, analysis.ErrInvalidInterval)

	_, err = analysis.SampleFunction(fn, wide, 1)
	assert.ErrorIs(t, err, analysis.ErrInvalidConfig)
}

func TestSample_JSONUndefinedIsNull(t *testing.T) {
	b, err := json.Marshal([]analysis.Sample{
		{X: 1, Y: 2, Defined: true},
		{X: 2, Y: math.NaN()},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"x":1,"y":2},{"x":2,"y":null}]`, string(b))
}

func TestAsymptote_JSONKeepsZero(t *testing.T) {
	out, err := json.Marshal([]analysis.Asymptote{
		{Kind: analysis.Horizontal, Value: 0, Direction: "+inf"},
		{Kind: analysis.Vertical, Location: 0},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"kind":"horizontal","value":0,"direction":"+inf"},{"kind":"vertical","location":0}]`, string(out))
}
