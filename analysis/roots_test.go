package analysis_test

import (
	"context"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/plotsense/analysis"
)

func TestFindRoots_MonicQuadratics(t *testing.T) {
	ctx := context.Background()
	a := newAnalyzer(t)
	for _, c := range []struct {
		in string
		c  float64
	}{
		{"x^2 - 2", 2}, {"x^2 - 3", 3}, {"x^2 - 5", 5}, {"x^2 - 9", 9}, {"x^2 - 1/2", 0.5}, {"x^2 - 70", 70},
	} {
		fn := mustNormalize(t, c.in)
		want := []float64{-math.Sqrt(c.c), math.Sqrt(c.c)}

		set := a.FindRoots(ctx, fn, wide)
		assert.True(t, set.SymbolicComplete, c.in)
		require.Len(t, set.Roots, 2, c.in)
		for i, r := range set.Roots {
			assert.Equal(t, analysis.SourceExact, r.Source, c.in)
			assert.InDelta(t, want[i], r.Value, 1e-12, c.in)
		}

		var numeric []float64
		scanned, rejected := a.ScanRoots(ctx, fn, wide)
		assert.Empty(t, rejected, c.in)
		for _, r := range scanned {
			numeric = append(numeric, r.Value)
		}
		numeric = analysis.Dedup(numeric, 1e-5)
		if diff := cmp.Diff(want, numeric, cmpopts.EquateApprox(0, 1e-5)); diff != "" {
			t.Errorf("%s numeric roots mismatch (-want +got):\n%s", c.in, diff)
		}
	}
}

func TestFindRoots_OutsideIntervalDropped(t *testing.T) {
	set := newAnalyzer(t).FindRoots(context.Background(), mustNormalize(t, "x^2 - 4"), analysis.Interval{Min: 0, Max: 10})
	require.Len(t, set.Roots, 1)
	assert.Equal(t, 2.0, set.Roots[0].Value)
	assert.Equal(t, "2", set.Roots[0].Exact)
}

func TestFindRoots_Transcendental(t *testing.T) {
	set := newAnalyzer(t).FindRoots(context.Background(), mustNormalize(t, "cos(x) - x"), five)
	assert.False(t, set.SymbolicComplete)
	require.Len(t, set.Roots, 1)
	assert.Equal(t, analysis.SourceNumeric, set.Roots[0].Source)
	assert.InDelta(t, 0.7390851332151607, set.Roots[0].Value, 1e-8)
	assert.LessOrEqual(t, set.Roots[0].Interval.Min, set.Roots[0].Value)
	assert.GreaterOrEqual(t, set.Roots[0].Interval.Max, set.Roots[0].Value)
}

func TestFindRoots_Periodic(t *testing.T) {
	set := newAnalyzer(t).FindRoots(context.Background(), mustNormalize(t, "sin(x)"), wide)
	want := []float64{-3 * math.Pi, -2 * math.Pi, -math.Pi, 0, math.Pi, 2 * math.Pi, 3 * math.Pi}
	if diff := cmp.Diff(want, set.Values(), cmpopts.EquateApprox(0, 1e-7)); diff != "" {
		t.Errorf("sin roots mismatch (-want +got):\n%s", diff)
	}
}

func TestFindRoots_PolesAreNotRoots(t *testing.T) {
	a := newAnalyzer(t)
	set := a.FindRoots(context.Background(), mustNormalize(t, "1/(x-2)"), wide)
	assert.Empty(t, set.Roots)
	assert.True(t, set.SymbolicComplete)

	set = a.FindRoots(context.Background(), mustNormalize(t, "tan(x)"), analysis.Interval{Min: -2, Max: 2})
	if diff := cmp.Diff([]float64{0}, set.Values(), cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("tan roots mismatch (-want +got):\n%s", diff)
	}
}

func TestFindRoots_ApproximateCubic(t *testing.T) {
	set := newAnalyzer(t).FindRoots(context.Background(), mustNormalize(t, "x^3 - 2"), wide)
	require.Len(t, set.Roots, 1)
	assert.Equal(t, analysis.SourceExact, set.Roots[0].Source)
	assert.Empty(t, set.Roots[0].Exact)
	assert.InDelta(t, math.Cbrt(2), set.Roots[0].Value, 1e-12)
}

func TestScanRoots_EndpointZero(t *testing.T) {
	roots, _ := newAnalyzer(t).ScanRoots(context.Background(), mustNormalize(t, "x - 10"), wide)
	require.NotEmpty(t, roots)
	assert.InDelta(t, 10, roots[len(roots)-1].Value, 1e-12)
}

func TestFindRoots_PoleBracketIsReported(t *testing.T) {
	set := newAnalyzer(t).FindRoots(context.Background(), mustNormalize(t, "1/(x-2)"), analysis.Interval{Min: 0, Max: 3})
	assert.Empty(t, set.Roots)
	require.Len(t, set.Rejected, 1)
	assert.True(t, set.Rejected[0].Contains(2, 0), "bracket %v", set.Rejected[0])
}
