package analysis_test

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/plotsense/analysis"
)

// ============================================================
// Domain
// ============================================================

func TestDiscontinuities(t *testing.T) {
	a := newAnalyzer(t)
	ctx := context.Background()
	tests := []struct {
		in   string
		iv   analysis.Interval
		want []analysis.Discontinuity
	}{
		{"1/(x-2)", wide, []analysis.Discontinuity{
			{Location: 2, Origin: analysis.OriginDenominator, Exact: "2"},
		}},
		{"(x^2-4)/(x-2)", wide, []analysis.Discontinuity{
			{Location: 2, Origin: analysis.OriginDenominator, Exact: "2", Removable: true},
		}},
		{"1/(x^2-1)", analysis.Interval{Min: 0, Max: 5}, []analysis.Discontinuity{
			{Location: 1, Origin: analysis.OriginDenominator, Exact: "1"},
		}},
		{"sin(x)/x", wide, []analysis.Discontinuity{
			{Location: 0, Origin: analysis.OriginDenominator, Exact: "0", Removable: true},
		}},
		{"sin(x)", wide, nil},
		{"x^2 + 1", wide, nil},
	}
	for _, tt := range tests {
		got := a.Discontinuities(ctx, mustNormalize(t, tt.in), tt.iv)
		if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("%s: discontinuities mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

// ============================================================
// Asymptotes
// ============================================================

func TestAsymptotes_Reciprocal(t *testing.T) {
	res := analyze(t, "1/(x-2)", wide)

	var horizontal, vertical []analysis.Asymptote
	for _, as := range res.Asymptotes {
		switch as.Kind {
		case analysis.Horizontal:
			horizontal = append(horizontal, as)
		case analysis.Vertical:
			vertical = append(vertical, as)
		case analysis.Slant:
			t.Errorf("unexpected slant asymptote %+v", as)
		}
	}
	want := []analysis.Asymptote{
		{Kind: analysis.Horizontal, Value: 0, Direction: analysis.DirectionPosInf},
		{Kind: analysis.Horizontal, Value: 0, Direction: analysis.DirectionNegInf},
	}
	if diff := cmp.Diff(want, horizontal); diff != "" {
		t.Errorf("horizontal mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, vertical, 1)
	assert.InDelta(t, 2, vertical[0].Location, 0.02)

	require.NotNil(t, res.Limits.PosInf.Value)
	assert.Equal(t, "finite", res.Limits.PosInf.Kind)
	assert.Equal(t, 0.0, *res.Limits.NegInf.Value)

	origins := map[analysis.DiscontinuityOrigin]int{}
	for _, d := range res.Discontinuities {
		origins[d.Origin]++
	}
	assert.Equal(t, 1, origins[analysis.OriginDenominator])
	assert.Equal(t, 1, origins[analysis.OriginSampling])
}

func TestAsymptotes_Slant(t *testing.T) {
	res := analyze(t, "x + 1/x", wide)

	var slant []analysis.Asymptote
	for _, as := range res.Asymptotes {
		assert.NotEqual(t, analysis.Horizontal, as.Kind)
		if as.Kind == analysis.Slant {
			slant = append(slant, as)
		}
	}
	want := []analysis.Asymptote{{Kind: analysis.Slant, Expression: "x", Slope: 1, Intercept: 0, Coeffs: []float64{0, 1}}}
	if diff := cmp.Diff(want, slant); diff != "" {
		t.Errorf("slant mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "+inf", res.Limits.PosInf.Kind)
	assert.Equal(t, "-inf", res.Limits.NegInf.Kind)
	assert.Nil(t, res.Limits.PosInf.Value)
}

func TestSlantAsymptote(t *testing.T) {
	a := newAnalyzer(t)
	ctx := context.Background()
	for _, in := range []string{"(2x^2+1)/(x^2-3)", "x^2 + 1", "sin(x)/x"} {
		_, ok := a.SlantAsymptote(ctx, mustNormalize(t, in))
		assert.False(t, ok, in)
	}

	as, ok := a.SlantAsymptote(ctx, mustNormalize(t, "(2x^2 + 3x + 1)/(x - 1)"))
	require.True(t, ok)
	assert.Equal(t, "2*x + 5", as.Expression)
	assert.Equal(t, 2.0, as.Slope)
	assert.Equal(t, 5.0, as.Intercept)
	assert.Equal(t, 1, as.Degree())

	as, ok = a.SlantAsymptote(ctx, mustNormalize(t, "x^3/(x-1)"))
	require.True(t, ok)
	assert.Equal(t, "x^2 + x + 1", as.Expression)
	assert.Equal(t, []float64{1, 1, 1}, as.Coeffs)
	assert.Equal(t, 2, as.Degree())
	assert.Equal(t, 7.0, as.At(2))
	assert.Zero(t, as.Slope)
}

func TestAsymptotes_QuadraticQuotient(t *testing.T) {
	res := analyze(t, "(x^3+1)/x", wide)

	var slant []analysis.Asymptote
	for _, as := range res.Asymptotes {
		if as.Kind == analysis.Slant {
			slant = append(slant, as)
		}
	}
	require.Len(t, slant, 1)
	assert.Equal(t, "x^2", slant[0].Expression)
	assert.Equal(t, []float64{0, 0, 1}, slant[0].Coeffs)

	out, err := json.Marshal(slant[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"slant","expression":"x^2","coefficients":[0,0,1]}`, string(out))
}

func TestVerticalFromSamples(t *testing.T) {
	nan := math.NaN()
	set := func(pts ...analysis.Sample) analysis.SampleSet { return analysis.SampleSet{Points: pts} }
	tests := []struct {
		name string
		s    analysis.SampleSet
		want []float64
	}{
		{"undefined transition", set(
			analysis.Sample{X: 0, Y: 1, Defined: true},
			analysis.Sample{X: 1, Y: nan},
			analysis.Sample{X: 2, Y: nan},
			analysis.Sample{X: 3, Y: 1, Defined: true},
		), []float64{0.5, 2.5}},
		{"large jump", set(
			analysis.Sample{X: 0, Y: 1, Defined: true},
			analysis.Sample{X: 1, Y: 5000, Defined: true},
			analysis.Sample{X: 2, Y: 5001, Defined: true},
		), []float64{0.5}},
		{"diverging sign flip", set(
			analysis.Sample{X: 0, Y: -10, Defined: true},
			analysis.Sample{X: 1, Y: -100, Defined: true},
			analysis.Sample{X: 2, Y: 100, Defined: true},
			analysis.Sample{X: 3, Y: 10, Defined: true},
		), []float64{1.5}},
		{"smooth zero crossing", set(
			analysis.Sample{X: 0, Y: -2, Defined: true},
			analysis.Sample{X: 1, Y: -1, Defined: true},
			analysis.Sample{X: 2, Y: 1, Defined: true},
			analysis.Sample{X: 3, Y: 2, Defined: true},
		), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analysis.VerticalFromSamples(tt.s, 1e-5)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestVerticalFromSamples_ContinuousFunctions(t *testing.T) {
	for _, in := range []string{"sin(x)", "x^3 - 3x", "exp(x/3)", "atan(x)"} {
		s, err := analysis.SampleFunction(mustNormalize(t, in), wide, 1600)
		require.NoError(t, err)
		assert.Empty(t, analysis.VerticalFromSamples(s, 1e-5), in)
	}
}

// ============================================================
// Critical points
// ============================================================

func TestCriticalPoints_Cubic(t *testing.T) {
	got := newAnalyzer(t).CriticalPoints(context.Background(), mustNormalize(t, "x^3 - 3x"), five)
	want := analysis.CriticalAnalysis{
		FirstDerivative:  "3*x^2 - 3",
		SecondDerivative: "6*x",
		Extrema: []analysis.CriticalPoint{
			{Location: -1, Classification: analysis.Maximum, Exact: "-1"},
			{Location: 1, Classification: analysis.Minimum, Exact: "1"},
		},
		Inflections: []analysis.CriticalPoint{
			{Location: 0, Classification: analysis.Inflection, Exact: "0"},
		},
		Determined: true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("critical analysis mismatch (-want +got):\n%s", diff)
	}
}

func TestCriticalPoints_FlatPointIsIndeterminate(t *testing.T) {
	got := newAnalyzer(t).CriticalPoints(context.Background(), mustNormalize(t, "x^4"), five)
	require.Len(t, got.Extrema, 1)
	assert.Equal(t, analysis.Indeterminate, got.Extrema[0].Classification)
}

func TestCriticalPoints_FilteredToInterval(t *testing.T) {
	got := newAnalyzer(t).CriticalPoints(context.Background(), mustNormalize(t, "x^3 - 3x"), analysis.Interval{Min: 0, Max: 5})
	require.Len(t, got.Extrema, 1)
	assert.Equal(t, 1.0, got.Extrema[0].Location)
}

func TestCriticalPoints_NoneIsDetermined(t *testing.T) {
	a := newAnalyzer(t)
	for _, in := range []string{"(x^2-4)/(x-2)", "2x + 1"} {
		got := a.CriticalPoints(context.Background(), mustNormalize(t, in), five)
		assert.True(t, got.Determined, in)
		assert.Empty(t, got.Extrema, in)
		assert.Empty(t, got.Inflections, in)
	}
}

func TestCriticalPoints_Undetermined(t *testing.T) {
	got := newAnalyzer(t).CriticalPoints(context.Background(), mustNormalize(t, "sin(x) + x/2"), five)
	assert.False(t, got.Determined)
	assert.Equal(t, "cos(x) + 1/2", got.FirstDerivative)
}

// ============================================================
// Shape
// ============================================================

func TestMonotonicity(t *testing.T) {
	s, err := analysis.SampleFunction(mustNormalize(t, "x^2"), analysis.Interval{Min: -1, Max: 1}, 101)
	require.NoError(t, err)
	assert.Equal(t, 1, analysis.Monotonicity(s))

	s, err = analysis.SampleFunction(mustNormalize(t, "sin(x)"), analysis.Interval{Min: 0, Max: 2 * math.Pi}, 1000)
	require.NoError(t, err)
	assert.Equal(t, 2, analysis.Monotonicity(s))
}

func TestMonotonicity_SkipsUndefined(t *testing.T) {
	s := analysis.SampleSet{Points: []analysis.Sample{
		{X: 0, Y: 3, Defined: true},
		{X: 1, Y: 2, Defined: true},
		{X: 2, Y: math.NaN()},
		{X: 3, Y: 9, Defined: true},
		{X: 4, Y: 8, Defined: true},
		{X: 5, Y: 7, Defined: true},
	}}
	assert.Equal(t, 0, analysis.Monotonicity(s))
}

func TestParity(t *testing.T) {
	a := newAnalyzer(t)
	ctx := context.Background()
	tests := []struct {
		in   string
		want analysis.Parity
	}{
		{"x^2", analysis.ParityEven},
		{"cos(x) + x^4", analysis.ParityEven},
		{"3", analysis.ParityEven},
		{"x^3 - 3x", analysis.ParityOdd},
		{"sin(x)", analysis.ParityOdd},
		{"1/(x-2)", analysis.ParityNone},
		{"x^2 + x", analysis.ParityNone},
		{"sqrt(x)", analysis.ParityIndeterminate},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, a.Parity(ctx, mustNormalize(t, tt.in), wide), tt.in)
	}
}

// ============================================================
// Intersections
// ============================================================

func TestIntersections_Lines(t *testing.T) {
	got, err := newAnalyzer(t).Intersections(context.Background(), mustNormalize(t, "x"), mustNormalize(t, "-x + 4"), wide)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2.0, got[0].X)
	require.NotNil(t, got[0].Y)
	assert.Equal(t, 2.0, *got[0].Y)
	assert.Equal(t, analysis.SourceExact, got[0].Source)
}

func TestIntersections_NumericFallback(t *testing.T) {
	got, err := newAnalyzer(t).Intersections(context.Background(), mustNormalize(t, "sin(x)"), mustNormalize(t, "1/2"), analysis.Interval{Min: 0, Max: 3})
	require.NoError(t, err)
	xs := make([]float64, len(got))
	for i, p := range got {
		xs[i] = p.X
		require.NotNil(t, p.Y)
		assert.InDelta(t, 0.5, *p.Y, 1e-7)
	}
	if diff := cmp.Diff([]float64{math.Pi / 6, 5 * math.Pi / 6}, xs, cmpopts.EquateApprox(0, 1e-7)); diff != "" {
		t.Errorf("intersections mismatch (-want +got):\n%s", diff)
	}
}

func TestIntersections_IdenticalOrParallel(t *testing.T) {
	a := newAnalyzer(t)
	ctx := context.Background()
	got, err := a.Intersections(ctx, mustNormalize(t, "x^2"), mustNormalize(t, "x*x"), wide)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = a.Intersections(ctx, mustNormalize(t, "x"), mustNormalize(t, "x + 1"), wide)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestIntersections_VariableMismatch(t *testing.T) {
	_, err := newAnalyzer(t).Intersections(context.Background(), mustNormalize(t, "x"), mustNormalize(t, "t^2"), wide)
	assert.ErrorIs(t, err, analysis.ErrVariableMismatch)
}
