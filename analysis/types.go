package analysis

import (
	"encoding/json"
	"fmt"
	"math"
)

// Interval is a closed real interval with Min < Max.
type Interval struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Validate reports ErrInvalidInterval for reversed, empty or non-finite
// bounds.
func (iv Interval) Validate() error {
	if math.IsNaN(iv.Min) || math.IsNaN(iv.Max) || math.IsInf(iv.Min, 0) || math.IsInf(iv.Max, 0) {
		return fmt.Errorf("%w: bounds must be finite, got [%g, %g]", ErrInvalidInterval, iv.Min, iv.Max)
	}
	if !(iv.Min < iv.Max) {
		return fmt.Errorf("%w: min must be below max, got [%g, %g]", ErrInvalidInterval, iv.Min, iv.Max)
	}
	return nil
}

// Contains reports whether x lies in [Min-slack, Max+slack].
func (iv Interval) Contains(x, slack float64) bool {
	return x >= iv.Min-slack && x <= iv.Max+slack
}

func (iv Interval) String() string { return fmt.Sprintf("[%g, %g]", iv.Min, iv.Max) }

// ============================================================
// Samples
// ============================================================

// Sample is one grid point. Y is NaN when Defined is false.
type Sample struct {
	X       float64
	Y       float64
	Defined bool
}

// MarshalJSON writes undefined values as null since JSON has no NaN.
func (s Sample) MarshalJSON() ([]byte, error) {
	var y *float64
	if s.Defined {
		y = &s.Y
	}
	return json.Marshal(struct {
		X float64  `json:"x"`
		Y *float64 `json:"y"`
	}{s.X, y})
}

// SampleSet is the evenly spaced evaluation grid over an Interval.
type SampleSet struct {
	Interval Interval `json:"interval"`
	Points   []Sample `json:"points"`
}

// Defined counts the points that evaluated to a finite value.
func (s SampleSet) Defined() int {
	n := 0
	for _, p := range s.Points {
		if p.Defined {
			n++
		}
	}
	return n
}

// ============================================================
// Roots and discontinuities
// ============================================================

type RootSource string

const (
	SourceExact   RootSource = "exact"
	SourceNumeric RootSource = "numeric"
)

// Root is a zero of the function. Interval is the bracket a numeric root was
// refined in, or the whole search interval for exact roots. Exact carries the
// closed form when one is known.
type Root struct {
	Value    float64    `json:"value"`
	Source   RootSource `json:"source"`
	Interval Interval   `json:"interval"`
	Exact    string     `json:"exact,omitempty"`
}

// RootSet is the merged output of the symbolic and numeric phases.
// Unevaluated lists closed-form solutions that could not be converted to a
// float; they are reportable but carry no location.
type RootSet struct {
	Roots            []Root   `json:"roots"`
	Unevaluated      []string `json:"unevaluated,omitempty"`
	SymbolicComplete bool     `json:"symbolic_complete"`
	// Rejected holds sign-change brackets that did not refine to a zero,
	// because they straddle a pole or a hole in the domain.
	Rejected []Interval `json:"rejected_brackets,omitempty"`
}

// Values returns the root locations in ascending order.
func (r RootSet) Values() []float64 {
	out := make([]float64, len(r.Roots))
	for i, root := range r.Roots {
		out[i] = root.Value
	}
	return out
}

type DiscontinuityOrigin string

const (
	OriginDenominator DiscontinuityOrigin = "symbolic-denominator"
	OriginSampling    DiscontinuityOrigin = "sampling-gap"
)

// Discontinuity is a point where the function is undefined or jumps.
// Removable is set for denominator roots where the two-sided limit exists.
type Discontinuity struct {
	Location  float64             `json:"location"`
	Origin    DiscontinuityOrigin `json:"origin"`
	Exact     string              `json:"exact,omitempty"`
	Removable bool                `json:"removable"`
}

// ============================================================
// Asymptotes and limits
// ============================================================

type AsymptoteKind string

const (
	Horizontal AsymptoteKind = "horizontal"
	Vertical   AsymptoteKind = "vertical"
	Slant      AsymptoteKind = "slant"
)

// Asymptote is one of
//
//	horizontal: y = Value as x -> Direction
//	vertical:   x = Location (from sampling)
//	slant:      y = q(x), the polynomial quotient held in Expression and
//	            Coeffs (ascending). Slope and Intercept are set for lines.
type Asymptote struct {
	Kind       AsymptoteKind `json:"kind"`
	Value      float64       `json:"value,omitempty"`
	Location   float64       `json:"location,omitempty"`
	Expression string        `json:"expression,omitempty"`
	Slope      float64       `json:"slope,omitempty"`
	Intercept  float64       `json:"intercept,omitempty"`
	Direction  string        `json:"direction,omitempty"`
	Coeffs     []float64     `json:"coefficients,omitempty"`
}

// Degree is the degree of a slant asymptote's quotient, -1 for other kinds.
func (a Asymptote) Degree() int { return len(a.Coeffs) - 1 }

// At evaluates a slant asymptote's quotient at x.
func (a Asymptote) At(x float64) float64 {
	var y float64
	for i := len(a.Coeffs) - 1; i >= 0; i-- {
		y = y*x + a.Coeffs[i]
	}
	return y
}

// MarshalJSON writes only the fields that belong to the kind, keeping zero
// values such as y = 0.
func (a Asymptote) MarshalJSON() ([]byte, error) {
	type field = *float64
	out := struct {
		Kind       AsymptoteKind `json:"kind"`
		Value      field         `json:"value,omitempty"`
		Location   field         `json:"location,omitempty"`
		Expression string        `json:"expression,omitempty"`
		Slope      field         `json:"slope,omitempty"`
		Intercept  field         `json:"intercept,omitempty"`
		Direction  string        `json:"direction,omitempty"`
		Coeffs     []float64     `json:"coefficients,omitempty"`
	}{Kind: a.Kind, Direction: a.Direction}
	switch a.Kind {
	case Horizontal:
		out.Value = &a.Value
	case Vertical:
		out.Location = &a.Location
	case Slant:
		out.Expression, out.Coeffs = a.Expression, a.Coeffs
		if a.Degree() == 1 {
			out.Slope, out.Intercept = &a.Slope, &a.Intercept
		}
	}
	return json.Marshal(out)
}

// Limit is the behaviour of the function as x tends to ±∞. Value is set only
// for finite limits.
type Limit struct {
	Kind  string   `json:"kind"`
	Value *float64 `json:"value,omitempty"`
	Exact string   `json:"exact,omitempty"`
}

type Limits struct {
	PosInf Limit `json:"pos_inf"`
	NegInf Limit `json:"neg_inf"`
}

// ============================================================
// Critical points
// ============================================================

type Classification string

const (
	Minimum       Classification = "minimum"
	Maximum       Classification = "maximum"
	Indeterminate Classification = "indeterminate"
	Inflection    Classification = "inflection"
)

type CriticalPoint struct {
	Location       float64        `json:"location"`
	Classification Classification `json:"classification"`
	Exact          string         `json:"exact,omitempty"`
}

// CriticalAnalysis holds derivative texts and the classified points.
// Determined is false when differentiation or solving failed; empty lists
// then mean "unknown", not "none".
type CriticalAnalysis struct {
	FirstDerivative  string          `json:"first_derivative,omitempty"`
	SecondDerivative string          `json:"second_derivative,omitempty"`
	Extrema          []CriticalPoint `json:"extrema"`
	Inflections      []CriticalPoint `json:"inflections"`
	Determined       bool            `json:"determined"`
}

// ============================================================
// Parity and intersections
// ============================================================

type Parity string

const (
	ParityEven          Parity = "even"
	ParityOdd           Parity = "odd"
	ParityNone          Parity = "none"
	ParityIndeterminate Parity = "indeterminate"
)

// Intersection is a common point of two functions. Y is nil when neither
// function evaluates to a finite value at X.
type Intersection struct {
	X      float64    `json:"x"`
	Y      *float64   `json:"y"`
	Source RootSource `json:"source"`
}

// ============================================================
// Results
// ============================================================

// Result is the full analysis of one function over one interval.
type Result struct {
	Input           string           `json:"input"`
	Simplified      string           `json:"simplified"`
	Var             string           `json:"var"`
	Parity          Parity           `json:"parity"`
	Interval        Interval         `json:"interval"`
	Samples         SampleSet        `json:"samples"`
	Roots           RootSet          `json:"roots"`
	Discontinuities []Discontinuity  `json:"discontinuities"`
	Asymptotes      []Asymptote      `json:"asymptotes"`
	Limits          Limits           `json:"limits"`
	Critical        CriticalAnalysis `json:"critical"`
	Monotonicity    int              `json:"monotonicity_changes"`
	YIntercept      *float64         `json:"y_intercept,omitempty"`
}

// PairResult is the two-function analysis.
type PairResult struct {
	First         *Result        `json:"first"`
	Second        *Result        `json:"second"`
	Intersections []Intersection `json:"intersections"`
}
