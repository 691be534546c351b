package analysis

import (
	"context"
	"math"

	"github.com/njchilds90/plotsense/symbolic"
)

// CriticalPoints differentiates fn twice, solves f'(x) = 0 and classifies
// each solution by the sign of f'' there. Inflection candidates come from
// f''(x) = 0 separately, without cross-checking. Determined is false when
// either derivative or either solve failed or may be incomplete; the lists
// then hold whatever was found. An f'' that vanishes identically has no
// inflection points.
func (a *Analyzer) CriticalPoints(ctx context.Context, fn *Function, iv Interval) CriticalAnalysis {
	var out CriticalAnalysis
	d1, ok := a.diff(ctx, fn.Expr, fn.Var)
	if !ok {
		return out
	}
	d2, ok := a.diff(ctx, d1, fn.Var)
	if !ok {
		return out
	}
	out.FirstDerivative = d1.String()
	out.SecondDerivative = d2.String()

	curvature := symbolic.Compile(d2, fn.Var)
	res1, ok1 := a.solve(ctx, d1, fn.Var, "critical")
	if ok1 {
		for _, c := range a.locate(res1, iv) {
			c.Classification = a.classify(d2, fn.Var, c, curvature)
			out.Extrema = append(out.Extrema, c.CriticalPoint)
		}
	}
	res2, ok2 := a.solve(ctx, d2, fn.Var, "inflection")
	if ok2 && !res2.Complete && a.vanishes(ctx, d2, fn.Var) {
		// f'' = 0 wherever it is defined: concavity never changes.
		res2 = symbolic.SolveResult{Complete: true}
	}
	if ok2 {
		for _, c := range a.locate(res2, iv) {
			c.Classification = Inflection
			out.Inflections = append(out.Inflections, c.CriticalPoint)
		}
	}
	out.Determined = ok1 && ok2 && res1.Complete && res2.Complete
	return out
}

// vanishes reports whether e is identically zero on its domain, i.e. its
// numerator expands to the zero polynomial.
func (a *Analyzer) vanishes(ctx context.Context, e symbolic.Expr, v string) bool {
	num, _, ok := a.numerDenom(ctx, e)
	if !ok {
		return false
	}
	if !symbolic.HasVar(num, v) {
		n, ok := num.Eval()
		return ok && n.IsZero()
	}
	p, ok := symbolic.ToPoly(num, v)
	return ok && p.IsZero()
}

// candidate keeps the closed form next to the point so it can be
// substituted exactly into f''.
type candidate struct {
	CriticalPoint
	expr symbolic.Expr
}

func (a *Analyzer) locate(res symbolic.SolveResult, iv Interval) []candidate {
	var out []candidate
	for _, s := range res.Solutions {
		n, ok := s.Eval()
		if !ok {
			continue
		}
		out = append(out, candidate{CriticalPoint{Location: n.Float64(), Exact: s.String()}, s})
	}
	for _, v := range res.Approx {
		out = append(out, candidate{CriticalPoint: CriticalPoint{Location: v}})
	}
	inside := out[:0]
	for _, c := range out {
		if iv.Contains(c.Location, a.cfg.BoundarySlack) {
			inside = append(inside, c)
		}
	}
	return DedupFunc(inside, a.cfg.Tolerance, func(c candidate) float64 { return c.Location })
}

// classify reads the sign of f'' at c, exactly when c has a closed form.
// Values within ZeroTolerance of zero, and points where f'' does not
// evaluate, are indeterminate.
func (a *Analyzer) classify(d2 symbolic.Expr, v string, c candidate, curvature func(float64) float64) Classification {
	k := math.NaN()
	if c.expr != nil {
		if n, ok := symbolic.Sub(d2, v, c.expr).Eval(); ok {
			if n.IsZero() {
				return Indeterminate
			}
			k = n.Float64()
		}
	}
	if math.IsNaN(k) {
		k, _ = safeEval(curvature, c.Location)
	}
	switch {
	case math.IsNaN(k) || math.IsInf(k, 0) || math.Abs(k) < a.cfg.ZeroTolerance:
		return Indeterminate
	case k > 0:
		return Minimum
	default:
		return Maximum
	}
}
