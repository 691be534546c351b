package analysis

import (
	"context"

	"github.com/njchilds90/plotsense/symbolic"
)

// Discontinuities reports the real zeros of fn's denominator inside iv. An
// expression without rational structure has none. A point is marked
// Removable when the two-sided limit there is finite.
func (a *Analyzer) Discontinuities(ctx context.Context, fn *Function, iv Interval) []Discontinuity {
	_, den, ok := a.numerDenom(ctx, fn.Expr)
	if !ok || !symbolic.HasVar(den, fn.Var) {
		return nil
	}
	res, ok := a.solve(ctx, den, fn.Var, "denominator")
	if !ok {
		return nil
	}

	var out []Discontinuity
	for _, s := range res.Solutions {
		n, ok := s.Eval()
		if !ok {
			continue
		}
		d := Discontinuity{Location: n.Float64(), Origin: OriginDenominator, Exact: s.String()}
		if !iv.Contains(d.Location, a.cfg.BoundarySlack) {
			continue
		}
		if lim, ok := a.limit(ctx, fn.Expr, fn.Var, s); ok && lim.Success {
			d.Removable = true
		}
		out = append(out, d)
	}
	// Approximate zeros cannot be substituted exactly, so removability is
	// left unknown for them.
	for _, v := range res.Approx {
		if iv.Contains(v, a.cfg.BoundarySlack) {
			out = append(out, Discontinuity{Location: v, Origin: OriginDenominator})
		}
	}
	return DedupFunc(out, a.cfg.Tolerance, func(d Discontinuity) float64 { return d.Location })
}
