package analysis

import (
	"context"
	"math"

	"github.com/njchilds90/plotsense/symbolic"
)

// ============================================================
// Asymptotes
// ============================================================

const (
	DirectionPosInf = "+inf"
	DirectionNegInf = "-inf"
)

// jumpFloor is the smallest jump between adjacent finite samples that can
// count as divergence, whatever the previous value.
const jumpFloor = 1000.0

// Limits computes the behaviour of fn at +∞ and −∞ independently. Finite
// limits also come back as horizontal asymptotes, one per direction.
func (a *Analyzer) Limits(ctx context.Context, fn *Function) (Limits, []Asymptote) {
	var lims Limits
	var out []Asymptote
	for _, side := range []struct {
		sign int
		dir  string
		dst  *Limit
	}{
		{1, DirectionPosInf, &lims.PosInf},
		{-1, DirectionNegInf, &lims.NegInf},
	} {
		l, ok := a.limitAtInfinity(ctx, fn.Expr, fn.Var, side.sign)
		if !ok {
			*side.dst = Limit{Kind: symbolic.LimitNone.String()}
			continue
		}
		*side.dst = limitFrom(l)
		if l.Kind == symbolic.LimitFinite {
			out = append(out, Asymptote{Kind: Horizontal, Value: l.Value, Direction: side.dir})
		}
	}
	return lims, out
}

func limitFrom(l symbolic.InfLimit) Limit {
	out := Limit{Kind: l.Kind.String()}
	if l.Kind == symbolic.LimitFinite {
		v := l.Value
		out.Value = &v
		if l.Exact != nil {
			out.Exact = l.Exact.String()
		}
	}
	return out
}

// SlantAsymptote returns y = q(x) where q is the polynomial quotient of a
// rational fn, provided q is not constant. Lines also carry Slope and
// Intercept. ok is false in every other case, including constant quotients
// which are horizontal asymptotes.
func (a *Analyzer) SlantAsymptote(ctx context.Context, fn *Function) (Asymptote, bool) {
	num, den, ok := a.numerDenom(ctx, fn.Expr)
	if !ok {
		return Asymptote{}, false
	}
	pn, ok1 := symbolic.ToPoly(num, fn.Var)
	pd, ok2 := symbolic.ToPoly(den, fn.Var)
	if !ok1 || !ok2 || pd.Degree() < 1 || pn.Degree() < pd.Degree() {
		return Asymptote{}, false
	}
	q, _ := pn.DivMod(pd)
	if q.Degree() < 1 {
		return Asymptote{}, false
	}
	out := Asymptote{
		Kind:       Slant,
		Expression: q.Expr(fn.Var).String(),
		Coeffs:     q.Floats()[:q.Degree()+1],
	}
	if q.Degree() == 1 {
		out.Slope, out.Intercept = out.Coeffs[1], out.Coeffs[0]
	}
	return out, true
}

// VerticalFromSamples scans adjacent samples for signs of a pole and returns
// the midpoints of the offending pairs, ascending and deduplicated within
// eps. A pair is flagged when
//
//   - exactly one side is undefined,
//   - the jump exceeds max(1000, 10·|y_prev| + 1), or
//   - the values flip sign while |y| grows toward the gap from both sides
//     and the jump outweighs the neighbouring steps.
//
// The last rule catches simple poles that fall between grid points, where
// the jump is too small for the magnitude rule.
func VerticalFromSamples(s SampleSet, eps float64) []float64 {
	pts := s.Points
	var locs []float64
	for i := 1; i < len(pts); i++ {
		p, q := pts[i-1], pts[i]
		mid := 0.5 * (p.X + q.X)
		switch {
		case p.Defined != q.Defined:
			locs = append(locs, mid)
		case !p.Defined:
		case math.Abs(q.Y-p.Y) > math.Max(jumpFloor, 10*math.Abs(p.Y)+1):
			locs = append(locs, mid)
		case divergingFlip(pts, i):
			locs = append(locs, mid)
		}
	}
	return Dedup(locs, eps)
}

func divergingFlip(pts []Sample, i int) bool {
	if i < 2 || i+1 >= len(pts) {
		return false
	}
	pp, p, q, qn := pts[i-2], pts[i-1], pts[i], pts[i+1]
	if !pp.Defined || !qn.Defined || p.Y*q.Y >= 0 {
		return false
	}
	if math.Abs(p.Y) <= math.Abs(pp.Y) || math.Abs(q.Y) <= math.Abs(qn.Y) {
		return false
	}
	jump := math.Abs(q.Y - p.Y)
	return jump > math.Abs(p.Y-pp.Y) && jump > math.Abs(qn.Y-q.Y)
}

// Asymptotes gathers horizontal, slant and sampled vertical asymptotes, in
// that order. The sampled vertical locations are also returned as
// sampling-gap discontinuities.
func (a *Analyzer) Asymptotes(ctx context.Context, fn *Function, samples SampleSet) (Limits, []Asymptote, []Discontinuity) {
	lims, out := a.Limits(ctx, fn)
	if s, ok := a.SlantAsymptote(ctx, fn); ok {
		out = append(out, s)
	}
	var gaps []Discontinuity
	for _, x := range VerticalFromSamples(samples, a.cfg.Tolerance) {
		out = append(out, Asymptote{Kind: Vertical, Location: x})
		gaps = append(gaps, Discontinuity{Location: x, Origin: OriginSampling})
	}
	return lims, out, gaps
}
