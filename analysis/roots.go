package analysis

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/njchilds90/plotsense/symbolic"
)

// ============================================================
// Root finding
// ============================================================

// FindRoots locates the zeros of fn in iv. Closed-form solutions come first;
// the sign-change scan always runs as well and catches what the solver
// missed. The merged set is deduplicated and sorted.
func (a *Analyzer) FindRoots(ctx context.Context, fn *Function, iv Interval) RootSet {
	var set RootSet
	var candidates []Root

	res, ok := a.solve(ctx, fn.Expr, fn.Var, "roots")
	if ok {
		set.SymbolicComplete = res.Complete
		exact, unevaluated := a.evaluateSolutions(res, iv)
		candidates = append(candidates, exact...)
		set.Unevaluated = unevaluated
	}

	scanned, rejected := a.ScanRoots(ctx, fn, iv)
	set.Roots = a.keepInside(append(candidates, scanned...), iv)
	set.Rejected = rejected
	return set
}

// evaluateSolutions converts solver output to roots. Solutions that do not
// reduce to a finite float are returned as text.
func (a *Analyzer) evaluateSolutions(res symbolic.SolveResult, iv Interval) ([]Root, []string) {
	var roots []Root
	var unevaluated []string
	for _, s := range res.Solutions {
		n, ok := s.Eval()
		v := 0.0
		if ok {
			v = n.Float64()
		}
		if !ok || math.IsInf(v, 0) || math.IsNaN(v) {
			unevaluated = append(unevaluated, s.String())
			continue
		}
		roots = append(roots, Root{Value: v, Source: SourceExact, Interval: iv, Exact: s.String()})
	}
	for _, v := range res.Approx {
		roots = append(roots, Root{Value: v, Source: SourceExact, Interval: iv})
	}
	return roots, unevaluated
}

// keepInside drops roots outside iv (with slack) and merges near-duplicates.
// Earlier entries win, so exact roots shadow numeric ones.
func (a *Analyzer) keepInside(roots []Root, iv Interval) []Root {
	inside := roots[:0:0]
	for _, r := range roots {
		if iv.Contains(r.Value, a.cfg.BoundarySlack) {
			inside = append(inside, r)
		}
	}
	return DedupFunc(inside, a.cfg.Tolerance, func(r Root) float64 { return r.Value })
}

// ScanRoots is the numeric phase: SignChangeIntervals equal sub-intervals,
// each checked for a vanishing left endpoint or a strict sign change. A sub-
// interval whose endpoints do not evaluate is skipped. Sign changes that do
// not refine to a zero are returned as rejected brackets.
func (a *Analyzer) ScanRoots(ctx context.Context, fn *Function, iv Interval) ([]Root, []Interval) {
	n := a.cfg.SignChangeIntervals
	xs := linspace(iv, n+1)
	tol := a.cfg.ZeroTolerance

	var roots []Root
	var rejected []Interval
	for i := 0; i < n; i++ {
		if i%64 == 0 && ctx.Err() != nil {
			a.log.Debug("root scan cancelled", zap.Error(ctx.Err()))
			break
		}
		lo, hi := xs[i], xs[i+1]
		flo, ok1 := fn.Eval(lo)
		fhi, ok2 := fn.Eval(hi)
		if !ok1 || !ok2 {
			continue
		}
		bracket := Interval{Min: lo, Max: hi}
		if math.Abs(flo) < tol {
			roots = append(roots, Root{Value: lo, Source: SourceNumeric, Interval: bracket})
		}
		if i == n-1 && math.Abs(fhi) < tol {
			roots = append(roots, Root{Value: hi, Source: SourceNumeric, Interval: bracket})
		}
		if flo*fhi >= 0 {
			continue
		}
		x, ok := a.refine(fn, lo, hi, flo, fhi)
		if !ok {
			rejected = append(rejected, bracket)
			continue
		}
		roots = append(roots, Root{Value: x, Source: SourceNumeric, Interval: bracket})
	}
	return roots, rejected
}

// refine narrows a sign-change bracket to a root. Newton from the midpoint
// is tried first and accepted only if it converges inside the bracket;
// otherwise bisection runs. ok is false when the bracket straddles a pole or
// a hole in the domain rather than a zero.
func (a *Analyzer) refine(fn *Function, lo, hi, flo, fhi float64) (float64, bool) {
	if x, ok := a.newton(fn, lo, hi); ok {
		return x, true
	}
	x, ok := a.bisect(fn, lo, hi, flo)
	if !ok {
		return 0, false
	}
	if fx, ok := fn.Eval(x); ok && math.Abs(fx) > math.Max(math.Abs(flo), math.Abs(fhi)) {
		a.log.Debug("sign change across a pole ignored",
			zap.Float64("lo", lo), zap.Float64("hi", hi), zap.Float64("f", fx))
		return 0, false
	}
	return x, true
}

func (a *Analyzer) newton(fn *Function, lo, hi float64) (float64, bool) {
	tol := a.cfg.ZeroTolerance
	x := 0.5 * (lo + hi)
	for i := 0; i < a.cfg.NewtonIterations; i++ {
		fx, ok := fn.Eval(x)
		if !ok {
			return 0, false
		}
		if math.Abs(fx) < tol {
			return x, x >= lo && x <= hi
		}
		d, ok := fn.Slope(x)
		if !ok || d == 0 {
			return 0, false
		}
		next := x - fx/d
		if next < lo || next > hi {
			return 0, false
		}
		if math.Abs(next-x) < tol*(1+math.Abs(x)) {
			fnext, ok := fn.Eval(next)
			return next, ok && math.Abs(fnext) < tol
		}
		x = next
	}
	a.log.Debug("newton did not converge", zap.Float64("lo", lo), zap.Float64("hi", hi))
	return 0, false
}

// bisect halves [lo, hi] until |f| < tol or the bracket is narrower than tol.
// When the iteration budget runs out the midpoint of the tightest bracket is
// returned. A probe that fails to evaluate aborts with ok false.
func (a *Analyzer) bisect(fn *Function, lo, hi, flo float64) (float64, bool) {
	tol := a.cfg.ZeroTolerance
	for i := 0; i < a.cfg.BisectionIterations; i++ {
		m := 0.5 * (lo + hi)
		if hi-lo < tol {
			return m, true
		}
		fm, ok := fn.Eval(m)
		if !ok {
			a.log.Debug("bisection probe undefined", zap.Float64("x", m))
			return 0, false
		}
		if math.Abs(fm) < tol {
			return m, true
		}
		if flo*fm < 0 {
			hi = m
		} else {
			lo, flo = m, fm
		}
	}
	a.log.Debug("bisection budget exhausted", zap.Float64("lo", lo), zap.Float64("hi", hi))
	return 0.5 * (lo + hi), true
}
