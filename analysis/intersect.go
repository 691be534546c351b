package analysis

import (
	"context"

	"go.uber.org/zap"
)

// Intersections solves f1 = f2 on iv. The difference is solved symbolically
// first; when that yields nothing inside iv, or the set may be incomplete,
// the sign-change scan runs on f1 - f2 as well. y comes from f1, else f2,
// else stays unresolved.
func (a *Analyzer) Intersections(ctx context.Context, f1, f2 *Function, iv Interval) ([]Intersection, error) {
	d, err := f1.Minus(f2)
	if err != nil {
		return nil, err
	}
	if d.Constant() {
		// Parallel curves never meet and identical ones meet everywhere;
		// neither has isolated points to report.
		a.log.Debug("difference of the functions is constant", zap.Stringer("diff", d))
		return []Intersection{}, nil
	}

	var candidates []Root
	complete := false
	if res, ok := a.solve(ctx, d.Expr, d.Var, "intersections"); ok {
		exact, _ := a.evaluateSolutions(res, iv)
		candidates = a.keepInside(exact, iv)
		complete = res.Complete
	}
	if len(candidates) == 0 || !complete {
		scanned, rejected := a.ScanRoots(ctx, d, iv)
		candidates = append(candidates, scanned...)
		if len(rejected) > 0 {
			a.log.Debug("sign changes of the difference without a crossing", zap.Int("brackets", len(rejected)))
		}
	}

	roots := a.keepInside(candidates, iv)
	out := make([]Intersection, 0, len(roots))
	for _, r := range roots {
		pt := Intersection{X: r.Value, Source: r.Source}
		if y, ok := f1.Eval(r.Value); ok {
			pt.Y = &y
		} else if y, ok := f2.Eval(r.Value); ok {
			pt.Y = &y
		}
		out = append(out, pt)
	}
	return out, nil
}
