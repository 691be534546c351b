package analysis

import (
	"context"
	"math"

	"github.com/njchilds90/plotsense/symbolic"
)

// Monotonicity counts trend changes: successive differences of adjacent
// finite samples whose signs differ, a flat step included. Pairs touching an
// undefined sample are ignored.
func Monotonicity(s SampleSet) int {
	pts := s.Points
	changes := 0
	prev, havePrev := 0.0, false
	for i := 1; i < len(pts); i++ {
		if !pts[i-1].Defined || !pts[i].Defined {
			havePrev = false
			continue
		}
		sign := signum(pts[i].Y - pts[i-1].Y)
		if havePrev && sign != prev {
			changes++
		}
		prev, havePrev = sign, true
	}
	return changes
}

func signum(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// parityProbes are fractions of the probe radius; irrational-looking values
// keep them off the special points of typical inputs.
var parityProbes = []float64{0.1237, 0.2861, 0.4173, 0.5519, 0.6942, 0.8311, 0.9687}

// Parity compares f(-x) with f(x) and -f(x) symbolically. When neither
// identity simplifies to zero, numeric probes decide between none (some
// probe disagrees with both) and indeterminate (every probe agrees or none
// evaluates).
func (a *Analyzer) Parity(ctx context.Context, fn *Function, iv Interval) Parity {
	if fn.Constant() {
		return ParityEven
	}
	proved, err := symbolicCall(ctx, a.cfg.SymbolicTimeout, func() Parity {
		return symmetry(fn.Expr, fn.Var)
	})
	if err != nil {
		a.miss("parity", err)
	} else if proved != "" {
		return proved
	}

	radius := math.Max(math.Abs(iv.Min), math.Abs(iv.Max))
	even, odd, evaluated := true, true, 0
	for _, frac := range parityProbes {
		px := frac * radius
		pos, ok1 := fn.Eval(px)
		neg, ok2 := fn.Eval(-px)
		if !ok1 || !ok2 {
			continue
		}
		evaluated++
		scale := 1e-9 * (1 + math.Abs(pos) + math.Abs(neg))
		if math.Abs(neg-pos) > scale {
			even = false
		}
		if math.Abs(neg+pos) > scale {
			odd = false
		}
	}
	if evaluated > 0 && !even && !odd {
		return ParityNone
	}
	return ParityIndeterminate
}

// symmetry returns even or odd when f(-x) - f(x) or f(-x) + f(x)
// simplifies to zero, and "" otherwise.
func symmetry(e symbolic.Expr, v string) Parity {
	mirrored := symbolic.Sub(e, v, symbolic.MulOf(symbolic.N(-1), symbolic.S(v)))
	if isZero(symbolic.SubOf(mirrored, e)) {
		return ParityEven
	}
	if isZero(symbolic.AddOf(mirrored, e)) {
		return ParityOdd
	}
	return ""
}

func isZero(e symbolic.Expr) bool {
	n, ok := e.(*symbolic.Num)
	return ok && n.IsZero()
}
