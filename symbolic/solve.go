package symbolic

import (
	"math"
	"math/big"
	"sort"
)

// ============================================================
// Real equation solving
// ============================================================

// SolveResult is the real solution set of expr = 0.
//
// Solutions holds closed forms (rationals, surds, inverse-function images).
// Approx holds real roots the polynomial solver could only locate
// numerically (cubics, Durand-Kerner). Complete is false whenever the set
// may be missing solutions: periodic equations, transcendental equations the
// solver cannot isolate, or identities such as 0 = 0.
type SolveResult struct {
	Solutions []Expr
	Approx    []float64
	Complete  bool
}

// Empty reports whether the solver produced nothing usable.
func (r SolveResult) Empty() bool { return len(r.Solutions) == 0 && len(r.Approx) == 0 }

const maxSolveDepth = 8

// SolveReal solves expr = 0 for varName over the reals. Solutions at which
// expr itself is undefined (zero denominators, logarithms or roots of
// negative numbers) are removed.
func SolveReal(expr Expr, varName string) SolveResult {
	expr = expr.Simplify()
	// The numerator is left factored so products can be solved factor-wise.
	num, _ := numerDenom(expr)
	res := solveZero(num, varName, 0)
	return filterDomain(res, expr, varName)
}

func solveZero(e Expr, varName string, depth int) SolveResult {
	e = e.Simplify()
	if !HasVar(e, varName) {
		if v, ok := e.Eval(); ok && !v.IsZero() {
			return SolveResult{Complete: true}
		}
		return SolveResult{}
	}
	if depth > maxSolveDepth {
		return SolveResult{}
	}
	if p, ok := ToPoly(e, varName); ok {
		return solvePoly(p)
	}
	switch v := e.(type) {
	case *Mul:
		out := SolveResult{Complete: true}
		for _, f := range v.factors {
			if !HasVar(f, varName) {
				continue
			}
			out = mergeSolve(out, solveZero(f, varName, depth+1))
		}
		return out
	case *Pow:
		if !HasVar(v.exp, varName) {
			if en, ok := v.exp.(*Num); ok && en.IsPositive() {
				return solveZero(v.base, varName, depth+1)
			}
			return SolveResult{}
		}
		// b^u never vanishes for a positive constant base.
		if bn, ok := v.base.Eval(); ok && bn.IsPositive() && !HasVar(v.base, varName) {
			return SolveResult{Complete: true}
		}
		return SolveResult{}
	}
	return isolate(e, varName, depth)
}

// isolate handles k*g(u) + c = 0 where g is an invertible function or a
// power with a symbolic or fractional exponent and c is free of varName.
func isolate(e Expr, varName string, depth int) SolveResult {
	var dependent []Expr
	var constant []Expr
	for _, t := range termsOf(e) {
		if HasVar(t, varName) {
			dependent = append(dependent, t)
		} else {
			constant = append(constant, t)
		}
	}
	if len(dependent) != 1 {
		return SolveResult{}
	}
	k, g := extractCoefficient(dependent[0])
	if k.IsZero() {
		return SolveResult{}
	}
	// g(u) = -c/k
	target := MulOf(N(-1), AddOf(constant...), numRecip(k))
	t, ok := target.Eval()
	if !ok {
		return SolveResult{}
	}
	tf := t.Float64()

	solveFor := func(u, value Expr) SolveResult {
		// Linear inner arguments are inverted directly to keep the closed form.
		if p, ok := ToPoly(u, varName); ok && p.Degree() == 1 {
			x := DivOf(SubOf(value, NRat(p.Coeff(0))), NRat(p.Coeff(1)))
			return SolveResult{Solutions: []Expr{x}, Complete: true}
		}
		return solveZero(SubOf(u, value), varName, depth+1)
	}
	switch v := g.(type) {
	case *Pow:
		if !HasVar(v.exp, varName) {
			en, ok := v.exp.(*Num)
			if !ok {
				return SolveResult{}
			}
			// u^(p/q) = t: the principal root is non-negative.
			if tf < 0 || (tf == 0 && en.IsNegative()) {
				return SolveResult{Complete: true}
			}
			return solveFor(v.base, PowOf(target, numRecip(en)))
		}
		// b^u = t  =>  u = ln(t)/ln(b)
		bn, ok := v.base.Eval()
		if !ok || HasVar(v.base, varName) || !bn.IsPositive() || bn.IsOne() {
			return SolveResult{}
		}
		if tf <= 0 {
			return SolveResult{Complete: true}
		}
		return solveFor(v.exp, DivOf(LnOf(target), LnOf(v.base)))
	case *Func:
		u := v.arg
		switch v.name {
		case "exp":
			if tf <= 0 {
				return SolveResult{Complete: true}
			}
			return solveFor(u, LnOf(target))
		case "ln":
			return solveFor(u, ExpOf(target))
		case "sinh":
			// asinh(t) = ln(t + sqrt(t^2 + 1))
			return solveFor(u, LnOf(AddOf(target, SqrtOf(AddOf(PowOf(target, N(2)), N(1))))))
		case "cosh":
			if tf < 1 {
				return SolveResult{Complete: true}
			}
			r := LnOf(AddOf(target, SqrtOf(SubOf(PowOf(target, N(2)), N(1)))))
			return mergeSolve(solveFor(u, r), solveFor(u, negate(r)))
		case "tanh":
			if math.Abs(tf) >= 1 {
				return SolveResult{Complete: true}
			}
			// atanh(t) = ln((1 + t)/(1 - t))/2
			return solveFor(u, MulOf(F(1, 2), LnOf(DivOf(AddOf(N(1), target), SubOf(N(1), target)))))
		case "atan":
			if math.Abs(tf) >= math.Pi/2 {
				return SolveResult{Complete: true}
			}
			return solveFor(u, TanOf(target))
		case "asin":
			if math.Abs(tf) > math.Pi/2 {
				return SolveResult{Complete: true}
			}
			return solveFor(u, SinOf(target))
		case "acos":
			if tf < 0 || tf > math.Pi {
				return SolveResult{Complete: true}
			}
			return solveFor(u, CosOf(target))
		case "abs":
			if tf < 0 {
				return SolveResult{Complete: true}
			}
			if tf == 0 {
				return solveFor(u, N(0))
			}
			return mergeSolve(solveFor(u, target), solveFor(u, negate(target)))
		}
		// Periodic and piecewise-constant functions have no finite closed
		// solution set.
		return SolveResult{}
	}
	return SolveResult{}
}

// solvePoly finds every real root of p: rational roots exactly, the
// remaining factor exactly up to degree two and numerically beyond.
func solvePoly(p Poly) SolveResult {
	p = p.trim()
	switch p.Degree() {
	case -1:
		// 0 = 0 holds everywhere.
		return SolveResult{}
	case 0:
		return SolveResult{Complete: true}
	}
	roots, rest := p.rationalRoots()
	out := SolveResult{Complete: true}
	for _, r := range roots {
		out.Solutions = append(out.Solutions, NRat(r))
	}
	switch rest.Degree() {
	case 1:
		out.Solutions = append(out.Solutions, NRat(new(big.Rat).Neg(new(big.Rat).Quo(rest[0], rest[1]))))
	case 2:
		out.Solutions = append(out.Solutions, quadraticExact(rest[2], rest[1], rest[0])...)
	default:
		if rest.Degree() >= 3 {
			out.Approx = append(out.Approx, realRoots(rest)...)
		}
	}
	return out
}

// quadraticExact solves a*x^2 + b*x + c = 0 as center ± sqrt(D/(4a^2)).
func quadraticExact(a, b, c *big.Rat) []Expr {
	disc := new(big.Rat).Mul(b, b)
	disc.Sub(disc, new(big.Rat).Mul(big.NewRat(4, 1), new(big.Rat).Mul(a, c)))
	twoA := new(big.Rat).Mul(big.NewRat(2, 1), a)
	center := NRat(new(big.Rat).Neg(new(big.Rat).Quo(b, twoA)))
	switch disc.Sign() {
	case -1:
		return nil
	case 0:
		return []Expr{center}
	}
	r := new(big.Rat).Quo(disc, new(big.Rat).Mul(twoA, twoA))
	sq := PowOf(NRat(r), F(1, 2))
	lo, hi := SubOf(center, sq), AddOf(center, sq)
	return []Expr{lo, hi}
}

func mergeSolve(a, b SolveResult) SolveResult {
	return SolveResult{
		Solutions: append(append([]Expr{}, a.Solutions...), b.Solutions...),
		Approx:    append(append([]float64{}, a.Approx...), b.Approx...),
		Complete:  a.Complete && b.Complete,
	}
}

// filterDomain drops solutions at which expr does not evaluate to a finite
// real, then orders closed forms by value.
func filterDomain(res SolveResult, expr Expr, varName string) SolveResult {
	f := Compile(expr, varName)
	definedAt := func(x float64) bool {
		v := f(x)
		return !math.IsNaN(v) && !math.IsInf(v, 0)
	}
	out := SolveResult{Complete: res.Complete}
	type valued struct {
		e Expr
		v float64
	}
	var kept []valued
	for _, s := range res.Solutions {
		n, ok := s.Eval()
		if !ok {
			// Not evaluable to a real number (e.g. sqrt of a negative constant).
			continue
		}
		x := n.Float64()
		if !definedAt(x) {
			continue
		}
		kept = append(kept, valued{e: s, v: x})
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].v < kept[j].v })
	for i, k := range kept {
		if i > 0 && kept[i-1].e.Equal(k.e) {
			continue
		}
		out.Solutions = append(out.Solutions, k.e)
	}
	for _, x := range res.Approx {
		if definedAt(x) {
			out.Approx = append(out.Approx, x)
		}
	}
	sort.Float64s(out.Approx)
	return out
}
