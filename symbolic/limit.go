package symbolic

import (
	"math"
)

// ============================================================
// Limits
// ============================================================

// LimitResult holds the result of a limit computation.
type LimitResult struct {
	Value   Expr
	Success bool
	Error   string
}

// Float returns the limit as a float64 when it is finite.
func (r LimitResult) Float() (float64, bool) {
	if !r.Success || r.Value == nil {
		return 0, false
	}
	n, ok := r.Value.Eval()
	if !ok {
		return 0, false
	}
	return n.Float64(), true
}

// Limit computes the two-sided lim_{varName -> point} expr.
// Tries direct substitution, L'Hôpital (0/0), then leading Taylor terms of
// numerator and denominator. Success is false unless the limit is finite.
func Limit(expr Expr, varName string, point Expr) LimitResult {
	return limitRecursive(expr, varName, point, 5)
}

func limitRecursive(expr Expr, varName string, point Expr, maxLhopital int) LimitResult {
	expr = expr.Simplify()
	subbed := Sub(expr, varName, point)
	if _, ok := subbed.Eval(); ok {
		return LimitResult{Value: subbed, Success: true}
	}
	num, den := NumerDenom(expr)
	if isNumEqual(den, 1) {
		return limitFailure(expr, varName, point)
	}
	if maxLhopital > 0 {
		nv, nok := Sub(num, varName, point).Eval()
		dv, dok := Sub(den, varName, point).Eval()
		if nok && dok && nv.IsZero() && dv.IsZero() {
			dNum := Diff(num, varName)
			dDen := Diff(den, varName)
			if !isNumEqual(dDen, 0) {
				if r := limitRecursive(DivOf(dNum, dDen), varName, point, maxLhopital-1); r.Success {
					return r
				}
			}
		}
	}
	k, ck, ok1 := taylorOrder(num, varName, point, 8)
	m, cm, ok2 := taylorOrder(den, varName, point, 8)
	if ok1 && ok2 {
		switch {
		case k == m:
			return LimitResult{Value: numDiv(ck, cm), Success: true}
		case k > m:
			return LimitResult{Value: N(0), Success: true}
		}
	}
	return limitFailure(expr, varName, point)
}

func limitFailure(expr Expr, varName string, point Expr) LimitResult {
	return LimitResult{
		Error: "limit could not be determined: " + expr.String() + " as " + varName + " -> " + point.String(),
	}
}

// taylorOrder returns the order k and coefficient f^(k)(a)/k! of the first
// non-vanishing Taylor term of e around a.
func taylorOrder(e Expr, varName string, a Expr, maxOrder int) (int, *Num, bool) {
	current := e
	factorial := N(1)
	for k := 0; k <= maxOrder; k++ {
		if k > 0 {
			factorial = numMul(factorial, N(int64(k)))
			current = Diff(current, varName)
		}
		c, ok := Sub(current, varName, a).Eval()
		if !ok {
			return 0, nil, false
		}
		if !c.IsZero() {
			return k, numDiv(c, factorial), true
		}
	}
	return 0, nil, false
}

// ============================================================
// Limits at infinity
// ============================================================

type LimitKind int

const (
	LimitNone LimitKind = iota
	LimitFinite
	LimitPosInf
	LimitNegInf
)

func (k LimitKind) String() string {
	switch k {
	case LimitFinite:
		return "finite"
	case LimitPosInf:
		return "+inf"
	case LimitNegInf:
		return "-inf"
	}
	return "none"
}

// InfLimit is the behaviour of an expression as its variable tends to +∞ or
// −∞. Exact is set only when the value was derived symbolically.
type InfLimit struct {
	Kind  LimitKind
	Value float64
	Exact Expr
}

// LimitAtInfinity computes lim expr as varName -> sign·∞ (sign is +1 or -1).
// Rational functions are handled exactly by comparing degrees; anything else
// is probed numerically along sign·10^k and reported only when the probe
// clearly converges or diverges.
func LimitAtInfinity(expr Expr, varName string, sign int) InfLimit {
	if sign >= 0 {
		sign = 1
	} else {
		sign = -1
	}
	expr = expr.Simplify()
	if !HasVar(expr, varName) {
		if v, ok := expr.Eval(); ok {
			return InfLimit{Kind: LimitFinite, Value: v.Float64(), Exact: expr}
		}
		return InfLimit{Kind: LimitNone}
	}
	num, den := NumerDenom(expr)
	pn, ok1 := ToPoly(num, varName)
	pd, ok2 := ToPoly(den, varName)
	if ok1 && ok2 && !pd.IsZero() {
		return rationalLimitAtInfinity(pn, pd, sign)
	}
	return probeLimitAtInfinity(Compile(expr, varName), sign)
}

func rationalLimitAtInfinity(pn, pd Poly, sign int) InfLimit {
	dn, dd := pn.Degree(), pd.Degree()
	switch {
	case pn.IsZero() || dn < dd:
		return InfLimit{Kind: LimitFinite, Value: 0, Exact: N(0)}
	case dn == dd:
		v := numDiv(NRat(pn.Lead()), NRat(pd.Lead()))
		return InfLimit{Kind: LimitFinite, Value: v.Float64(), Exact: v}
	}
	s := pn.Lead().Sign() * pd.Lead().Sign()
	if (dn-dd)%2 == 1 {
		s *= sign
	}
	if s > 0 {
		return InfLimit{Kind: LimitPosInf, Value: math.Inf(1)}
	}
	return InfLimit{Kind: LimitNegInf, Value: math.Inf(-1)}
}

// probeLimitAtInfinity evaluates f at sign·10^k for k = 1..12.
func probeLimitAtInfinity(f func(float64) float64, sign int) InfLimit {
	const probes = 12
	vals := make([]float64, 0, probes)
	for k := 1; k <= probes; k++ {
		v := f(float64(sign) * math.Pow(10, float64(k)))
		if math.IsNaN(v) {
			return InfLimit{Kind: LimitNone}
		}
		vals = append(vals, v)
	}
	last := vals[len(vals)-1]
	if math.IsInf(last, 0) {
		if last > 0 {
			return InfLimit{Kind: LimitPosInf, Value: last}
		}
		return InfLimit{Kind: LimitNegInf, Value: last}
	}

	n := len(vals)
	d1 := math.Abs(vals[n-1] - vals[n-2])
	d2 := math.Abs(vals[n-2] - vals[n-3])
	scale := 1 + math.Abs(last)
	if d1 < 1e-6*scale && d2 < 1e-4*scale {
		v := last
		if r := math.Round(v); math.Abs(v-r) < 1e-6 {
			v = r
		}
		return InfLimit{Kind: LimitFinite, Value: v}
	}

	// Divergence: the magnitude grows monotonically with one sign and the
	// steps do not shrink.
	growing := true
	for i := n - 5; i < n; i++ {
		if math.Abs(vals[i]) <= math.Abs(vals[i-1]) ||
			math.Signbit(vals[i]) != math.Signbit(last) ||
			math.Abs(vals[i]-vals[i-1]) < 0.99*math.Abs(vals[i-1]-vals[i-2]) {
			growing = false
			break
		}
	}
	if growing {
		if last > 0 {
			return InfLimit{Kind: LimitPosInf, Value: math.Inf(1)}
		}
		return InfLimit{Kind: LimitNegInf, Value: math.Inf(-1)}
	}
	return InfLimit{Kind: LimitNone}
}
