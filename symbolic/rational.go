package symbolic

import "math/big"

// ============================================================
// Rational decomposition
// ============================================================

// NumerDenom writes e as num/den over a common denominator, the way one would
// "bring everything onto one fraction line". Negative powers move into the
// denominator and sums are combined pairwise. Both parts are expanded. Non
// rational pieces (sin(x), exp(x), sqrt(x)) stay in the numerator, so
// den == 1 means e has no rational structure.
func NumerDenom(e Expr) (num, den Expr) {
	n, d := numerDenom(e.Simplify())
	return Expand(n), Expand(d)
}

func numerDenom(e Expr) (Expr, Expr) {
	switch v := e.(type) {
	case *Num:
		return &Num{val: new(big.Rat).SetInt(v.val.Num())}, &Num{val: new(big.Rat).SetInt(v.val.Denom())}
	case *Pow:
		if en, ok := v.exp.(*Num); ok && en.IsNegative() {
			return N(1), PowOf(v.base, numNeg(en))
		}
		return e, N(1)
	case *Mul:
		nums := make([]Expr, 0, len(v.factors))
		dens := make([]Expr, 0, len(v.factors))
		for _, f := range v.factors {
			n, d := numerDenom(f)
			nums = append(nums, n)
			dens = append(dens, d)
		}
		return MulOf(nums...), MulOf(dens...)
	case *Add:
		num, den := numerDenom(v.terms[0])
		for _, t := range v.terms[1:] {
			n, d := numerDenom(t)
			if d.Equal(den) {
				num = AddOf(num, n)
				continue
			}
			num = AddOf(MulOf(num, d), MulOf(n, den))
			den = MulOf(den, d)
		}
		return num, den
	}
	return e, N(1)
}

// IsRational reports whether e is a ratio of polynomials in varName.
func IsRational(e Expr, varName string) bool {
	num, den := NumerDenom(e)
	_, ok1 := ToPoly(num, varName)
	_, ok2 := ToPoly(den, varName)
	return ok1 && ok2
}
