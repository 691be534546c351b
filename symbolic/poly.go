package symbolic

import (
	"math"
	"math/big"
)

// ============================================================
// Polynomial utilities
// ============================================================

// maxPolyDegree bounds ToPoly so that x^1000000 is not treated as a dense
// polynomial.
const maxPolyDegree = 64

// Poly is a dense univariate polynomial with exact rational coefficients in
// ascending order: c[0] + c[1]*x + ... The zero polynomial has no
// coefficients.
type Poly []*big.Rat

// ToPoly expands e and reads it as a polynomial in varName. Coefficients must
// be free of varName and evaluable; irrational coefficients (pi, sqrt(2)) are
// carried as their float64 value. ok is false for anything else, including
// negative or fractional powers of varName.
func ToPoly(e Expr, varName string) (Poly, bool) {
	coeffs := map[int]*big.Rat{}
	maxDeg := 0
	for _, t := range termsOf(Expand(e)) {
		coeff, k, ok := monomial(t, varName)
		if !ok || k > maxPolyDegree {
			return nil, false
		}
		c, ok := coeff.Eval()
		if !ok {
			return nil, false
		}
		if existing, seen := coeffs[k]; seen {
			existing.Add(existing, c.val)
		} else {
			coeffs[k] = new(big.Rat).Set(c.val)
		}
		if k > maxDeg {
			maxDeg = k
		}
	}
	p := make(Poly, maxDeg+1)
	for i := range p {
		if c, ok := coeffs[i]; ok {
			p[i] = c
		} else {
			p[i] = new(big.Rat)
		}
	}
	return p.trim(), true
}

// monomial splits a single expanded term into coefficient * varName^k.
func monomial(t Expr, varName string) (Expr, int, bool) {
	if !HasVar(t, varName) {
		return t, 0, true
	}
	if k, ok := varPower(t, varName); ok {
		return N(1), k, true
	}
	m, ok := t.(*Mul)
	if !ok {
		return nil, 0, false
	}
	deg := 0
	var coeff []Expr
	for _, f := range m.factors {
		if !HasVar(f, varName) {
			coeff = append(coeff, f)
			continue
		}
		k, ok := varPower(f, varName)
		if !ok {
			return nil, 0, false
		}
		deg += k
	}
	return MulOf(coeff...), deg, true
}

// varPower recognizes varName and varName^k for a non-negative integer k.
func varPower(e Expr, varName string) (int, bool) {
	switch v := e.(type) {
	case *Sym:
		return 1, v.name == varName
	case *Pow:
		s, ok := v.base.(*Sym)
		if !ok || s.name != varName {
			return 0, false
		}
		n, ok := v.exp.(*Num)
		if !ok || !n.IsInteger() || n.IsNegative() || !n.val.Num().IsInt64() {
			return 0, false
		}
		return int(n.val.Num().Int64()), true
	}
	return 0, false
}

func (p Poly) trim() Poly {
	n := len(p)
	for n > 0 && p[n-1].Sign() == 0 {
		n--
	}
	return p[:n]
}

// Degree is -1 for the zero polynomial.
func (p Poly) Degree() int { return len(p.trim()) - 1 }

func (p Poly) IsZero() bool { return p.Degree() < 0 }

// Lead returns the leading coefficient (zero for the zero polynomial).
func (p Poly) Lead() *big.Rat {
	q := p.trim()
	if len(q) == 0 {
		return new(big.Rat)
	}
	return q[len(q)-1]
}

// Coeff returns the coefficient of x^i.
func (p Poly) Coeff(i int) *big.Rat {
	if i < 0 || i >= len(p) {
		return new(big.Rat)
	}
	return p[i]
}

// DivMod performs long division p = q*d + r with deg r < deg d. It panics on
// a zero divisor.
func (p Poly) DivMod(d Poly) (q, r Poly) {
	d = d.trim()
	if len(d) == 0 {
		panic("symbolic: polynomial division by zero")
	}
	r = make(Poly, len(p))
	for i, c := range p {
		r[i] = new(big.Rat).Set(c)
	}
	r = r.trim()
	if len(r) < len(d) {
		return Poly{}, r
	}
	q = make(Poly, len(r)-len(d)+1)
	for i := range q {
		q[i] = new(big.Rat)
	}
	lead := d[len(d)-1]
	for len(r) >= len(d) {
		shift := len(r) - len(d)
		c := new(big.Rat).Quo(r[len(r)-1], lead)
		q[shift] = c
		for i, dc := range d {
			r[shift+i].Sub(r[shift+i], new(big.Rat).Mul(c, dc))
		}
		// Exact arithmetic guarantees the leading term cancels.
		r = r[:len(r)-1].trim()
	}
	return q.trim(), r
}

// Expr renders the polynomial back into an expression in varName.
func (p Poly) Expr(varName string) Expr {
	x := S(varName)
	terms := make([]Expr, 0, len(p))
	for i, c := range p {
		if c.Sign() == 0 {
			continue
		}
		terms = append(terms, MulOf(NRat(c), PowOf(x, N(int64(i)))))
	}
	return AddOf(terms...)
}

// EvalRat evaluates the polynomial exactly by Horner's rule.
func (p Poly) EvalRat(x *big.Rat) *big.Rat {
	acc := new(big.Rat)
	for i := len(p) - 1; i >= 0; i-- {
		acc.Mul(acc, x)
		acc.Add(acc, p[i])
	}
	return acc
}

// Eval evaluates the polynomial in float64 by Horner's rule.
func (p Poly) Eval(x float64) float64 {
	acc := 0.0
	for i := len(p) - 1; i >= 0; i-- {
		f, _ := p[i].Float64()
		acc = acc*x + f
	}
	return acc
}

func (p Poly) Deriv() Poly {
	if len(p) <= 1 {
		return Poly{}
	}
	out := make(Poly, len(p)-1)
	for i := 1; i < len(p); i++ {
		out[i-1] = new(big.Rat).Mul(p[i], new(big.Rat).SetInt64(int64(i)))
	}
	return out.trim()
}

// Floats returns the coefficients as float64, ascending.
func (p Poly) Floats() []float64 {
	out := make([]float64, len(p))
	for i, c := range p {
		out[i], _ = c.Float64()
	}
	return out
}

// deflate divides p by (x - r) for an exact root r.
func (p Poly) deflate(r *big.Rat) Poly {
	q, _ := p.DivMod(Poly{new(big.Rat).Neg(r), big.NewRat(1, 1)})
	return q
}

// integerCoeffs scales p by the lcm of its denominators.
func (p Poly) integerCoeffs() []*big.Int {
	lcm := big.NewInt(1)
	for _, c := range p {
		d := c.Denom()
		g := new(big.Int).GCD(nil, nil, lcm, d)
		lcm.Mul(lcm, new(big.Int).Quo(d, g))
	}
	out := make([]*big.Int, len(p))
	for i, c := range p {
		v := new(big.Int).Mul(c.Num(), lcm)
		out[i] = v.Quo(v, c.Denom())
	}
	return out
}

// maxDivisorSearch bounds the rational root candidate search.
const maxDivisorSearch = 1_000_000

// divisors lists the positive divisors of |n|, or ok=false when |n| is too
// large to enumerate.
func divisors(n *big.Int) ([]int64, bool) {
	a := new(big.Int).Abs(n)
	if !a.IsInt64() || a.Int64() > maxDivisorSearch*maxDivisorSearch {
		return nil, false
	}
	v := a.Int64()
	if v == 0 {
		return nil, false
	}
	var small, large []int64
	limit := int64(math.Sqrt(float64(v)))
	for d := int64(1); d <= limit+1 && d*d <= v; d++ {
		if v%d == 0 {
			small = append(small, d)
			if d != v/d {
				large = append(large, v/d)
			}
		}
	}
	for i := len(large) - 1; i >= 0; i-- {
		small = append(small, large[i])
	}
	return small, true
}

// rationalRoots finds every rational root of p (with multiplicity removed)
// and returns them with the deflated remainder.
func (p Poly) rationalRoots() ([]*big.Rat, Poly) {
	var roots []*big.Rat
	p = p.trim()
	for len(p) > 1 && p[0].Sign() == 0 {
		roots = appendUniqueRat(roots, new(big.Rat))
		p = p[1:]
	}
	if len(p) <= 1 {
		return roots, p
	}
	ints := p.integerCoeffs()
	ps, ok1 := divisors(ints[0])
	qs, ok2 := divisors(ints[len(ints)-1])
	if !ok1 || !ok2 {
		return roots, p
	}
	for _, num := range ps {
		for _, den := range qs {
			for _, sign := range []int64{1, -1} {
				cand := big.NewRat(sign*num, den)
				for len(p) > 1 && p.EvalRat(cand).Sign() == 0 {
					roots = appendUniqueRat(roots, cand)
					p = p.deflate(cand)
				}
			}
		}
	}
	return roots, p
}

func appendUniqueRat(list []*big.Rat, r *big.Rat) []*big.Rat {
	for _, x := range list {
		if x.Cmp(r) == 0 {
			return list
		}
	}
	return append(list, r)
}
