package symbolic

import (
	"math"
	"math/big"
	"sort"
	"strings"
)

// ============================================================
// Add: sum of terms
// ============================================================

type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

// SubOf returns a - b.
func SubOf(a, b Expr) Expr { return AddOf(a, negate(b)) }

// Simplify flattens nested sums, folds numeric terms and collects like terms
// (2*x + 3*x = 5*x). Terms are ordered by descending degree, then by text.
func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}
	numAccum := N(0)
	coeffs := map[string]*Num{}
	bases := map[string]Expr{}
	order := []string{}
	for _, t := range flat {
		if v, ok := t.(*Num); ok {
			numAccum = numAdd(numAccum, v)
			continue
		}
		coeff, rest := extractCoefficient(t)
		key := rest.String()
		if _, seen := coeffs[key]; !seen {
			order = append(order, key)
			coeffs[key] = N(0)
			bases[key] = rest
		}
		coeffs[key] = numAdd(coeffs[key], coeff)
	}
	result := make([]Expr, 0, len(order)+1)
	for _, key := range order {
		coeff := coeffs[key]
		switch {
		case coeff.IsZero():
		case coeff.IsOne():
			result = append(result, bases[key])
		default:
			result = append(result, MulOf(coeff, bases[key]))
		}
	}
	// Ties break on the coefficient-free key so that negating a sum never
	// reorders it.
	sort.SliceStable(result, func(i, j int) bool {
		di, dj := termDegree(result[i]), termDegree(result[j])
		if di != dj {
			return di > dj
		}
		_, ri := extractCoefficient(result[i])
		_, rj := extractCoefficient(result[j])
		return ri.String() < rj.String()
	})
	if !numAccum.IsZero() {
		result = append(result, numAccum)
	}
	if len(result) == 0 {
		return N(0)
	}
	if len(result) == 1 {
		return result[0]
	}
	return &Add{terms: result}
}

func (a *Add) String() string {
	if len(a.terms) == 0 {
		return "0"
	}
	var sb strings.Builder
	for i, t := range a.terms {
		s := t.String()
		switch {
		case i == 0:
			sb.WriteString(s)
		case strings.HasPrefix(s, "-"):
			sb.WriteString(" - ")
			sb.WriteString(s[1:])
		default:
			sb.WriteString(" + ")
			sb.WriteString(s)
		}
	}
	return sb.String()
}

func (a *Add) Sub(varName string, value Expr) Expr {
	newTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		newTerms[i] = t.Sub(varName, value)
	}
	return AddOf(newTerms...)
}

func (a *Add) Diff(varName string) Expr {
	dTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		dTerms[i] = t.Diff(varName)
	}
	return AddOf(dTerms...)
}

func (a *Add) Eval() (*Num, bool) {
	acc := N(0)
	for _, t := range a.terms {
		v, ok := t.Eval()
		if !ok {
			return nil, false
		}
		acc = numAdd(acc, v)
	}
	return acc, true
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	if !ok || len(a.terms) != len(o.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

func (a *Add) Terms() []Expr { return a.terms }

// termDegree orders sum terms: powers of symbols count towards the degree,
// everything else is degree zero.
func termDegree(e Expr) float64 {
	switch v := e.(type) {
	case *Sym:
		return 1
	case *Pow:
		if _, ok := v.base.(*Sym); ok {
			if n, ok := v.exp.(*Num); ok {
				return n.Float64()
			}
		}
	case *Mul:
		d := 0.0
		for _, f := range v.factors {
			d += termDegree(f)
		}
		return d
	}
	return 0
}

// ============================================================
// Mul: product of factors
// ============================================================

type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

// DivOf returns a / b.
func DivOf(a, b Expr) Expr { return MulOf(a, PowOf(b, N(-1))) }

// Simplify flattens nested products, folds the numeric coefficient and
// collects powers of equal bases (x*x = x^2, x*x^-1 = 1).
func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}
	coeff := N(1)
	bases := map[string]Expr{}
	exps := map[string]Expr{}
	order := []string{}
	for _, f := range flat {
		if v, ok := f.(*Num); ok {
			coeff = numMul(coeff, v)
			continue
		}
		base, exp := f, Expr(N(1))
		if p, ok := f.(*Pow); ok {
			base, exp = p.base, p.exp
		}
		key := base.String()
		if _, seen := exps[key]; !seen {
			order = append(order, key)
			bases[key] = base
			exps[key] = exp
			continue
		}
		exps[key] = AddOf(exps[key], exp)
	}
	if coeff.IsZero() {
		// 0 * (1/0) stays undefined.
		for _, f := range flat {
			if isUndefined(f) {
				return f
			}
		}
		return N(0)
	}

	others := make([]Expr, 0, len(order))
	spliced := false
	for _, key := range order {
		switch v := PowOf(bases[key], exps[key]).(type) {
		case *Num:
			coeff = numMul(coeff, v)
		case *Mul:
			others = append(others, v.factors...)
			spliced = true
		default:
			others = append(others, v)
		}
	}
	if spliced {
		return MulOf(append([]Expr{coeff}, others...)...)
	}
	if coeff.IsZero() {
		return N(0)
	}
	if len(others) == 0 {
		return coeff
	}

	// Precompute sort keys to avoid repeated String() calls in comparator.
	type keyed struct {
		e   Expr
		key string
	}
	ks := make([]keyed, len(others))
	for i, e := range others {
		ks[i] = keyed{e: e, key: e.String()}
	}
	sort.Slice(ks, func(i, j int) bool { return ks[i].key < ks[j].key })
	sorted := make([]Expr, len(ks))
	for i := range ks {
		sorted[i] = ks[i].e
	}

	if coeff.IsOne() {
		if len(sorted) == 1 {
			return sorted[0]
		}
		return &Mul{factors: sorted}
	}
	return &Mul{factors: append([]Expr{coeff}, sorted...)}
}

// String renders negative powers as a denominator: 3*x/(x - 2).
func (m *Mul) String() string {
	if len(m.factors) == 0 {
		return "1"
	}
	coeff := N(1)
	var numer, denom []string
	for _, f := range m.factors {
		switch v := f.(type) {
		case *Num:
			coeff = numMul(coeff, v)
			continue
		case *Pow:
			if en, ok := v.exp.(*Num); ok && en.IsNegative() {
				denom = append(denom, powString(v.base, numNeg(en)))
				continue
			}
		}
		numer = append(numer, factorString(f))
	}
	sign := ""
	if coeff.IsNegative() {
		sign = "-"
		coeff = numNeg(coeff)
	}
	if p := coeff.val.Num(); !p.IsInt64() || p.Int64() != 1 || len(numer) == 0 {
		numer = append([]string{p.String()}, numer...)
	}
	if q := coeff.val.Denom(); !q.IsInt64() || q.Int64() != 1 {
		denom = append([]string{q.String()}, denom...)
	}
	out := sign + strings.Join(numer, "*")
	if len(denom) > 0 {
		d := strings.Join(denom, "*")
		if len(denom) > 1 {
			d = "(" + d + ")"
		}
		out += "/" + d
	}
	return out
}

func (m *Mul) Sub(varName string, value Expr) Expr {
	newFactors := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		newFactors[i] = f.Sub(varName, value)
	}
	return MulOf(newFactors...)
}

func (m *Mul) Diff(varName string) Expr {
	terms := make([]Expr, len(m.factors))
	for i, fi := range m.factors {
		dfi := fi.Diff(varName)
		others := make([]Expr, 0, len(m.factors)-1)
		for j, fj := range m.factors {
			if j != i {
				others = append(others, fj)
			}
		}
		if len(others) == 0 {
			terms[i] = dfi
		} else {
			terms[i] = MulOf(append([]Expr{dfi}, others...)...)
		}
	}
	return AddOf(terms...)
}

func (m *Mul) Eval() (*Num, bool) {
	acc := N(1)
	for _, f := range m.factors {
		v, ok := f.Eval()
		if !ok {
			return nil, false
		}
		acc = numMul(acc, v)
	}
	return acc, true
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.factors) != len(o.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

func (m *Mul) Factors() []Expr { return m.factors }

// extractCoefficient splits a term into its rational coefficient and the
// remaining product.
func extractCoefficient(e Expr) (*Num, Expr) {
	if m, ok := e.(*Mul); ok && len(m.factors) >= 2 {
		if coeff, ok2 := m.factors[0].(*Num); ok2 {
			rest := m.factors[1:]
			if len(rest) == 1 {
				return coeff, rest[0]
			}
			return coeff, &Mul{factors: rest}
		}
	}
	if n, ok := e.(*Num); ok {
		return n, N(1)
	}
	return N(1), e
}

// negate distributes a sign change over sums so that -(x + 1) prints and
// compares as -x - 1.
func negate(e Expr) Expr {
	if a, ok := e.(*Add); ok {
		terms := make([]Expr, len(a.terms))
		for i, t := range a.terms {
			terms[i] = MulOf(N(-1), t)
		}
		return AddOf(terms...)
	}
	return MulOf(N(-1), e)
}

// isNegated reports whether e carries a leading minus sign.
func isNegated(e Expr) bool {
	switch v := e.(type) {
	case *Num:
		return v.IsNegative()
	case *Mul:
		c, _ := extractCoefficient(v)
		return c.IsNegative()
	case *Add:
		return len(v.terms) > 0 && isNegated(v.terms[0])
	}
	return false
}

func factorString(e Expr) string {
	if _, ok := e.(*Add); ok {
		return "(" + e.String() + ")"
	}
	return e.String()
}

// ============================================================
// Pow: base^exponent
// ============================================================

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()
	en, expIsNum := exp.(*Num)

	if expIsNum && en.IsZero() {
		return N(1)
	}
	if expIsNum && en.IsOne() {
		return base
	}
	if bn, ok := base.(*Num); ok {
		if bn.IsOne() {
			return N(1)
		}
		if expIsNum && en.IsInteger() && en.val.Num().IsInt64() {
			if r, ok := numPowInt(bn, en.val.Num().Int64()); ok {
				return r
			}
			// 0^negative is undefined and stays unevaluated.
			return &Pow{base: base, exp: exp}
		}
		if expIsNum {
			if r, ok := ratRootPow(bn, en); ok {
				return r
			}
			if bn.IsZero() && en.IsPositive() {
				return N(0)
			}
		}
	}
	if expIsNum && en.IsInteger() {
		if inner, ok := base.(*Pow); ok {
			return PowOf(inner.base, MulOf(inner.exp, exp))
		}
		if m, ok := base.(*Mul); ok {
			fs := make([]Expr, len(m.factors))
			for i, f := range m.factors {
				fs[i] = PowOf(f, exp)
			}
			return MulOf(fs...)
		}
	}
	return &Pow{base: base, exp: exp}
}

func (p *Pow) String() string {
	if en, ok := p.exp.(*Num); ok && en.IsNegative() {
		return "1/" + powString(p.base, numNeg(en))
	}
	return powString(p.base, p.exp)
}

func powString(base, exp Expr) string {
	if isNumEqual(exp, 1) {
		return factorString(base)
	}
	if en, ok := exp.(*Num); ok && en.val.Cmp(big.NewRat(1, 2)) == 0 {
		return "sqrt(" + base.String() + ")"
	}
	b := base.String()
	switch v := base.(type) {
	case *Add, *Mul, *Pow:
		b = "(" + b + ")"
	case *Num:
		if !v.IsInteger() || v.IsNegative() {
			b = "(" + b + ")"
		}
	}
	e := exp.String()
	switch v := exp.(type) {
	case *Sym, *Const:
	case *Num:
		if !v.IsInteger() || v.IsNegative() {
			e = "(" + e + ")"
		}
	default:
		e = "(" + e + ")"
	}
	return b + "^" + e
}

func (p *Pow) Sub(varName string, value Expr) Expr {
	return PowOf(p.base.Sub(varName, value), p.exp.Sub(varName, value))
}

func (p *Pow) Diff(varName string) Expr {
	du := p.base.Diff(varName)
	dv := p.exp.Diff(varName)
	if _, expIsNum := p.exp.(*Num); expIsNum {
		newExp := AddOf(p.exp, N(-1))
		return MulOf(p.exp, PowOf(p.base, newExp), du)
	}
	if isNumEqual(dv, 0) {
		// Symbolic exponent free of varName.
		newExp := AddOf(p.exp, N(-1))
		return MulOf(p.exp, PowOf(p.base, newExp), du)
	}
	if isNumEqual(du, 0) {
		return MulOf(PowOf(p.base, p.exp), LnOf(p.base), dv)
	}
	logTerm := MulOf(dv, LnOf(p.base))
	divTerm := MulOf(p.exp, du, PowOf(p.base, N(-1)))
	return MulOf(PowOf(p.base, p.exp), AddOf(logTerm, divTerm))
}

func (p *Pow) Eval() (*Num, bool) {
	b, ok1 := p.base.Eval()
	e, ok2 := p.exp.Eval()
	if !ok1 || !ok2 {
		return nil, false
	}
	if e.IsInteger() && e.val.Num().IsInt64() {
		if r, ok := numPowInt(b, e.val.Num().Int64()); ok {
			return r, true
		}
	}
	if r, ok := ratRootPow(b, e); ok {
		if n, isNum := r.(*Num); isNum {
			return n, true
		}
	}
	return numFromFloat(math.Pow(b.Float64(), e.Float64()))
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) Base() Expr    { return p.base }
func (p *Pow) ExpExpr() Expr { return p.exp }

// isUndefined reports whether e is 0 raised to a non-positive power, the
// form division by zero takes after simplification.
func isUndefined(e Expr) bool {
	p, ok := e.(*Pow)
	if !ok {
		return false
	}
	b, ok1 := p.base.(*Num)
	x, ok2 := p.exp.(*Num)
	return ok1 && ok2 && b.IsZero() && !x.IsPositive()
}

// ratRootPow evaluates b^(p/q) exactly when b is a non-negative rational
// whose q-th root is rational, e.g. 4^(1/2) = 2 or (8/27)^(2/3) = 4/9.
func ratRootPow(b, e *Num) (Expr, bool) {
	if e.IsInteger() || b.IsNegative() {
		return nil, false
	}
	q := e.val.Denom()
	if !q.IsInt64() || q.Int64() > 64 {
		return nil, false
	}
	num, ok := intRoot(b.val.Num(), q.Int64())
	if !ok {
		return nil, false
	}
	den, ok := intRoot(b.val.Denom(), q.Int64())
	if !ok {
		return nil, false
	}
	p := e.val.Num()
	if !p.IsInt64() {
		return nil, false
	}
	root := &Num{val: new(big.Rat).SetFrac(num, den)}
	r, ok := numPowInt(root, p.Int64())
	if !ok {
		return nil, false
	}
	return r, true
}

// intRoot returns the exact q-th root of a non-negative integer.
func intRoot(n *big.Int, q int64) (*big.Int, bool) {
	if n.Sign() < 0 {
		return nil, false
	}
	if n.Sign() == 0 || q == 1 {
		return new(big.Int).Set(n), true
	}
	if q == 2 {
		r := new(big.Int).Sqrt(n)
		return r, new(big.Int).Mul(r, r).Cmp(n) == 0
	}
	if n.BitLen() > 1000 {
		return nil, false
	}
	f, _ := new(big.Float).SetInt(n).Float64()
	guess := int64(math.Round(math.Pow(f, 1/float64(q))))
	for c := guess - 1; c <= guess+1; c++ {
		if c < 0 {
			continue
		}
		r := big.NewInt(c)
		if new(big.Int).Exp(r, big.NewInt(q), nil).Cmp(n) == 0 {
			return r, true
		}
	}
	return nil, false
}
