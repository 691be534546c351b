// Package symbolic is the expression engine behind plotsense.
//
// Design goals:
//   - Exact rational arithmetic (math/big.Rat) wherever the input allows it
//   - Deterministic simplification and stable output
//   - A single free variable per expression, real domain only
//   - Numeric fallbacks (float compilation, polynomial root polishing) that
//     never panic on undefined points
package symbolic

import (
	"math"
	"math/big"
)

// ============================================================
// Core Interface
// ============================================================

// Expr is an immutable symbolic expression. Every constructor returns a
// simplified value; methods never mutate the receiver.
type Expr interface {
	Simplify() Expr
	String() string
	Sub(varName string, value Expr) Expr
	Diff(varName string) Expr
	Eval() (*Num, bool)
	Equal(other Expr) bool
}

// ============================================================
// Num: exact rational number
// ============================================================

type Num struct{ val *big.Rat }

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }
func F(p, q int64) *Num {
	if q == 0 {
		panic("symbolic: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// NFloat converts a finite float64 exactly. It panics on NaN or ±Inf; use
// numFromFloat when the input may be non-finite.
func NFloat(f float64) *Num {
	n, ok := numFromFloat(f)
	if !ok {
		panic("symbolic: non-finite float")
	}
	return n
}

// NRat wraps a copy of r.
func NRat(r *big.Rat) *Num { return &Num{val: new(big.Rat).Set(r)} }

func numFromFloat(f float64) (*Num, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return &Num{val: new(big.Rat).SetFloat64(f)}, true
}

func (n *Num) Simplify() Expr        { return n }
func (n *Num) Sub(string, Expr) Expr { return n }
func (n *Num) Diff(string) Expr      { return N(0) }
func (n *Num) Eval() (*Num, bool)    { return n, true }
func (n *Num) Equal(other Expr) bool { o, ok := other.(*Num); return ok && n.val.Cmp(o.val) == 0 }
func (n *Num) Float64() float64      { f, _ := n.val.Float64(); return f }
func (n *Num) IsZero() bool          { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool           { return n.val.Cmp(ratOne) == 0 }
func (n *Num) IsNegOne() bool        { return n.val.Cmp(ratNegOne) == 0 }
func (n *Num) IsInteger() bool       { return n.val.IsInt() }
func (n *Num) Rat() *big.Rat         { return new(big.Rat).Set(n.val) }
func (n *Num) IsPositive() bool      { return n.val.Sign() > 0 }
func (n *Num) IsNegative() bool      { return n.val.Sign() < 0 }
func (n *Num) Sign() int             { return n.val.Sign() }

var (
	ratOne    = big.NewRat(1, 1)
	ratNegOne = big.NewRat(-1, 1)
)

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numSub(a, b *Num) *Num { return &Num{val: new(big.Rat).Sub(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numNeg(a *Num) *Num    { return &Num{val: new(big.Rat).Neg(a.val)} }
func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic("symbolic: division by zero")
	}
	return &Num{val: new(big.Rat).Inv(a.val)}
}
func numDiv(a, b *Num) *Num { return numMul(a, numRecip(b)) }
func numAbs(a *Num) *Num    { return &Num{val: new(big.Rat).Abs(a.val)} }
func numCmp(a, b *Num) int  { return a.val.Cmp(b.val) }

// numPowInt raises a to an integer power. ok is false for 0^negative and for
// exponents too large to be worth computing exactly.
func numPowInt(a *Num, e int64) (*Num, bool) {
	if e == 0 {
		return N(1), true
	}
	if e < -1024 || e > 1024 {
		return nil, false
	}
	if a.IsZero() {
		if e < 0 {
			return nil, false
		}
		return N(0), true
	}
	k := e
	if k < 0 {
		k = -k
	}
	bk := big.NewInt(k)
	num := new(big.Int).Exp(a.val.Num(), bk, nil)
	den := new(big.Int).Exp(a.val.Denom(), bk, nil)
	r := new(big.Rat).SetFrac(num, den)
	if e < 0 {
		r.Inv(r)
	}
	return &Num{val: r}, true
}

// ============================================================
// Sym: symbolic variable
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym      { return &Sym{name: name} }
func (s *Sym) Simplify() Expr { return s }
func (s *Sym) String() string { return s.name }
func (s *Sym) Eval() (*Num, bool) {
	return nil, false
}
func (s *Sym) Equal(other Expr) bool { o, ok := other.(*Sym); return ok && s.name == o.name }
func (s *Sym) Name() string          { return s.name }
func (s *Sym) Sub(varName string, value Expr) Expr {
	if s.name == varName {
		return value
	}
	return s
}
func (s *Sym) Diff(varName string) Expr {
	if s.name == varName {
		return N(1)
	}
	return N(0)
}

// ============================================================
// Const: named irrational constant (pi, e)
// ============================================================

type Const struct {
	name  string
	value float64
}

func Pi() *Const { return &Const{name: "pi", value: math.Pi} }
func E() *Const  { return &Const{name: "e", value: math.E} }

func (c *Const) Simplify() Expr        { return c }
func (c *Const) String() string        { return c.name }
func (c *Const) Sub(string, Expr) Expr { return c }
func (c *Const) Diff(string) Expr      { return N(0) }
func (c *Const) Eval() (*Num, bool)    { return numFromFloat(c.value) }
func (c *Const) Float64() float64      { return c.value }
func (c *Const) Equal(other Expr) bool { o, ok := other.(*Const); return ok && c.name == o.name }

func isNumEqual(e Expr, v int64) bool {
	n, ok := e.(*Num)
	return ok && n.val.Cmp(new(big.Rat).SetInt64(v)) == 0
}
