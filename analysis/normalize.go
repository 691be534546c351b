package analysis

import (
	"fmt"
	"math"
	"sync"

	"github.com/njchilds90/plotsense/symbolic"
)

// defaultVar names the variable of constant expressions such as "3" or "pi".
const defaultVar = "x"

// Function is a normalized, immutable single-variable expression together
// with its compiled float evaluator.
type Function struct {
	Expr symbolic.Expr
	Var  string
	Text string

	eval func(float64) float64

	derivOnce sync.Once
	deriv     func(float64) float64
}

// Normalize parses and simplifies input. Malformed input yields a
// *symbolic.ParseError.
func Normalize(input string) (*Function, error) {
	e, err := symbolic.Parse(input)
	if err != nil {
		return nil, err
	}
	return NewFunction(input, e), nil
}

// NewFunction wraps an already-built expression.
func NewFunction(text string, e symbolic.Expr) *Function {
	e = e.Simplify()
	v, ok := symbolic.FreeVar(e)
	if !ok {
		v = defaultVar
	}
	return &Function{Expr: e, Var: v, Text: text, eval: symbolic.Compile(e, v)}
}

func (f *Function) String() string { return f.Expr.String() }

// Eval evaluates f at x. ok is false when the value is not a finite real;
// a panic inside the evaluator is reported the same way.
func (f *Function) Eval(x float64) (y float64, ok bool) {
	return safeEval(f.eval, x)
}

// Slope evaluates the symbolic derivative at x.
func (f *Function) Slope(x float64) (float64, bool) {
	f.derivOnce.Do(func() {
		f.deriv = symbolic.Compile(symbolic.Diff(f.Expr, f.Var), f.Var)
	})
	return safeEval(f.deriv, x)
}

// Constant reports whether f does not depend on its variable.
func (f *Function) Constant() bool { return !symbolic.HasVar(f.Expr, f.Var) }

// Minus returns f - g. The two must share their variable unless one of them
// is constant.
func (f *Function) Minus(g *Function) (*Function, error) {
	if f.Var != g.Var && !f.Constant() && !g.Constant() {
		return nil, fmt.Errorf("%w: functions use different variables %s and %s", ErrVariableMismatch, f.Var, g.Var)
	}
	return NewFunction(f.Text+" - ("+g.Text+")", symbolic.SubOf(f.Expr, g.Expr)), nil
}

func safeEval(fn func(float64) float64, x float64) (y float64, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			y, ok = math.NaN(), false
		}
	}()
	y = fn(x)
	return y, !math.IsNaN(y) && !math.IsInf(y, 0)
}
