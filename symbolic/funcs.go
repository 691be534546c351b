package symbolic

import (
	"math"
	"math/big"
)

// ============================================================
// Func: named function applications
// ============================================================

type Func struct {
	name string
	arg  Expr
}

func funcOf(name string, arg Expr) *Func { return &Func{name: name, arg: arg} }

func SinOf(arg Expr) Expr   { return funcOf("sin", arg).Simplify() }
func CosOf(arg Expr) Expr   { return funcOf("cos", arg).Simplify() }
func TanOf(arg Expr) Expr   { return funcOf("tan", arg).Simplify() }
func ExpOf(arg Expr) Expr   { return funcOf("exp", arg).Simplify() }
func LnOf(arg Expr) Expr    { return funcOf("ln", arg).Simplify() }
func SqrtOf(arg Expr) Expr  { return PowOf(arg, F(1, 2)) }
func AbsOf(arg Expr) Expr   { return funcOf("abs", arg).Simplify() }
func AsinOf(arg Expr) Expr  { return funcOf("asin", arg).Simplify() }
func AcosOf(arg Expr) Expr  { return funcOf("acos", arg).Simplify() }
func AtanOf(arg Expr) Expr  { return funcOf("atan", arg).Simplify() }
func SinhOf(arg Expr) Expr  { return funcOf("sinh", arg).Simplify() }
func CoshOf(arg Expr) Expr  { return funcOf("cosh", arg).Simplify() }
func TanhOf(arg Expr) Expr  { return funcOf("tanh", arg).Simplify() }
func FloorOf(arg Expr) Expr { return funcOf("floor", arg).Simplify() }
func CeilOf(arg Expr) Expr  { return funcOf("ceil", arg).Simplify() }
func SignOf(arg Expr) Expr  { return funcOf("sign", arg).Simplify() }

// floatFuncs maps every supported function name to its float64 kernel. The
// parser, Eval and Compile all share this table.
var floatFuncs = map[string]func(float64) float64{
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"exp":   math.Exp,
	"ln":    math.Log,
	"abs":   math.Abs,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"sinh":  math.Sinh,
	"cosh":  math.Cosh,
	"tanh":  math.Tanh,
	"floor": math.Floor,
	"ceil":  math.Ceil,
	"sign": func(v float64) float64 {
		switch {
		case v > 0:
			return 1
		case v < 0:
			return -1
		case v == 0:
			return 0
		}
		return math.NaN()
	},
}

var (
	oddFuncs  = map[string]bool{"sin": true, "tan": true, "asin": true, "atan": true, "sinh": true, "tanh": true, "sign": true}
	evenFuncs = map[string]bool{"cos": true, "cosh": true, "abs": true}
)

// Simplify folds only results that are exact (sin(0) = 0, ln(1) = 0, |-3| = 3)
// and pulls signs out of odd and even functions. Everything else stays
// symbolic so that later evaluation keeps full precision.
func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()
	if isNegated(arg) {
		switch {
		case oddFuncs[f.name]:
			return MulOf(N(-1), funcOf(f.name, negate(arg)).Simplify())
		case evenFuncs[f.name]:
			return funcOf(f.name, negate(arg)).Simplify()
		}
	}
	if n, ok := arg.(*Num); ok {
		switch f.name {
		case "sin", "tan", "asin", "atan", "sinh", "tanh":
			if n.IsZero() {
				return N(0)
			}
		case "cos", "cosh", "exp":
			if n.IsZero() {
				return N(1)
			}
		case "ln", "acos":
			if n.IsOne() {
				return N(0)
			}
		case "abs":
			return numAbs(n)
		case "sign":
			return N(int64(n.Sign()))
		case "floor", "ceil":
			q, m := new(big.Int).DivMod(n.val.Num(), n.val.Denom(), new(big.Int))
			if f.name == "ceil" && m.Sign() != 0 {
				q.Add(q, big.NewInt(1))
			}
			return &Num{val: new(big.Rat).SetInt(q)}
		}
	}
	switch f.name {
	case "ln":
		if c, ok := arg.(*Const); ok && c.name == "e" {
			return N(1)
		}
		if inner, ok := arg.(*Func); ok && inner.name == "exp" {
			return inner.arg
		}
	case "exp":
		if inner, ok := arg.(*Func); ok && inner.name == "ln" {
			return inner.arg
		}
	case "abs":
		if inner, ok := arg.(*Func); ok && inner.name == "abs" {
			return inner
		}
	}
	return &Func{name: f.name, arg: arg}
}

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func) Sub(varName string, value Expr) Expr {
	return funcOf(f.name, f.arg.Sub(varName, value)).Simplify()
}

func (f *Func) Diff(varName string) Expr {
	du := f.arg.Diff(varName)
	if isNumEqual(du, 0) {
		return N(0)
	}
	var outer Expr
	switch f.name {
	case "sin":
		outer = CosOf(f.arg)
	case "cos":
		outer = MulOf(N(-1), SinOf(f.arg))
	case "tan":
		outer = AddOf(N(1), PowOf(TanOf(f.arg), N(2)))
	case "exp":
		outer = ExpOf(f.arg)
	case "ln":
		outer = PowOf(f.arg, N(-1))
	case "abs":
		outer = SignOf(f.arg)
	case "asin":
		outer = PowOf(SubOf(N(1), PowOf(f.arg, N(2))), F(-1, 2))
	case "acos":
		outer = MulOf(N(-1), PowOf(SubOf(N(1), PowOf(f.arg, N(2))), F(-1, 2)))
	case "atan":
		outer = PowOf(AddOf(N(1), PowOf(f.arg, N(2))), N(-1))
	case "sinh":
		outer = CoshOf(f.arg)
	case "cosh":
		outer = SinhOf(f.arg)
	case "tanh":
		outer = SubOf(N(1), PowOf(TanhOf(f.arg), N(2)))
	default:
		// sign, floor and ceil are piecewise constant.
		return N(0)
	}
	return MulOf(outer, du)
}

// Eval returns false when the argument is not numeric or the result is not a
// finite real (ln(-1), asin(2), exp(1000)).
func (f *Func) Eval() (*Num, bool) {
	n, ok := f.arg.Eval()
	if !ok {
		return nil, false
	}
	if f.name == "abs" {
		return numAbs(n), true
	}
	fn, known := floatFuncs[f.name]
	if !known {
		return nil, false
	}
	return numFromFloat(fn(n.Float64()))
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && f.arg.Equal(o.arg)
}

func (f *Func) FuncName() string { return f.name }
func (f *Func) Arg() Expr        { return f.arg }

// isPeriodic reports whether name is a trigonometric function whose zero set
// is infinite over the reals.
func isPeriodic(name string) bool {
	switch name {
	case "sin", "cos", "tan":
		return true
	}
	return false
}
