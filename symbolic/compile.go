package symbolic

import "math"

// Compile turns e into a float64 evaluator in varName. Undefined points come
// back as NaN or ±Inf; the evaluator never panics. Other free symbols
// evaluate to NaN.
func Compile(e Expr, varName string) func(float64) float64 {
	return compileExpr(e, varName)
}

func compileExpr(e Expr, varName string) func(float64) float64 {
	switch v := e.(type) {
	case *Num:
		c := v.Float64()
		return func(float64) float64 { return c }
	case *Const:
		c := v.value
		return func(float64) float64 { return c }
	case *Sym:
		if v.name != varName {
			return func(float64) float64 { return math.NaN() }
		}
		return func(x float64) float64 { return x }
	case *Add:
		terms := make([]func(float64) float64, len(v.terms))
		for i, t := range v.terms {
			terms[i] = compileExpr(t, varName)
		}
		return func(x float64) float64 {
			acc := 0.0
			for _, t := range terms {
				acc += t(x)
			}
			return acc
		}
	case *Mul:
		factors := make([]func(float64) float64, len(v.factors))
		for i, f := range v.factors {
			factors[i] = compileExpr(f, varName)
		}
		return func(x float64) float64 {
			acc := 1.0
			for _, f := range factors {
				acc *= f(x)
			}
			return acc
		}
	case *Pow:
		return compilePow(v, varName)
	case *Func:
		arg := compileExpr(v.arg, varName)
		fn, ok := floatFuncs[v.name]
		if !ok {
			return func(float64) float64 { return math.NaN() }
		}
		return func(x float64) float64 { return fn(arg(x)) }
	}
	return func(float64) float64 { return math.NaN() }
}

func compilePow(p *Pow, varName string) func(float64) float64 {
	base := compileExpr(p.base, varName)
	if en, ok := p.exp.(*Num); ok {
		if en.IsInteger() && en.val.Num().IsInt64() {
			k := float64(en.val.Num().Int64())
			if k == -1 {
				return func(x float64) float64 {
					b := base(x)
					if b == 0 {
						return math.NaN()
					}
					return 1 / b
				}
			}
			return func(x float64) float64 { return safePow(base(x), k) }
		}
		k := en.Float64()
		return func(x float64) float64 { return safePow(base(x), k) }
	}
	exp := compileExpr(p.exp, varName)
	return func(x float64) float64 { return safePow(base(x), exp(x)) }
}

// safePow is math.Pow with division by zero reported as NaN rather than an
// infinity, so that x^-2 at 0 reads as undefined.
func safePow(b, k float64) float64 {
	if b == 0 && k < 0 {
		return math.NaN()
	}
	return math.Pow(b, k)
}
