package symbolic

// ============================================================
// Top-level convenience functions
// ============================================================

func Simplify(e Expr) Expr { return e.Simplify() }

func Sub(expr Expr, varName string, value Expr) Expr {
	return expr.Sub(varName, value).Simplify()
}

func Diff(expr Expr, varName string) Expr {
	return expr.Diff(varName).Simplify()
}

func Diff2(expr Expr, varName string) Expr {
	return Diff(Diff(expr, varName), varName)
}

func DiffN(expr Expr, varName string, n int) Expr {
	result := expr
	for i := 0; i < n; i++ {
		result = Diff(result, varName)
	}
	return result
}

// ============================================================
// Free Symbols
// ============================================================

func FreeSymbols(e Expr) map[string]struct{} {
	result := map[string]struct{}{}
	collectSymbols(e, result)
	return result
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	case *Func:
		collectSymbols(v.arg, out)
	}
}

// HasVar reports whether varName occurs free in e.
func HasVar(e Expr, varName string) bool {
	switch v := e.(type) {
	case *Sym:
		return v.name == varName
	case *Add:
		for _, t := range v.terms {
			if HasVar(t, varName) {
				return true
			}
		}
	case *Mul:
		for _, f := range v.factors {
			if HasVar(f, varName) {
				return true
			}
		}
	case *Pow:
		return HasVar(v.base, varName) || HasVar(v.exp, varName)
	case *Func:
		return HasVar(v.arg, varName)
	}
	return false
}

// FreeVar returns the single free symbol of e, if there is exactly one.
func FreeVar(e Expr) (string, bool) {
	syms := FreeSymbols(e)
	if len(syms) != 1 {
		return "", false
	}
	for name := range syms {
		return name, true
	}
	return "", false
}

// ============================================================
// Expansion
// ============================================================

const (
	maxExpandPower = 16
	maxExpandTerms = 4096
)

// Expand distributes products over sums and raises sums to non-negative
// integer powers. Expansions that would exceed maxExpandTerms terms are left
// factored.
func Expand(e Expr) Expr { return expandExpr(e.Simplify()) }

func expandExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Add:
		newTerms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			newTerms[i] = expandExpr(t)
		}
		return AddOf(newTerms...)
	case *Mul:
		result := Expr(N(1))
		for _, f := range v.factors {
			result = distribute(result, expandExpr(f))
		}
		return result
	case *Pow:
		base := expandExpr(v.base)
		n, ok := v.exp.(*Num)
		if !ok || !n.IsInteger() {
			return PowOf(base, v.exp)
		}
		k := n.val.Num().Int64()
		if _, isSum := base.(*Add); !isSum || k < 2 || k > maxExpandPower {
			return PowOf(base, v.exp)
		}
		result := Expr(N(1))
		for i := int64(0); i < k; i++ {
			result = distribute(result, base)
		}
		return result
	}
	return e
}

func distribute(a, b Expr) Expr {
	ta, tb := termsOf(a), termsOf(b)
	if len(ta)*len(tb) > maxExpandTerms {
		return MulOf(a, b)
	}
	out := make([]Expr, 0, len(ta)*len(tb))
	for _, x := range ta {
		for _, y := range tb {
			out = append(out, MulOf(x, y))
		}
	}
	return AddOf(out...)
}

func termsOf(e Expr) []Expr {
	if a, ok := e.(*Add); ok {
		return a.terms
	}
	return []Expr{e}
}
