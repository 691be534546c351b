package symbolic_test

import (
	"math"
	"math/big"
	"testing"

	"github.com/njchilds90/plotsense/symbolic"
)

func solutionStrings(res symbolic.SolveResult) []string {
	out := make([]string, len(res.Solutions))
	for i, s := range res.Solutions {
		out[i] = s.String()
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ============================================================
// Calculus tests
// ============================================================

func TestDiff_Polynomial(t *testing.T) {
	f := symbolic.MustParse("x^3 - 3x")
	if got := symbolic.Diff(f, "x").String(); got != "3*x^2 - 3" {
		t.Errorf("want 3*x^2 - 3, got %s", got)
	}
	if got := symbolic.Diff2(f, "x").String(); got != "6*x" {
		t.Errorf("want 6*x, got %s", got)
	}
}

func TestDiff_ChainRule(t *testing.T) {
	f := symbolic.MustParse("sin(x^2)")
	if got := symbolic.Diff(f, "x").String(); got != "2*cos(x^2)*x" {
		t.Errorf("want 2*cos(x^2)*x, got %s", got)
	}
}

func TestDiff_Abs(t *testing.T) {
	if got := symbolic.Diff(symbolic.MustParse("abs(x)"), "x").String(); got != "sign(x)" {
		t.Errorf("want sign(x), got %s", got)
	}
}

func TestExpand_DifferenceOfSquares(t *testing.T) {
	e := symbolic.Expand(symbolic.MustParse("(x+1)*(x-1)"))
	if e.String() != "x^2 - 1" {
		t.Errorf("want x^2 - 1, got %s", e.String())
	}
}

func TestFreeVar(t *testing.T) {
	name, ok := symbolic.FreeVar(symbolic.MustParse("t^2 + sin(t)"))
	if !ok || name != "t" {
		t.Errorf("want t, got %q (%v)", name, ok)
	}
	if _, ok := symbolic.FreeVar(symbolic.MustParse("pi + 1")); ok {
		t.Error("constant expression has no free variable")
	}
}

// ============================================================
// Polynomial tests
// ============================================================

func TestToPoly_Square(t *testing.T) {
	p, ok := symbolic.ToPoly(symbolic.MustParse("(x+1)^2"), "x")
	if !ok {
		t.Fatal("(x+1)^2 should be a polynomial")
	}
	if p.Degree() != 2 {
		t.Fatalf("want degree 2, got %d", p.Degree())
	}
	for i, want := range []int64{1, 2, 1} {
		if p.Coeff(i).Cmp(big.NewRat(want, 1)) != 0 {
			t.Errorf("coefficient %d: want %d, got %s", i, want, p.Coeff(i).RatString())
		}
	}
}

func TestToPoly_Rejects(t *testing.T) {
	for _, in := range []string{"sin(x)", "1/x", "sqrt(x)", "2^x"} {
		if _, ok := symbolic.ToPoly(symbolic.MustParse(in), "x"); ok {
			t.Errorf("%s should not be a polynomial", in)
		}
	}
}

func TestPoly_DivMod(t *testing.T) {
	num, _ := symbolic.ToPoly(symbolic.MustParse("x^2 + 1"), "x")
	den, _ := symbolic.ToPoly(symbolic.MustParse("x"), "x")
	q, r := num.DivMod(den)
	if got := q.Expr("x").String(); got != "x" {
		t.Errorf("quotient: want x, got %s", got)
	}
	if got := r.Expr("x").String(); got != "1" {
		t.Errorf("remainder: want 1, got %s", got)
	}
}

func TestNumerDenom(t *testing.T) {
	cases := []struct{ in, num, den string }{
		{"x + 1/x", "x^2 + 1", "x"},
		{"1/(x-2)", "1", "x - 2"},
		{"sin(x)", "sin(x)", "1"},
		{"3/4", "3", "4"},
	}
	for _, c := range cases {
		n, d := symbolic.NumerDenom(symbolic.MustParse(c.in))
		if n.String() != c.num || d.String() != c.den {
			t.Errorf("NumerDenom(%s): want (%s, %s), got (%s, %s)", c.in, c.num, c.den, n.String(), d.String())
		}
	}
}

// ============================================================
// Solver tests
// ============================================================

func TestSolveReal_Exact(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"x^2 - 2", []string{"-sqrt(2)", "sqrt(2)"}},
		{"x^2 - 4", []string{"-2", "2"}},
		{"x^2 + 1", []string{}},
		{"(x^2-4)/(x-2)", []string{"-2"}},
		{"exp(x) - 2", []string{"ln(2)"}},
		{"x*exp(x)", []string{"0"}},
		{"sqrt(x) - 3", []string{"9"}},
		{"x^4 - 5x^2 + 4", []string{"-2", "-1", "1", "2"}},
		{"1/(x-2)", []string{}},
		{"abs(x) - 1", []string{"-1", "1"}},
	}
	for _, c := range cases {
		res := symbolic.SolveReal(symbolic.MustParse(c.in), "x")
		got := solutionStrings(res)
		if !equalStrings(got, c.want) {
			t.Errorf("SolveReal(%s): want %v, got %v", c.in, c.want, got)
		}
		if !res.Complete {
			t.Errorf("SolveReal(%s): want a complete solution set", c.in)
		}
	}
}

func TestSolveReal_Periodic(t *testing.T) {
	res := symbolic.SolveReal(symbolic.MustParse("sin(x)"), "x")
	if res.Complete {
		t.Error("sin(x) = 0 has no finite closed solution set")
	}
}

func TestSolveReal_CubicNumeric(t *testing.T) {
	res := symbolic.SolveReal(symbolic.MustParse("x^3 - 2"), "x")
	if len(res.Solutions) != 0 || len(res.Approx) != 1 {
		t.Fatalf("want one approximate root, got %v / %v", solutionStrings(res), res.Approx)
	}
	if math.Abs(res.Approx[0]-math.Cbrt(2)) > 1e-9 {
		t.Errorf("want %v, got %v", math.Cbrt(2), res.Approx[0])
	}
}

func TestSolveReal_Quintic(t *testing.T) {
	res := symbolic.SolveReal(symbolic.MustParse("x^5 - x - 1"), "x")
	if len(res.Approx) != 1 {
		t.Fatalf("want one real root, got %v", res.Approx)
	}
	if math.Abs(res.Approx[0]-1.1673039782614187) > 1e-9 {
		t.Errorf("want 1.1673039782614187, got %v", res.Approx[0])
	}
}

// ============================================================
// Limit tests
// ============================================================

func TestLimit_Removable(t *testing.T) {
	cases := []struct {
		in    string
		point int64
		want  float64
	}{
		{"sin(x)/x", 0, 1},
		{"(x^2-4)/(x-2)", 2, 4},
		{"x^2 + 1", 3, 10},
		{"(1 - cos(x))/x^2", 0, 0.5},
	}
	for _, c := range cases {
		res := symbolic.Limit(symbolic.MustParse(c.in), "x", symbolic.N(c.point))
		v, ok := res.Float()
		if !ok || math.Abs(v-c.want) > 1e-12 {
			t.Errorf("lim %s at %d: want %v, got %v (%v)", c.in, c.point, c.want, v, res.Error)
		}
	}
}

func TestLimit_Pole(t *testing.T) {
	res := symbolic.Limit(symbolic.MustParse("1/(x-2)"), "x", symbolic.N(2))
	if res.Success {
		t.Errorf("1/(x-2) has no finite limit at 2, got %s", res.Value.String())
	}
}

func TestLimitAtInfinity(t *testing.T) {
	cases := []struct {
		in   string
		sign int
		kind symbolic.LimitKind
		want float64
	}{
		{"1/(x-2)", 1, symbolic.LimitFinite, 0},
		{"(2x^2+1)/(x^2-3)", -1, symbolic.LimitFinite, 2},
		{"x + 1/x", 1, symbolic.LimitPosInf, 0},
		{"x + 1/x", -1, symbolic.LimitNegInf, 0},
		{"exp(-x)", 1, symbolic.LimitFinite, 0},
		{"atan(x)", 1, symbolic.LimitFinite, math.Pi / 2},
		{"ln(x)", 1, symbolic.LimitPosInf, 0},
		{"sin(x)", 1, symbolic.LimitNone, 0},
	}
	for _, c := range cases {
		got := symbolic.LimitAtInfinity(symbolic.MustParse(c.in), "x", c.sign)
		if got.Kind != c.kind {
			t.Errorf("%s at %d·inf: want %v, got %v", c.in, c.sign, c.kind, got.Kind)
			continue
		}
		if c.kind == symbolic.LimitFinite && math.Abs(got.Value-c.want) > 1e-9 {
			t.Errorf("%s at %d·inf: want %v, got %v", c.in, c.sign, c.want, got.Value)
		}
	}
}
