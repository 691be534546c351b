package symbolic_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/njchilds90/plotsense/symbolic"
)

// ============================================================
// Parser tests
// ============================================================

func TestParse_Canonical(t *testing.T) {
	cases := []struct{ in, want string }{
		{"x^2 - 4", "x^2 - 4"},
		{"3x", "3*x"},
		{"2(x+1)", "2*(x + 1)"},
		{"x(x+1)", "x*(x + 1)"},
		{"x**2", "x^2"},
		{"2^3^2", "512"},
		{"-x^2", "-x^2"},
		{"1.5x", "3*x/2"},
		{"1e-3", "1/1000"},
		{"sqrt(4)", "2"},
		{"log(x)", "ln(x)"},
		{"2e", "2*e"},
		{"pi", "pi"},
		{"1 + x", "x + 1"},
		{"x - (x - 1)", "1"},
		{"arcsin(t)", "asin(t)"},
	}
	for _, c := range cases {
		e, err := symbolic.Parse(c.in)
		if err != nil {
			t.Errorf("Parse(%q): unexpected error %v", c.in, err)
			continue
		}
		if e.String() != c.want {
			t.Errorf("Parse(%q): want %s, got %s", c.in, c.want, e.String())
		}
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		in      string
		wantMsg string
	}{
		{"", "empty expression"},
		{"   ", "empty expression"},
		{"x +", "unexpected end of input"},
		{"(x", "unbalanced '('"},
		{"x)", "unbalanced ')'"},
		{"foo(x)", "unknown identifier"},
		{"x + y", "more than one free variable"},
		{"sin(x, 2)", "exactly one argument"},
		{"2 3", "unexpected"},
		{"x $ 1", "unexpected character"},
		{"sin x", "expected '('"},
	}
	for _, c := range cases {
		_, err := symbolic.Parse(c.in)
		var pe *symbolic.ParseError
		if !errors.As(err, &pe) {
			t.Errorf("Parse(%q): want *ParseError, got %v", c.in, err)
			continue
		}
		if !strings.Contains(pe.Msg, c.wantMsg) {
			t.Errorf("Parse(%q): want message containing %q, got %q", c.in, c.wantMsg, pe.Msg)
		}
	}
}

func TestParse_ErrorPosition(t *testing.T) {
	_, err := symbolic.Parse("x + y")
	var pe *symbolic.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("want *ParseError, got %v", err)
	}
	if pe.Pos != 4 {
		t.Errorf("want position 4, got %d", pe.Pos)
	}
}

func TestParse_DeepNesting(t *testing.T) {
	in := strings.Repeat("(", 500) + "x" + strings.Repeat(")", 500)
	if _, err := symbolic.Parse(in); err == nil {
		t.Error("deeply nested input should be rejected")
	}
}

func TestMustParse_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse should panic on invalid input")
		}
	}()
	symbolic.MustParse("(")
}

// ============================================================
// Compile tests
// ============================================================

func TestCompile_Values(t *testing.T) {
	f := symbolic.Compile(symbolic.MustParse("x^2 + 1"), "x")
	if got := f(3); got != 10 {
		t.Errorf("want 10, got %v", got)
	}
}

func TestCompile_UndefinedPoints(t *testing.T) {
	cases := []struct {
		in string
		x  float64
	}{
		{"1/(x-2)", 2},
		{"ln(x)", -1},
		{"sqrt(x)", -1},
		{"x^-2", 0},
	}
	for _, c := range cases {
		v := symbolic.Compile(symbolic.MustParse(c.in), "x")(c.x)
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			t.Errorf("%s at %v: want non-finite, got %v", c.in, c.x, v)
		}
	}
}
