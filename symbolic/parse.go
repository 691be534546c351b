package symbolic

import (
	"fmt"
	"math/big"
	"strings"
)

// ParseError reports malformed input. Pos is the byte offset of the offending
// token in Input.
type ParseError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %s at position %d", e.Input, e.Msg, e.Pos)
}

const maxParseDepth = 200

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// funcNames lists every function the parser accepts, mapped to its
// constructor. Aliases resolve to the same node.
var funcNames = map[string]func(Expr) Expr{
	"sin": SinOf, "cos": CosOf, "tan": TanOf,
	"exp": ExpOf, "ln": LnOf, "log": LnOf,
	"sqrt": SqrtOf, "abs": AbsOf,
	"asin": AsinOf, "acos": AcosOf, "atan": AtanOf,
	"arcsin": AsinOf, "arccos": AcosOf, "arctan": AtanOf,
	"sinh": SinhOf, "cosh": CoshOf, "tanh": TanhOf,
	"floor": FloorOf, "ceil": CeilOf, "sign": SignOf,
}

// Parse reads an infix expression in at most one free variable.
//
// Supported syntax: + - * / ^ (and ** for ^), unary minus, parentheses,
// implicit multiplication (3x, 2(x+1), x(x+1)), decimal and scientific
// literals (kept as exact rationals), the constants pi and e, and the
// functions in funcNames. Every failure is a *ParseError.
func Parse(input string) (Expr, error) {
	toks, err := tokenize(input)
	if err != nil {
		return nil, err
	}
	p := &parser{input: input, tokens: toks}
	if p.peek().kind == tokEOF {
		return nil, p.errorf(0, "empty expression")
	}
	e, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		if t.kind == tokRParen {
			return nil, p.errorf(t.pos, "unbalanced ')'")
		}
		return nil, p.errorf(t.pos, "unexpected %q", t.text)
	}
	return e, nil
}

// MustParse is Parse for literals known to be valid; it panics otherwise.
func MustParse(input string) Expr {
	e, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return e
}

type parser struct {
	input   string
	tokens  []token
	current int
	depth   int
	varName string
}

func (p *parser) peek() token { return p.tokens[p.current] }

func (p *parser) next() token {
	t := p.tokens[p.current]
	if t.kind != tokEOF {
		p.current++
	}
	return t
}

func (p *parser) errorf(pos int, format string, args ...any) *ParseError {
	return &ParseError{Input: p.input, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// binaryPrecedence returns the precedence of the operator starting at t and
// whether it is an implicit multiplication (nothing to consume).
func binaryPrecedence(t token) (prec int, op string, implicit bool) {
	switch t.kind {
	case tokOp:
		switch t.text {
		case "+", "-":
			return 1, t.text, false
		case "*", "/":
			return 2, t.text, false
		case "^":
			return 4, t.text, false
		}
	case tokIdent, tokLParen:
		return 2, "*", true
	}
	return -1, "", false
}

// parseExpression is precedence climbing: + - bind at 1, * / and implicit
// products at 2, unary minus at 3, ^ at 4 (right associative).
func (p *parser) parseExpression(minPrec int) (Expr, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxParseDepth {
		return nil, p.errorf(p.peek().pos, "expression nested too deeply")
	}

	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		prec, op, implicit := binaryPrecedence(t)
		if prec < 0 || prec < minPrec {
			return left, nil
		}
		if !implicit {
			p.next()
		}
		nextMin := prec + 1
		if op == "^" {
			nextMin = prec
		}
		right, err := p.parseExpression(nextMin)
		if err != nil {
			return nil, err
		}
		switch op {
		case "+":
			left = AddOf(left, right)
		case "-":
			left = SubOf(left, right)
		case "*":
			left = MulOf(left, right)
		case "/":
			left = DivOf(left, right)
		case "^":
			left = PowOf(left, right)
		}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	t := p.peek()
	if t.kind == tokOp && (t.text == "-" || t.text == "+") {
		p.next()
		operand, err := p.parseExpression(3)
		if err != nil {
			return nil, err
		}
		if t.text == "-" {
			return negate(operand), nil
		}
		return operand, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		text := t.text
		if strings.HasPrefix(text, ".") {
			text = "0" + text
		}
		text = strings.Replace(text, ".e", ".0e", 1)
		text = strings.Replace(text, ".E", ".0E", 1)
		if strings.HasSuffix(text, ".") {
			text += "0"
		}
		r, ok := new(big.Rat).SetString(text)
		if !ok {
			return nil, p.errorf(t.pos, "invalid number %q", t.text)
		}
		return &Num{val: r}, nil

	case tokIdent:
		switch t.text {
		case "pi":
			return Pi(), nil
		case "e":
			return E(), nil
		}
		if ctor, ok := funcNames[t.text]; ok {
			return p.parseFunctionCall(t, ctor)
		}
		if !isVariableName(t.text) {
			return nil, p.errorf(t.pos, "unknown identifier %q", t.text)
		}
		if p.varName != "" && p.varName != t.text {
			return nil, p.errorf(t.pos, "more than one free variable (%s, %s)", p.varName, t.text)
		}
		p.varName = t.text
		return S(t.text), nil

	case tokLParen:
		inner, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, p.errorf(closing.pos, "unbalanced '(' opened at position %d", t.pos)
		}
		return inner, nil

	case tokEOF:
		return nil, p.errorf(t.pos, "unexpected end of input")
	case tokRParen:
		return nil, p.errorf(t.pos, "unbalanced ')'")
	default:
		return nil, p.errorf(t.pos, "unexpected %q", t.text)
	}
}

func (p *parser) parseFunctionCall(name token, ctor func(Expr) Expr) (Expr, error) {
	if open := p.next(); open.kind != tokLParen {
		return nil, p.errorf(open.pos, "expected '(' after %s", name.text)
	}
	arg, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	switch closing := p.next(); closing.kind {
	case tokRParen:
		return ctor(arg), nil
	case tokComma:
		return nil, p.errorf(closing.pos, "%s takes exactly one argument", name.text)
	default:
		return nil, p.errorf(closing.pos, "unbalanced '(' in call to %s", name.text)
	}
}

// isVariableName accepts a single letter optionally followed by digits or
// underscores (x, t, x1, x_0).
func isVariableName(s string) bool {
	if s == "" || !isLetter(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isDigit(s[i]) && s[i] != '_' {
			return false
		}
	}
	return true
}

// ============================================================
// Tokenizer
// ============================================================

func tokenize(input string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isDigit(c) || (c == '.' && i+1 < len(input) && isDigit(input[i+1])):
			end := readNumber(input, i)
			toks = append(toks, token{kind: tokNumber, text: input[i:end], pos: i})
			i = end
		case isLetter(c):
			end := i
			for end < len(input) && (isLetter(input[end]) || isDigit(input[end]) || input[end] == '_') {
				end++
			}
			toks = append(toks, token{kind: tokIdent, text: strings.ToLower(input[i:end]), pos: i})
			i = end
		case c == '*' && i+1 < len(input) && input[i+1] == '*':
			toks = append(toks, token{kind: tokOp, text: "^", pos: i})
			i += 2
		case strings.IndexByte("+-*/^", c) >= 0:
			toks = append(toks, token{kind: tokOp, text: string(c), pos: i})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		case c == ',':
			toks = append(toks, token{kind: tokComma, text: ",", pos: i})
			i++
		default:
			return nil, &ParseError{Input: input, Pos: i, Msg: fmt.Sprintf("unexpected character %q", c)}
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(input)}), nil
}

// readNumber scans digits with an optional fraction and an optional exponent.
// The exponent marker is only consumed when digits follow, so 2e reads as
// 2 times the constant e.
func readNumber(input string, start int) int {
	i := start
	for i < len(input) && isDigit(input[i]) {
		i++
	}
	if i < len(input) && input[i] == '.' {
		i++
		for i < len(input) && isDigit(input[i]) {
			i++
		}
	}
	if i < len(input) && (input[i] == 'e' || input[i] == 'E') {
		j := i + 1
		if j < len(input) && (input[j] == '+' || input[j] == '-') {
			j++
		}
		if j < len(input) && isDigit(input[j]) {
			for j < len(input) && isDigit(input[j]) {
				j++
			}
			i = j
		}
	}
	return i
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
