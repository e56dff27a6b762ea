package calcengine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// evalExpression evaluates an arithmetic formula against bound variables.
// Supported: + - * / %, unary minus, parentheses, numeric literals,
// identifiers, and calls into the allow-listed math function table
// (with or without a "Math." prefix). Nothing else — no assignment, no
// indexing, no host-language escape hatch.
func evalExpression(formula string, vars map[string]float64) (float64, error) {
	toks, err := tokenize(formula)
	if err != nil {
		return 0, err
	}
	p := &parser{toks: toks, vars: vars}
	v, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if p.peek().kind != tokEOF {
		return 0, fmt.Errorf("%w: unexpected %q at position %d", ErrBadExpression, p.peek().text, p.peek().pos)
	}
	return v, nil
}

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
	num  float64
	pos  int
}

func tokenize(input string) ([]token, error) {
	var toks []token
	runes := []rune(input)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++

		case r >= '0' && r <= '9' || r == '.':
			start := i
			for i < len(runes) && (runes[i] >= '0' && runes[i] <= '9' || runes[i] == '.') {
				i++
			}
			text := string(runes[start:i])
			num, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad number %q at position %d", ErrBadExpression, text, start)
			}
			toks = append(toks, token{kind: tokNumber, text: text, num: num, pos: start})

		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_' || runes[i] == '.') {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: string(runes[start:i]), pos: start})

		case r == '+' || r == '-' || r == '*' || r == '/' || r == '%':
			toks = append(toks, token{kind: tokOp, text: string(r), pos: i})
			i++

		case r == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++

		case r == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++

		case r == ',':
			toks = append(toks, token{kind: tokComma, text: ",", pos: i})
			i++

		default:
			return nil, fmt.Errorf("%w: unexpected character %q at position %d", ErrBadExpression, string(r), i)
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(runes)})
	return toks, nil
}

// parser is a recursive-descent evaluator. Grammar:
//
//	expr    := term  { ("+" | "-") term }
//	term    := unary { ("*" | "/" | "%") unary }
//	unary   := [ "-" | "+" ] unary | primary
//	primary := number | ident | ident "(" args ")" | "(" expr ")"
type parser struct {
	toks []token
	pos  int
	vars map[string]float64
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for p.peek().kind == tokOp && (p.peek().text == "+" || p.peek().text == "-") {
		op := p.next().text
		right, err := p.parseTerm()
		if err != nil {
			return 0, err
		}
		if op == "+" {
			left += right
		} else {
			left -= right
		}
	}
	return left, nil
}

func (p *parser) parseTerm() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for p.peek().kind == tokOp && (p.peek().text == "*" || p.peek().text == "/" || p.peek().text == "%") {
		op := p.next().text
		right, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		switch op {
		case "*":
			left *= right
		case "/":
			left /= right // ±Inf is caught by the finiteness check upstream
		case "%":
			left = math.Mod(left, right)
		}
	}
	return left, nil
}

func (p *parser) parseUnary() (float64, error) {
	if p.peek().kind == tokOp && (p.peek().text == "-" || p.peek().text == "+") {
		op := p.next().text
		v, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if op == "-" {
			return -v, nil
		}
		return v, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (float64, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return t.num, nil

	case tokIdent:
		if p.peek().kind == tokLParen {
			return p.parseCall(t)
		}
		return p.resolveIdent(t)

	case tokLParen:
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if p.peek().kind != tokRParen {
			return 0, fmt.Errorf("%w: missing closing parenthesis at position %d", ErrBadExpression, p.peek().pos)
		}
		p.next()
		return v, nil

	default:
		return 0, fmt.Errorf("%w: unexpected %q at position %d", ErrBadExpression, t.text, t.pos)
	}
}

func (p *parser) parseCall(name token) (float64, error) {
	p.next() // consume "("
	var args []float64
	if p.peek().kind != tokRParen {
		for {
			v, err := p.parseExpr()
			if err != nil {
				return 0, err
			}
			args = append(args, v)
			if p.peek().kind != tokComma {
				break
			}
			p.next()
		}
	}
	if p.peek().kind != tokRParen {
		return 0, fmt.Errorf("%w: unterminated call to %q at position %d", ErrBadExpression, name.text, name.pos)
	}
	p.next()

	fn, ok := functions[stripMath(name.text)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownFunction, name.text)
	}
	return fn(name.text, args)
}

func (p *parser) resolveIdent(t token) (float64, error) {
	if v, ok := p.vars[t.text]; ok {
		return v, nil
	}
	if c, ok := constants[stripMath(t.text)]; ok {
		return c, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownIdentifier, t.text)
}

// stripMath drops the "Math." namespace so formulas written against the
// source platform's Math object keep working.
func stripMath(name string) string {
	return strings.TrimPrefix(name, "Math.")
}

var constants = map[string]float64{
	"PI": math.Pi,
	"E":  math.E,
}

type mathFunc func(name string, args []float64) (float64, error)

var functions = map[string]mathFunc{
	"sqrt":  unary1(math.Sqrt),
	"abs":   unary1(math.Abs),
	"round": unary1(math.Round),
	"floor": unary1(math.Floor),
	"ceil":  unary1(math.Ceil),
	"exp":   unary1(math.Exp),
	"log":   unary1(math.Log),
	"log10": unary1(math.Log10),
	"sin":   unary1(math.Sin),
	"cos":   unary1(math.Cos),
	"tan":   unary1(math.Tan),
	"pow": func(name string, args []float64) (float64, error) {
		if len(args) != 2 {
			return 0, arityError(name, 2, len(args))
		}
		return math.Pow(args[0], args[1]), nil
	},
	"min": variadic(math.Min),
	"max": variadic(math.Max),
}

func unary1(fn func(float64) float64) mathFunc {
	return func(name string, args []float64) (float64, error) {
		if len(args) != 1 {
			return 0, arityError(name, 1, len(args))
		}
		return fn(args[0]), nil
	}
}

func variadic(fn func(float64, float64) float64) mathFunc {
	return func(name string, args []float64) (float64, error) {
		if len(args) == 0 {
			return 0, fmt.Errorf("%w: %s requires at least one argument", ErrBadExpression, name)
		}
		acc := args[0]
		for _, v := range args[1:] {
			acc = fn(acc, v)
		}
		return acc, nil
	}
}

func arityError(name string, want, got int) error {
	return fmt.Errorf("%w: %s expects %d argument(s), got %d", ErrBadExpression, name, want, got)
}
