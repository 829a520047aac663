// Package expr evaluates the small arithmetic grammar used by parameter
// generation rules: + - * / with parentheses and unary minus, over int64,
// with identifiers bound only to already-generated parameter values. There
// is no ambient state and no function call syntax; anything outside the
// grammar is a parse error.
package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrUndefinedParameter marks a reference to a name that has not been
// generated yet (or at all) in the current pass.
var ErrUndefinedParameter = errors.New("undefined parameter")

// ErrDivisionByZero marks an integer division with a zero divisor.
var ErrDivisionByZero = errors.New("division by zero")

// Eval parses and evaluates src with identifiers resolved from vars.
// Division truncates toward zero, matching Go's integer division.
func Eval(src string, vars map[string]int64) (int64, error) {
	p := &parser{toks: nil, vars: vars}
	toks, err := tokenize(src)
	if err != nil {
		return 0, err
	}
	p.toks = toks
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	if !p.eof() {
		return 0, fmt.Errorf("expr %q: unexpected %q", src, p.peek().text)
	}
	return v, nil
}

type tokKind int

const (
	tokNumber tokKind = iota
	tokIdent
	tokOp // one of + - * / ( )
	tokEOF
)

type token struct {
	kind tokKind
	text string
}

func tokenize(src string) ([]token, error) {
	var toks []token
	rs := []rune(src)
	i := 0
	for i < len(rs) {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '+' || r == '-' || r == '*' || r == '/' || r == '(' || r == ')':
			toks = append(toks, token{tokOp, string(r)})
			i++
		case unicode.IsDigit(r):
			j := i
			for j < len(rs) && unicode.IsDigit(rs[j]) {
				j++
			}
			toks = append(toks, token{tokNumber, string(rs[i:j])})
			i = j
		case r == '_' || unicode.IsLetter(r):
			j := i
			for j < len(rs) && (rs[j] == '_' || unicode.IsLetter(rs[j]) || unicode.IsDigit(rs[j])) {
				j++
			}
			toks = append(toks, token{tokIdent, string(rs[i:j])})
			i = j
		default:
			return nil, fmt.Errorf("expr %q: invalid character %q", src, r)
		}
	}
	toks = append(toks, token{tokEOF, ""})
	return toks, nil
}

type parser struct {
	toks []token
	pos  int
	vars map[string]int64
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) eof() bool { return p.peek().kind == tokEOF }

func (p *parser) accept(op string) bool {
	if t := p.peek(); t.kind == tokOp && t.text == op {
		p.pos++
		return true
	}
	return false
}

// expr = term (("+"|"-") term)*
func (p *parser) expr() (int64, error) {
	v, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		switch {
		case p.accept("+"):
			r, err := p.term()
			if err != nil {
				return 0, err
			}
			v += r
		case p.accept("-"):
			r, err := p.term()
			if err != nil {
				return 0, err
			}
			v -= r
		default:
			return v, nil
		}
	}
}

// term = unary (("*"|"/") unary)*
func (p *parser) term() (int64, error) {
	v, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		switch {
		case p.accept("*"):
			r, err := p.unary()
			if err != nil {
				return 0, err
			}
			v *= r
		case p.accept("/"):
			r, err := p.unary()
			if err != nil {
				return 0, err
			}
			if r == 0 {
				return 0, ErrDivisionByZero
			}
			v /= r
		default:
			return v, nil
		}
	}
}

// unary = "-" unary | primary
func (p *parser) unary() (int64, error) {
	if p.accept("-") {
		v, err := p.unary()
		if err != nil {
			return 0, err
		}
		return -v, nil
	}
	return p.primary()
}

// primary = number | ident | "(" expr ")"
func (p *parser) primary() (int64, error) {
	t := p.peek()
	switch t.kind {
	case tokNumber:
		p.pos++
		v, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("number %q: %w", t.text, err)
		}
		return v, nil
	case tokIdent:
		p.pos++
		v, ok := p.vars[t.text]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrUndefinedParameter, t.text)
		}
		return v, nil
	case tokOp:
		if t.text == "(" {
			p.pos++
			v, err := p.expr()
			if err != nil {
				return 0, err
			}
			if !p.accept(")") {
				return 0, fmt.Errorf("missing closing parenthesis")
			}
			return v, nil
		}
	}
	if strings.TrimSpace(t.text) == "" {
		return 0, fmt.Errorf("unexpected end of expression")
	}
	return 0, fmt.Errorf("unexpected %q", t.text)
}
