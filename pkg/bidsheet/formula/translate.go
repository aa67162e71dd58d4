package formula

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/efp"
)

// ErrUnsupported indicates formula syntax outside the supported
// dialect. Callers keep the raw formula and flag it for manual review.
var ErrUnsupported = errors.New("unsupported formula syntax")

func unsupportedf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUnsupported, fmt.Sprintf(format, args...))
}

var cellRefPattern = regexp.MustCompile(`^[A-Z]+[0-9]+$`)

// Translate converts a raw formula string (leading "=" optional) into
// an executable expression tree. Translation is deterministic: the
// same source yields a structurally identical tree every time.
func Translate(src string) (Expr, error) {
	body := strings.TrimSpace(src)
	body = strings.TrimPrefix(body, "=")
	if body == "" {
		return nil, unsupportedf("empty formula")
	}

	ps := efp.ExcelParser()
	raw := ps.Parse(body)
	toks := make([]efp.Token, 0, len(raw))
	for _, t := range raw {
		if t.TType == efp.TokenTypeWhitespace || t.TType == efp.TokenTypeNoop {
			continue
		}
		if t.TType == efp.TokenTypeUnknown {
			return nil, unsupportedf("unrecognized token %q", t.TValue)
		}
		toks = append(toks, t)
	}

	p := &tokenParser{toks: toks}
	expr, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if !p.eof() {
		return nil, unsupportedf("trailing token %q", p.peek().TValue)
	}
	return expr, nil
}

type tokenParser struct {
	toks []efp.Token
	pos  int
}

func (p *tokenParser) eof() bool { return p.pos >= len(p.toks) }

func (p *tokenParser) peek() efp.Token {
	if p.eof() {
		return efp.Token{}
	}
	return p.toks[p.pos]
}

func (p *tokenParser) next() efp.Token {
	t := p.peek()
	p.pos++
	return t
}

// Binding powers follow spreadsheet precedence: comparisons bind
// loosest, then concatenation, additive, multiplicative, power.
func infixPrecedence(op string) int {
	switch op {
	case "=", "<>", "<", "<=", ">", ">=":
		return 1
	case "&":
		return 2
	case "+", "-":
		return 3
	case "*", "/":
		return 4
	case "^":
		return 5
	}
	return 0
}

func (p *tokenParser) parseExpr(minPrec int) (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for !p.eof() {
		t := p.peek()
		if t.TType != efp.TokenTypeOperatorInfix {
			break
		}
		prec := infixPrecedence(t.TValue)
		if prec == 0 {
			return nil, unsupportedf("operator %q", t.TValue)
		}
		if prec < minPrec {
			break
		}
		p.next()
		right, err := p.parseExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: t.TValue, L: left, R: right}
	}
	return left, nil
}

func (p *tokenParser) parseUnary() (Expr, error) {
	if t := p.peek(); t.TType == efp.TokenTypeOperatorPrefix {
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		switch t.TValue {
		case "-":
			return &Unary{Op: "-", X: x}, nil
		case "+":
			return x, nil
		default:
			return nil, unsupportedf("prefix operator %q", t.TValue)
		}
	}
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for !p.eof() && p.peek().TType == efp.TokenTypeOperatorPostfix {
		t := p.next()
		if t.TValue != "%" {
			return nil, unsupportedf("postfix operator %q", t.TValue)
		}
		expr = &Unary{Op: "%", X: expr, Postfix: true}
	}
	return expr, nil
}

func (p *tokenParser) parsePrimary() (Expr, error) {
	if p.eof() {
		return nil, unsupportedf("unexpected end of formula")
	}
	t := p.next()

	switch t.TType {
	case efp.TokenTypeOperand:
		return operandExpr(t)
	case efp.TokenTypeFunction:
		if t.TSubType != efp.TokenSubTypeStart {
			return nil, unsupportedf("unexpected function token %q", t.TValue)
		}
		return p.parseCall(strings.ToUpper(t.TValue))
	case efp.TokenTypeSubexpression:
		if t.TSubType != efp.TokenSubTypeStart {
			return nil, unsupportedf("unexpected parenthesis")
		}
		inner, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		end := p.next()
		if end.TType != efp.TokenTypeSubexpression || end.TSubType != efp.TokenSubTypeStop {
			return nil, unsupportedf("unbalanced parenthesis")
		}
		return inner, nil
	}
	return nil, unsupportedf("unexpected token %q", t.TValue)
}

// parseCall consumes arguments up to the matching function stop token.
func (p *tokenParser) parseCall(name string) (Expr, error) {
	call := &Call{Fn: name}
	// Zero-argument call: function stop immediately follows.
	if t := p.peek(); t.TType == efp.TokenTypeFunction && t.TSubType == efp.TokenSubTypeStop {
		p.next()
		return call, nil
	}
	for {
		// An empty argument slot reads as a blank literal.
		if t := p.peek(); t.TType == efp.TokenTypeArgument ||
			(t.TType == efp.TokenTypeFunction && t.TSubType == efp.TokenSubTypeStop) {
			call.Args = append(call.Args, &Literal{Val: nil})
		} else {
			arg, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
		}
		t := p.next()
		if t.TType == efp.TokenTypeArgument {
			continue
		}
		if t.TType == efp.TokenTypeFunction && t.TSubType == efp.TokenSubTypeStop {
			return call, nil
		}
		return nil, unsupportedf("unexpected token %q in %s arguments", t.TValue, name)
	}
}

func operandExpr(t efp.Token) (Expr, error) {
	switch t.TSubType {
	case efp.TokenSubTypeNumber:
		d, err := decimal.NewFromString(t.TValue)
		if err != nil {
			return nil, unsupportedf("bad number %q", t.TValue)
		}
		return &Literal{Val: d}, nil
	case efp.TokenSubTypeText:
		return &Literal{Val: t.TValue}, nil
	case efp.TokenSubTypeLogical:
		return &Literal{Val: strings.EqualFold(t.TValue, "TRUE")}, nil
	case efp.TokenSubTypeError:
		if t.TValue == "#N/A" {
			return &Literal{Val: NotAvailable{}}, nil
		}
		return nil, unsupportedf("error literal %q", t.TValue)
	case efp.TokenSubTypeRange:
		return refExpr(t.TValue)
	}
	return nil, unsupportedf("operand %q", t.TValue)
}

// refExpr classifies a range-subtype operand as a cell reference, a
// rectangular range, or a defined name.
func refExpr(raw string) (Expr, error) {
	sheet := ""
	rest := raw
	if i := strings.LastIndex(rest, "!"); i >= 0 {
		sheet = strings.Trim(rest[:i], "'")
		rest = rest[i+1:]
	}
	rest = strings.ReplaceAll(rest, "$", "")

	if start, end, ok := strings.Cut(rest, ":"); ok {
		start = strings.ToUpper(start)
		end = strings.ToUpper(end)
		if !cellRefPattern.MatchString(start) || !cellRefPattern.MatchString(end) {
			return nil, unsupportedf("range reference %q", raw)
		}
		return &RangeRef{Sheet: sheet, Start: start, End: end}, nil
	}

	if ref := strings.ToUpper(rest); cellRefPattern.MatchString(ref) {
		return &CellRef{Sheet: sheet, Ref: ref}, nil
	}

	// Not cell-shaped: a defined name, usable as a lookup-table
	// reference.
	if sheet != "" {
		return nil, unsupportedf("reference %q", raw)
	}
	return &NameRef{Name: rest}, nil
}
