package formula

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Call is a function invocation node. IF and IFERROR evaluate their
// branches lazily so the untaken branch of a guard like
// IF(x=0, 0, 100/x) can never fault the evaluation.
type Call struct {
	Fn   string
	Args []Expr
}

func (n *Call) Eval(ctx *Context) (Value, error) {
	v, err := n.eval(ctx)
	if err != nil {
		return nil, err
	}
	ctx.trace(n.String(), v)
	return v, nil
}

func (n *Call) eval(ctx *Context) (Value, error) {
	switch n.Fn {
	case "IF":
		return n.evalIf(ctx)
	case "IFERROR":
		return n.evalIfError(ctx)
	case "VLOOKUP":
		return n.evalVlookup(ctx)
	}

	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		v, err := a.Eval(ctx)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	switch n.Fn {
	case "SUM":
		return evalSum(args)
	case "ROUND":
		return evalRound(args)
	case "CONCATENATE":
		var b strings.Builder
		for _, a := range args {
			b.WriteString(ToString(a))
		}
		return b.String(), nil
	default:
		return nil, errName("unsupported function " + n.Fn)
	}
}

func (n *Call) evalIf(ctx *Context) (Value, error) {
	if len(n.Args) < 2 || len(n.Args) > 3 {
		return nil, errValue("IF takes 2 or 3 arguments")
	}
	cond, err := n.Args[0].Eval(ctx)
	if err != nil {
		return nil, err
	}
	b, err := ToBool(cond)
	if err != nil {
		return nil, err
	}
	if b {
		return n.Args[1].Eval(ctx)
	}
	if len(n.Args) == 3 {
		return n.Args[2].Eval(ctx)
	}
	return false, nil
}

func (n *Call) evalIfError(ctx *Context) (Value, error) {
	if len(n.Args) != 2 {
		return nil, errValue("IFERROR takes 2 arguments")
	}
	v, err := n.Args[0].Eval(ctx)
	if err == nil && !IsNA(v) {
		return v, nil
	}
	return n.Args[1].Eval(ctx)
}

func (n *Call) evalVlookup(ctx *Context) (Value, error) {
	if len(n.Args) < 3 || len(n.Args) > 4 {
		return nil, errValue("VLOOKUP takes 3 or 4 arguments")
	}
	if ctx.Tables == nil {
		return nil, errName("no lookup tables loaded")
	}

	keyVal, err := n.Args[0].Eval(ctx)
	if err != nil {
		return nil, err
	}
	key := LookupKey(keyVal)

	// The table argument is not evaluated: its reference text selects
	// the registered lookup table.
	tableRef := n.Args[1].String()

	colVal, err := n.Args[2].Eval(ctx)
	if err != nil {
		return nil, err
	}
	colDec, err := ToDecimal(colVal)
	if err != nil {
		return nil, err
	}
	col := int(colDec.IntPart())

	// Approximate match is the spreadsheet default; a false fourth
	// argument requests exact match.
	exact := false
	if len(n.Args) == 4 {
		rangeLookup, err := n.Args[3].Eval(ctx)
		if err != nil {
			return nil, err
		}
		b, err := ToBool(rangeLookup)
		if err != nil {
			return nil, err
		}
		exact = !b
	}

	v, ok := ctx.Tables.Match(tableRef, key, col, exact)
	if !ok {
		return NotAvailable{}, nil
	}
	return v, nil
}

// LookupKey renders a lookup key, joining composite multi-cell keys
// with single spaces to match the workbook's `&" "&` idiom.
func LookupKey(v Value) string {
	if parts, ok := v.([]Value); ok {
		strs := make([]string, len(parts))
		for i, p := range parts {
			strs[i] = ToString(p)
		}
		return strings.Join(strs, " ")
	}
	return ToString(v)
}

// evalSum flattens range arguments and sums every numeric value,
// counting empty cells as zero.
func evalSum(args []Value) (Value, error) {
	total := decimal.Zero
	var add func(v Value) error
	add = func(v Value) error {
		if seq, ok := v.([]Value); ok {
			for _, item := range seq {
				if err := add(item); err != nil {
					return err
				}
			}
			return nil
		}
		if v == nil {
			return nil
		}
		d, err := ToDecimal(v)
		if err != nil {
			return err
		}
		total = total.Add(d)
		return nil
	}
	for _, a := range args {
		if err := add(a); err != nil {
			return nil, err
		}
	}
	return total, nil
}

func evalRound(args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, errValue("ROUND takes 2 arguments")
	}
	d, err := ToDecimal(args[0])
	if err != nil {
		return nil, err
	}
	digits, err := ToDecimal(args[1])
	if err != nil {
		return nil, err
	}
	return d.Round(int32(digits.IntPart())), nil
}

func (n *Call) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return n.Fn + "(" + strings.Join(parts, ",") + ")"
}
