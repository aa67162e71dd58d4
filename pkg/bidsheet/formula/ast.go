package formula

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// TableResolver resolves a lookup-table reference and performs a row
// match. ok is false when no row matches (a #N/A, not a failure).
type TableResolver interface {
	Match(tableRef, key string, colIndex int, exact bool) (Value, bool)
}

// Context supplies live cell values and lookup tables for one
// evaluation. A Context is owned by a single evaluation and never
// shared, so repeated evaluations cannot contaminate each other.
type Context struct {
	// Sheet is the sheet that bare cell references resolve against.
	Sheet string
	// Cells maps "Sheet!REF" keys, bare "REF" keys, and named inputs to
	// live values.
	Cells map[string]Value
	// Tables resolves VLOOKUP table references. May be nil when the
	// formula set contains no lookups.
	Tables TableResolver
	// Trace, when set, receives each sub-expression result in
	// evaluation order.
	Trace func(expr string, v Value)
}

// CellValue returns the live value for a reference, preferring the
// sheet-qualified key. Unknown coordinates read as zero, matching the
// blank-cell contract of the workbook.
func (c *Context) CellValue(sheet, ref string) Value {
	if sheet == "" {
		sheet = c.Sheet
	}
	if sheet != "" {
		if v, ok := c.Cells[sheet+"!"+ref]; ok {
			return v
		}
	}
	if v, ok := c.Cells[ref]; ok {
		return v
	}
	return int64(0)
}

func (c *Context) trace(expr string, v Value) {
	if c.Trace != nil {
		c.Trace(expr, v)
	}
}

// Expr is a node of a translated formula. Trees are immutable after
// translation and safe to share across concurrent evaluations.
type Expr interface {
	// Eval computes the node value against a live context.
	Eval(ctx *Context) (Value, error)
	// String renders the canonical formula text of the node. Two
	// structurally identical trees render identically.
	String() string
}

// Literal is a number, string, boolean, or error constant.
type Literal struct {
	Val Value
}

func (n *Literal) Eval(ctx *Context) (Value, error) { return n.Val, nil }

func (n *Literal) String() string {
	switch x := n.Val.(type) {
	case nil:
		return ""
	case string:
		return fmt.Sprintf("%q", x)
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	default:
		return ToString(n.Val)
	}
}

// CellRef is a deferred read of a single cell, resolved at evaluation
// time against the live value context.
type CellRef struct {
	// Sheet is the qualifying sheet name, empty for a same-sheet
	// reference.
	Sheet string
	// Ref is the A1 coordinate, uppercase, without absolute markers.
	Ref string
}

func (n *CellRef) Eval(ctx *Context) (Value, error) {
	return ctx.CellValue(n.Sheet, n.Ref), nil
}

func (n *CellRef) String() string { return qualify(n.Sheet, n.Ref) }

// RangeRef is a rectangular cell range. It evaluates to the flattened
// slice of cell values in row-major order.
type RangeRef struct {
	Sheet string
	// Start and End are the corner coordinates.
	Start string
	End   string
}

func (n *RangeRef) Eval(ctx *Context) (Value, error) {
	c1, r1, err := excelize.CellNameToCoordinates(n.Start)
	if err != nil {
		return nil, errValue("bad range start " + n.Start)
	}
	c2, r2, err := excelize.CellNameToCoordinates(n.End)
	if err != nil {
		return nil, errValue("bad range end " + n.End)
	}
	if c2 < c1 {
		c1, c2 = c2, c1
	}
	if r2 < r1 {
		r1, r2 = r2, r1
	}
	var out []Value
	for r := r1; r <= r2; r++ {
		for c := c1; c <= c2; c++ {
			ref, _ := excelize.CoordinatesToCellName(c, r)
			out = append(out, ctx.CellValue(n.Sheet, ref))
		}
	}
	return out, nil
}

func (n *RangeRef) String() string {
	return qualify(n.Sheet, n.Start+":"+n.End)
}

// NameRef is a defined-name operand, such as a named lookup range. It
// carries no value of its own; it is meaningful only as a VLOOKUP
// table reference.
type NameRef struct {
	Name string
}

func (n *NameRef) Eval(ctx *Context) (Value, error) {
	return nil, errName("unresolved name " + n.Name)
}

func (n *NameRef) String() string { return n.Name }

// Unary is a prefix negation or a postfix percent.
type Unary struct {
	Op      string
	X       Expr
	Postfix bool
}

func (n *Unary) Eval(ctx *Context) (Value, error) {
	v, err := n.X.Eval(ctx)
	if err != nil {
		return nil, err
	}
	d, err := ToDecimal(v)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "-":
		return d.Neg(), nil
	case "%":
		return d.Div(decimal.NewFromInt(100)), nil
	default:
		return nil, errValue("unknown unary operator " + n.Op)
	}
}

func (n *Unary) String() string {
	if n.Postfix {
		return n.X.String() + n.Op
	}
	return n.Op + n.X.String()
}

// Binary is an infix operation: arithmetic, comparison, or the string
// concatenation operator "&".
type Binary struct {
	Op string
	L  Expr
	R  Expr
}

func (n *Binary) Eval(ctx *Context) (Value, error) {
	lv, err := n.L.Eval(ctx)
	if err != nil {
		return nil, err
	}
	rv, err := n.R.Eval(ctx)
	if err != nil {
		return nil, err
	}
	v, err := n.apply(lv, rv)
	if err != nil {
		return nil, err
	}
	ctx.trace(n.String(), v)
	return v, nil
}

func (n *Binary) apply(lv, rv Value) (Value, error) {
	if n.Op == "&" {
		return ToString(lv) + ToString(rv), nil
	}
	switch n.Op {
	case "+", "-", "*", "/", "^":
		l, err := ToDecimal(lv)
		if err != nil {
			return nil, err
		}
		r, err := ToDecimal(rv)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case "+":
			return l.Add(r), nil
		case "-":
			return l.Sub(r), nil
		case "*":
			return l.Mul(r), nil
		case "/":
			if r.IsZero() {
				return nil, errDiv0()
			}
			return l.Div(r), nil
		case "^":
			return l.Pow(r), nil
		}
	case "=", "<>", "<", "<=", ">", ">=":
		return compare(n.Op, lv, rv)
	}
	return nil, errValue("unknown operator " + n.Op)
}

func (n *Binary) String() string {
	return fmt.Sprintf("(%s%s%s)", n.L.String(), n.Op, n.R.String())
}

// compare applies a spreadsheet comparison: numeric when both sides
// coerce to numbers, otherwise case-insensitive string comparison.
func compare(op string, lv, rv Value) (Value, error) {
	var cmp int
	l, lerr := ToDecimal(lv)
	r, rerr := ToDecimal(rv)
	if lerr == nil && rerr == nil {
		cmp = l.Cmp(r)
	} else {
		cmp = strings.Compare(
			strings.ToUpper(ToString(lv)),
			strings.ToUpper(ToString(rv)),
		)
	}
	switch op {
	case "=":
		return cmp == 0, nil
	case "<>":
		return cmp != 0, nil
	case "<":
		return cmp < 0, nil
	case "<=":
		return cmp <= 0, nil
	case ">":
		return cmp > 0, nil
	case ">=":
		return cmp >= 0, nil
	}
	return nil, errValue("unknown comparison " + op)
}

// qualify renders a sheet-qualified reference, quoting sheet names
// that contain spaces.
func qualify(sheet, ref string) string {
	if sheet == "" {
		return ref
	}
	if strings.ContainsAny(sheet, " -") {
		return "'" + sheet + "'!" + ref
	}
	return sheet + "!" + ref
}
