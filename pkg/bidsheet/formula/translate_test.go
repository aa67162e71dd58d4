package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateIdempotent(t *testing.T) {
	formulas := []string{
		"=IF(A1>0,A1*2,0)",
		"=IFERROR(VLOOKUP(B3,'Paint Pricing'!$A$2:$C$40,3,FALSE),0)",
		"=SUM(A1:A10)+ROUND(B2/C2,2)",
		`=A1&" "&B1`,
		"=-A1+5%",
	}

	for _, src := range formulas {
		first, err := Translate(src)
		require.NoError(t, err, src)
		second, err := Translate(src)
		require.NoError(t, err, src)
		assert.Equal(t, first.String(), second.String(), src)
	}
}

func TestTranslateShapes(t *testing.T) {
	expr, err := Translate("=IF(J618>0, VLOOKUP(T13, labor_rates, 2), 0)")
	require.NoError(t, err)

	call, ok := expr.(*Call)
	require.True(t, ok, "top node should be a call, got %T", expr)
	assert.Equal(t, "IF", call.Fn)
	require.Len(t, call.Args, 3)

	cond, ok := call.Args[0].(*Binary)
	require.True(t, ok)
	assert.Equal(t, ">", cond.Op)

	inner, ok := call.Args[1].(*Call)
	require.True(t, ok)
	assert.Equal(t, "VLOOKUP", inner.Fn)
	assert.Equal(t, "labor_rates", inner.Args[1].String())
}

func TestTranslateLeadingEqualsOptional(t *testing.T) {
	withEquals, err := Translate("=A1+B1")
	require.NoError(t, err)
	without, err := Translate("A1+B1")
	require.NoError(t, err)
	assert.Equal(t, withEquals.String(), without.String())
}

func TestTranslateSheetQualifiedRefs(t *testing.T) {
	expr, err := Translate("='Interior Measure'!J618*2")
	require.NoError(t, err)

	bin, ok := expr.(*Binary)
	require.True(t, ok)
	ref, ok := bin.L.(*CellRef)
	require.True(t, ok)
	assert.Equal(t, "Interior Measure", ref.Sheet)
	assert.Equal(t, "J618", ref.Ref)
}

func TestTranslateUnsupported(t *testing.T) {
	for _, src := range []string{
		"",
		"=OFFSET(A1,1,1)*", // dangling operator
		"=A1+",
	} {
		_, err := Translate(src)
		assert.ErrorIs(t, err, ErrUnsupported, "formula %q", src)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		formula  string
		expected string
	}{
		{"VLOOKUP(A1,Data2!A:C,2,FALSE)", "lookup"},
		{"IF(A1>0,1,0)", "conditional"},
		{"IFERROR(B2/C2,0)", "conditional"},
		{"SUM(A1:A5)", "arithmetic"},
		{"A1*B1", "arithmetic"},
		{"A1", "other"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Classify(tt.formula), tt.formula)
	}
}

func TestReferences(t *testing.T) {
	deps := References("=IF(A1>0,'Paint Pricing'!B2+C3,SUM(D1:D4))", "Exterior Measure")
	assert.Equal(t, []string{
		"Exterior Measure!A1",
		"Exterior Measure!C3",
		"Exterior Measure!D1",
		"Exterior Measure!D4",
		"Paint Pricing!B2",
	}, deps)
}

func TestReferencesDeduplicates(t *testing.T) {
	deps := References("=A1+A1*A1", "S")
	assert.Equal(t, []string{"S!A1"}, deps)
}

func TestReferencesIgnoresNames(t *testing.T) {
	deps := References("=VLOOKUP(A1,labor_rates,2)", "S")
	assert.Equal(t, []string{"S!A1"}, deps)
}
