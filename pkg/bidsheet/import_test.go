package bidsheet_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/quotewell/bidsheet-go/pkg/bidsheet"
	"github.com/quotewell/bidsheet-go/pkg/bidsheet/engine"
	"github.com/quotewell/bidsheet-go/pkg/bidsheet/formula"
	"github.com/quotewell/bidsheet-go/pkg/bidsheet/models"
)

// saveWorkbook builds a small three-sheet workbook: a visible measure
// sheet with blank input fields, a visible calculation sheet with
// formulas and their cached values, and a hidden pricing sheet.
func saveWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet("Exterior Measure")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Exterior Measure", "A1", "Body Sqft"))
	require.NoError(t, f.SetCellValue("Exterior Measure", "A2", "Trim Linear Ft"))
	require.NoError(t, f.SetCellValue("Exterior Measure", "C1", 0))

	_, err = f.NewSheet("Calc")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Calc", "A1", 1000))
	require.NoError(t, f.SetCellValue("Calc", "B1", 200))
	// Cached values alongside the formulas, the way a saved workbook
	// carries them.
	require.NoError(t, f.SetCellValue("Calc", "C1", 1200))
	require.NoError(t, f.SetCellFormula("Calc", "C1", "A1+B1"))
	require.NoError(t, f.SetCellValue("Calc", "D1", 32.5))
	require.NoError(t, f.SetCellFormula("Calc", "D1",
		`IFERROR(VLOOKUP("Walls Premium",'Paint Pricing'!$A$1:$C$3,3,FALSE),0)`))
	require.NoError(t, f.SetCellValue("Calc", "E1", 0))
	require.NoError(t, f.SetCellFormula("Calc", "E1", "A1+"))

	_, err = f.NewSheet("Paint Pricing")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Paint Pricing", "A1", &[]interface{}{"Type", "Grade", "Price"}))
	require.NoError(t, f.SetSheetRow("Paint Pricing", "A2", &[]interface{}{"Walls Premium", "A", 32.5}))
	require.NoError(t, f.SetSheetRow("Paint Pricing", "A3", &[]interface{}{"Walls Standard", "B", 24}))
	require.NoError(t, f.SetSheetVisible("Paint Pricing", false))

	require.NoError(t, f.DeleteSheet("Sheet1"))

	path := filepath.Join(t.TempDir(), "bidsheet.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestImport(t *testing.T) {
	path := saveWorkbook(t)

	res, err := bidsheet.Import(path, bidsheet.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, path, res.Summary.SourceFile)
	assert.Equal(t, 3, res.Summary.SheetCount)
	assert.Equal(t, 3, res.Summary.FormulaCount)
	assert.Equal(t, 1, res.Summary.LookupCount)
	assert.Empty(t, res.Summary.SkippedSheets)
	assert.Equal(t, []string{"Calc!E1"}, res.Summary.UntranslatedFormulas)

	def, ok := res.Formulas["Calc!C1"]
	require.True(t, ok)
	assert.Equal(t, "arithmetic", def.Kind)
	assert.Equal(t, []string{"Calc!A1", "Calc!B1"}, def.Dependencies)
	assert.False(t, def.NeedsReview)
	assert.Contains(t, res.Compiled, "Calc!C1")

	def, ok = res.Formulas["Calc!D1"]
	require.True(t, ok)
	assert.Equal(t, "lookup", def.Kind)
	assert.Contains(t, res.Compiled, "Calc!D1")

	// The untranslatable formula is kept raw and flagged.
	def, ok = res.Formulas["Calc!E1"]
	require.True(t, ok)
	assert.True(t, def.NeedsReview)
	assert.NotContains(t, res.Compiled, "Calc!E1")

	assert.Equal(t, []string{"Calc!A1", "Calc!B1"}, res.Graph.Dependencies("Calc!C1"))
}

func TestImportHiddenPricingTable(t *testing.T) {
	res, err := bidsheet.Import(saveWorkbook(t), bidsheet.DefaultOptions())
	require.NoError(t, err)

	tbl, ok := res.Tables.Resolve("paint_pricing")
	require.True(t, ok)
	assert.Equal(t, "Paint Pricing", tbl.Sheet)
	assert.Equal(t, []string{"Type", "Grade", "Price"}, tbl.Headers)
	require.Len(t, tbl.Rows, 2)
	assert.True(t, tbl.Composite)

	// The raw range reference from the formula resolves to the table.
	_, ok = res.Tables.Resolve("'Paint Pricing'!$A$1:$C$3")
	assert.True(t, ok)

	refs := res.Tables.References()
	require.Len(t, refs, 1)
	assert.Equal(t, []string{"Calc!D1"}, refs[0].Formulas)
	assert.Equal(t, []int{3}, refs[0].Columns)
}

func TestImportInputFields(t *testing.T) {
	res, err := bidsheet.Import(saveWorkbook(t), bidsheet.DefaultOptions())
	require.NoError(t, err)

	var measure *models.SheetData
	for i := range res.Sheets {
		if res.Sheets[i].Name == "Exterior Measure" {
			measure = &res.Sheets[i]
		}
	}
	require.NotNil(t, measure)

	byRef := make(map[string]models.InputField)
	for _, fld := range measure.Fields {
		byRef[fld.Ref] = fld
	}
	require.Contains(t, byRef, "B1")
	assert.Equal(t, "Body Sqft", byRef["B1"].Name)
	require.Contains(t, byRef, "B2")
	assert.Equal(t, "Trim Linear Ft", byRef["B2"].Name)

	// The hidden pricing sheet never produces fields.
	for _, sd := range res.Sheets {
		if sd.Hidden {
			assert.Empty(t, sd.Fields, sd.Name)
		}
	}
}

func TestImportDeterministic(t *testing.T) {
	path := saveWorkbook(t)

	first, err := bidsheet.Import(path, bidsheet.DefaultOptions())
	require.NoError(t, err)
	second, err := bidsheet.Import(path, bidsheet.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, first.Graph.Keys(), second.Graph.Keys())

	require.Equal(t, len(first.Formulas), len(second.Formulas))
	for key, def := range first.Formulas {
		other, ok := second.Formulas[key]
		require.True(t, ok, key)
		assert.Equal(t, def, other, key)
	}
	assert.Equal(t, first.Tables.Len(), second.Tables.Len())
}

func TestImportMissingFile(t *testing.T) {
	_, err := bidsheet.Import(filepath.Join(t.TempDir(), "absent.xlsx"), bidsheet.DefaultOptions())
	assert.ErrorIs(t, err, bidsheet.ErrFileNotFound)
}

func TestImportCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a workbook"), 0o644))

	_, err := bidsheet.Import(path, bidsheet.DefaultOptions())
	assert.ErrorIs(t, err, bidsheet.ErrWorkbookRead)
}

func TestImportThenEvaluate(t *testing.T) {
	res, err := bidsheet.Import(saveWorkbook(t), bidsheet.DefaultOptions())
	require.NoError(t, err)

	e := engine.New(res)

	calc := e.Evaluate("Calc!C1", map[string]interface{}{
		"Calc!A1": 800,
		"Calc!B1": 150,
	})
	require.False(t, calc.Failed(), calc.Error)
	d, err := formula.ToDecimal(calc.FinalResult)
	require.NoError(t, err)
	assert.Equal(t, "950", d.String())

	// The lookup formula reads the hidden pricing table end to end.
	price := e.Evaluate("Calc!D1", nil)
	require.False(t, price.Failed(), price.Error)
	d, err = formula.ToDecimal(price.FinalResult)
	require.NoError(t, err)
	assert.Equal(t, "32.5", d.String())
}
