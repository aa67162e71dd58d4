package bidsheet

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/quotewell/bidsheet-go/pkg/bidsheet/formula"
	"github.com/quotewell/bidsheet-go/pkg/bidsheet/graph"
	"github.com/quotewell/bidsheet-go/pkg/bidsheet/lookup"
	"github.com/quotewell/bidsheet-go/pkg/bidsheet/models"
	"github.com/quotewell/bidsheet-go/pkg/bidsheet/parser"
)

// ImportResult holds every artifact produced by a workbook import.
// Given identical workbook content, two imports produce identical
// formula and table sets.
type ImportResult struct {
	// Sheets contains per-sheet extracts in workbook order.
	Sheets []models.SheetData `json:"sheets"`
	// Formulas maps "Sheet!Ref" keys to stored definitions.
	Formulas map[string]*models.FormulaDefinition `json:"formulas"`
	// Compiled maps formula keys to their translated expression trees.
	// Formulas flagged NeedsReview have no entry.
	Compiled map[string]formula.Expr `json:"-"`
	// Tables is the registered lookup tables and usage metadata.
	Tables *lookup.Registry `json:"-"`
	// Graph is the formula dependency graph.
	Graph *graph.Graph `json:"-"`
	// Summary reports counts of successes and failures.
	Summary models.ImportSummary `json:"summary"`
}

// Import reads a workbook file and produces translated formula
// definitions, lookup tables, and the dependency graph. A missing or
// corrupt file fails the whole import; a sheet that fails to parse is
// skipped with a logged warning and listed in the summary.
func Import(path string, opts Options) (*ImportResult, error) {
	log := opts.logger()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrWorkbookRead, path, err)
	}
	defer f.Close()

	res := &ImportResult{
		Formulas: make(map[string]*models.FormulaDefinition),
		Compiled: make(map[string]formula.Expr),
		Graph:    graph.New(),
	}
	res.Summary.SourceFile = path

	var tableData []models.TableData

	sheetList := f.GetSheetList()
	res.Summary.SheetCount = len(sheetList)

	for _, sheetName := range sheetList {
		visible, err := f.GetSheetVisible(sheetName)
		if err != nil {
			visible = true
		}
		hidden := !visible

		log.Info().Str("sheet", sheetName).Bool("hidden", hidden).Msg("processing sheet")

		sd, err := parser.ExtractSheet(f, sheetName, hidden, log)
		if err != nil {
			sheetErr := NewSheetError(sheetName, "cells", err)
			log.Warn().Err(sheetErr).Msg("sheet skipped")
			res.Summary.SkippedSheets = append(res.Summary.SkippedSheets, sheetName)
			continue
		}
		res.Sheets = append(res.Sheets, *sd)
		res.Summary.FieldCount += len(sd.Fields)

		for _, cell := range parser.Formulas(sd) {
			def := defineFormula(cell, hidden)
			res.Formulas[def.Name] = def
			res.Graph.Add(def.Name, def.Dependencies)

			compiled, err := formula.Translate(cell.Formula)
			if err != nil {
				def.NeedsReview = true
				res.Summary.UntranslatedFormulas = append(res.Summary.UntranslatedFormulas, def.Name)
				log.Warn().Err(err).Str("formula", def.Name).
					Msg("formula stored untranslated for review")
				continue
			}
			res.Compiled[def.Name] = compiled
		}

		if hidden && parser.IsLookupSheet(sheetName) {
			td, err := parser.ParseTable(f, sheetName)
			if err != nil {
				log.Warn().Err(NewSheetError(sheetName, "table", err)).Msg("lookup table skipped")
			} else if td != nil {
				tableData = append(tableData, *td)
			}
		}
	}

	res.Tables = lookup.Build(tableData, res.Formulas)

	res.Summary.FormulaCount = len(res.Formulas)
	res.Summary.LookupCount = res.Tables.Len()

	log.Info().
		Int("sheets", res.Summary.SheetCount).
		Int("formulas", res.Summary.FormulaCount).
		Int("lookups", res.Summary.LookupCount).
		Int("skipped_sheets", len(res.Summary.SkippedSheets)).
		Int("untranslated", len(res.Summary.UntranslatedFormulas)).
		Msg("import complete")

	return res, nil
}

func defineFormula(cell models.Cell, hidden bool) *models.FormulaDefinition {
	return &models.FormulaDefinition{
		Name:         cell.Key(),
		Sheet:        cell.Sheet,
		Ref:          cell.Ref,
		Formula:      cell.Formula,
		Kind:         formula.Classify(cell.Formula),
		Complexity:   parser.ComplexityScore(cell.Formula),
		Hidden:       hidden,
		Dependencies: formula.References(cell.Formula, cell.Sheet),
	}
}
