// Package engine evaluates translated formulas against live input
// values, producing results with calculation traces, and applies the
// bid-level margin rules.
package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/quotewell/bidsheet-go/pkg/bidsheet"
	"github.com/quotewell/bidsheet-go/pkg/bidsheet/formula"
	"github.com/quotewell/bidsheet-go/pkg/bidsheet/graph"
	"github.com/quotewell/bidsheet-go/pkg/bidsheet/lookup"
	"github.com/quotewell/bidsheet-go/pkg/bidsheet/models"
)

// Engine evaluates formulas from one imported workbook. It holds no
// per-evaluation state: each Evaluate call builds its own value
// context, so a single Engine is safe for concurrent evaluations.
type Engine struct {
	formulas map[string]*models.FormulaDefinition
	compiled map[string]formula.Expr
	tables   *lookup.Registry
	deps     *graph.Graph
	rates    RateConfig
	log      zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithRates overrides the bid business constants.
func WithRates(rc RateConfig) Option {
	return func(e *Engine) { e.rates = rc }
}

// New builds an engine over the artifacts of one import.
func New(res *bidsheet.ImportResult, opts ...Option) *Engine {
	e := &Engine{
		formulas: res.Formulas,
		compiled: res.Compiled,
		tables:   res.Tables,
		deps:     res.Graph,
		rates:    DefaultRates(),
		log:      zerolog.Nop(),
	}
	if e.formulas == nil {
		e.formulas = make(map[string]*models.FormulaDefinition)
	}
	if e.compiled == nil {
		e.compiled = make(map[string]formula.Expr)
	}
	if e.tables == nil {
		e.tables = lookup.NewRegistry()
	}
	if e.deps == nil {
		e.deps = graph.New()
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs one formula against a caller-supplied input snapshot.
// Dependencies are evaluated first in topological order. Every
// failure mode - unknown formula, cyclic dependencies, evaluation
// faults, a #N/A final value - is captured in the result record, so
// batch callers are never aborted by one bad formula.
func (e *Engine) Evaluate(name string, inputs map[string]interface{}) *models.CalculationResult {
	res := &models.CalculationResult{
		FormulaName: name,
		Inputs:      inputs,
	}
	start := time.Now()
	defer func() {
		res.ElapsedMS = float64(time.Since(start).Microseconds()) / 1000
	}()

	m := &machine{}
	fail := func(err error) *models.CalculationResult {
		m.to(StateFailed)
		res.Error = err.Error()
		res.FinalResult = nil
		e.log.Warn().Str("formula", name).Str("error", res.Error).Msg("evaluation failed")
		return res
	}

	// Loading inputs: the context is scoped to this evaluation and
	// starts from the caller's snapshot, never a prior run's leftovers.
	m.to(StateLoadingInputs)
	ctx := &formula.Context{
		Cells:  make(map[string]formula.Value, len(inputs)),
		Tables: e.tables,
		Trace: func(expr string, v formula.Value) {
			res.Trace = append(res.Trace, models.TraceEntry{
				Expr:  expr,
				Value: formula.ToString(v),
			})
		},
	}
	for k, v := range inputs {
		ctx.Cells[k] = v
	}

	m.to(StateResolvingDependencies)
	def, ok := e.formulas[name]
	if !ok {
		return fail(fmt.Errorf("formula %s not found", name))
	}
	if def.NeedsReview {
		return fail(fmt.Errorf("formula %s is untranslated and flagged for review", name))
	}
	order, err := e.deps.EvalOrder(name)
	if err != nil {
		return fail(err)
	}

	m.to(StateEvaluating)
	res.Intermediates = make(map[string]interface{})
	for _, key := range order {
		if key == name {
			continue
		}
		expr, ok := e.compiled[key]
		if !ok {
			// Plain input cell, or a formula the caller overrode.
			continue
		}
		if _, supplied := ctx.Cells[key]; supplied {
			continue
		}
		// A bare-reference input overrides the formula at that cell.
		if _, supplied := ctx.Cells[refOf(key)]; supplied {
			continue
		}
		ctx.Sheet = sheetOf(key)
		v, err := expr.Eval(ctx)
		if err != nil {
			return fail(fmt.Errorf("dependency %s: %w", key, err))
		}
		ctx.Cells[key] = v
		res.Intermediates[key] = v
	}

	target, ok := e.compiled[name]
	if !ok {
		return fail(fmt.Errorf("formula %s has no compiled expression", name))
	}
	ctx.Sheet = def.Sheet
	v, err := target.Eval(ctx)
	if err != nil {
		return fail(err)
	}
	if formula.IsNA(v) {
		return fail(fmt.Errorf("formula %s: lookup returned #N/A", name))
	}

	m.to(StateSucceeded)
	res.FinalResult = v
	return res
}

// Lookup performs a direct table lookup. A missing row yields the
// NotAvailable value, never an error; an unknown table is an error.
func (e *Engine) Lookup(key interface{}, tableName string, colIndex int, exact bool) (interface{}, error) {
	t, ok := e.tables.Resolve(tableName)
	if !ok {
		return nil, fmt.Errorf("lookup table %s not found", tableName)
	}
	v, ok := t.Match(formula.LookupKey(key), colIndex, exact)
	if !ok {
		return formula.NotAvailable{}, nil
	}
	return v, nil
}

// Tables exposes the read-only lookup registry.
func (e *Engine) Tables() *lookup.Registry { return e.tables }

func sheetOf(key string) string {
	if i := strings.LastIndex(key, "!"); i >= 0 {
		return key[:i]
	}
	return ""
}

func refOf(key string) string {
	if i := strings.LastIndex(key, "!"); i >= 0 {
		return key[i+1:]
	}
	return key
}
