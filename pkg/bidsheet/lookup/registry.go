package lookup

import (
	"sort"
	"strings"
)

// Reference is usage metadata for one lookup table: which formulas
// call it and which result columns they request. It is descriptive
// only and plays no part in evaluation.
type Reference struct {
	// TableRef is the raw table-reference text as written in formulas.
	TableRef string `json:"table_ref"`
	// Formulas lists the calling formula keys, sorted.
	Formulas []string `json:"formulas"`
	// Columns lists the requested 1-based result columns, sorted.
	Columns []int `json:"columns_used"`
}

// Registry holds the registered lookup tables and their usage
// metadata. It is populated during import and read-only afterwards.
type Registry struct {
	tables  map[string]*Table
	aliases map[string]string
	refs    map[string]*refAccum
}

type refAccum struct {
	formulas map[string]struct{}
	columns  map[int]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tables:  make(map[string]*Table),
		aliases: make(map[string]string),
		refs:    make(map[string]*refAccum),
	}
}

// Register adds a table under its canonical name. Table names are
// unique: registering an existing name replaces the table data while
// any recorded usage metadata is kept.
func (r *Registry) Register(t *Table) {
	if t.KeyFormat == "" {
		t.KeyFormat = DetectCompositeKey(t.Headers)
		t.Composite = t.KeyFormat != ""
	}
	r.tables[t.Name] = t
	if t.Sheet != "" {
		r.aliases[CanonicalKey(t.Sheet)] = t.Name
	}
}

// RecordUse registers a VLOOKUP call site against the raw table
// reference text, merging with any prior record for the same text.
func (r *Registry) RecordUse(tableRef, formulaKey string, colIndex int) {
	acc, ok := r.refs[tableRef]
	if !ok {
		acc = &refAccum{
			formulas: make(map[string]struct{}),
			columns:  make(map[int]struct{}),
		}
		r.refs[tableRef] = acc
	}
	acc.formulas[formulaKey] = struct{}{}
	acc.columns[colIndex] = struct{}{}
}

// Resolve finds a table by canonical name, by a sheet-qualified range
// reference, or by a defined-name alias.
func (r *Registry) Resolve(ref string) (*Table, bool) {
	if t, ok := r.tables[ref]; ok {
		return t, true
	}
	if name, ok := r.aliases[ref]; ok {
		return r.tables[name], true
	}
	if t, ok := r.tables[CanonicalKey(ref)]; ok {
		return t, true
	}
	// A range reference like 'Paint Pricing'!$A$2:$C$40 resolves
	// through its sheet name.
	if i := strings.LastIndex(ref, "!"); i >= 0 {
		sheet := strings.Trim(ref[:i], "'")
		if t, ok := r.tables[CanonicalKey(sheet)]; ok {
			return t, true
		}
		if name, ok := r.aliases[CanonicalKey(sheet)]; ok {
			return r.tables[name], true
		}
	}
	return nil, false
}

// Match implements the evaluator's table resolver: it resolves the
// reference and performs the row match. ok is false on an unknown
// table or a lookup miss.
func (r *Registry) Match(tableRef, key string, colIndex int, exact bool) (interface{}, bool) {
	t, ok := r.Resolve(tableRef)
	if !ok {
		return nil, false
	}
	return t.Match(key, colIndex, exact)
}

// Tables returns the registered tables sorted by name.
func (r *Registry) Tables() []*Table {
	out := make([]*Table, 0, len(r.tables))
	for _, t := range r.tables {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of registered tables.
func (r *Registry) Len() int { return len(r.tables) }

// References returns the usage metadata sorted by table reference.
func (r *Registry) References() []*Reference {
	out := make([]*Reference, 0, len(r.refs))
	for ref, acc := range r.refs {
		entry := &Reference{TableRef: ref}
		for f := range acc.formulas {
			entry.Formulas = append(entry.Formulas, f)
		}
		for c := range acc.columns {
			entry.Columns = append(entry.Columns, c)
		}
		sort.Strings(entry.Formulas)
		sort.Ints(entry.Columns)
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TableRef < out[j].TableRef })
	return out
}
