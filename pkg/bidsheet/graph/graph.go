// Package graph maintains the formula dependency graph: which
// formula/cell keys each formula reads, topological evaluation order,
// and cycle detection.
package graph

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrCycle marks a cyclic dependency. A formula on a cycle is
// unevaluable and must be reported, never evaluated with stale values.
var ErrCycle = errors.New("cycle detected")

// CycleError carries one deterministic cycle path for reporting.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return ErrCycle.Error()
	}
	return fmt.Sprintf("%s: %s", ErrCycle.Error(), strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCycle }

// Graph is a directed dependency graph over formula/cell keys. Edges
// point from a formula to the keys it reads.
type Graph struct {
	deps map[string]map[string]struct{}
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{deps: make(map[string]map[string]struct{})}
}

// Add records the dependency set for key. Dependency keys become
// graph nodes even when no formula defines them (plain input cells).
func (g *Graph) Add(key string, deps []string) {
	if g.deps[key] == nil {
		g.deps[key] = make(map[string]struct{})
	}
	for _, d := range deps {
		g.deps[key][d] = struct{}{}
		if g.deps[d] == nil {
			g.deps[d] = make(map[string]struct{})
		}
	}
}

// Dependencies returns the direct dependency set of key, sorted.
func (g *Graph) Dependencies(key string) []string {
	return sortedKeys(g.deps[key])
}

// Keys returns every node key, sorted.
func (g *Graph) Keys() []string {
	return sortedKeys(toSet(g.deps))
}

// Closure returns the transitive dependency set of key, sorted and
// excluding key itself.
func (g *Graph) Closure(key string) []string {
	seen := map[string]struct{}{key: {}}
	stack := []string{key}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for d := range g.deps[cur] {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			stack = append(stack, d)
		}
	}
	delete(seen, key)
	return sortedKeys(seen)
}

// TopoOrder returns all node keys in dependency-first order using
// Kahn's algorithm, breaking ties lexicographically so the order is
// deterministic. It returns a CycleError when the graph is cyclic.
func (g *Graph) TopoOrder() ([]string, error) {
	return g.topoOrder(nil)
}

// EvalOrder returns the transitive dependencies of key followed by
// key itself, in dependency-first order. It returns a CycleError when
// any of them sits on a cycle.
func (g *Graph) EvalOrder(key string) ([]string, error) {
	scope := map[string]struct{}{key: {}}
	for _, d := range g.Closure(key) {
		scope[d] = struct{}{}
	}
	return g.topoOrder(scope)
}

// CycleFor reports whether key sits on or above a cycle, returning
// one deterministic cycle path, or nil when the key's transitive
// dependencies are acyclic.
func (g *Graph) CycleFor(key string) []string {
	if _, ok := g.deps[key]; !ok {
		return nil
	}
	scope := map[string]struct{}{key: {}}
	for _, d := range g.Closure(key) {
		scope[d] = struct{}{}
	}
	if _, err := g.topoOrder(scope); err != nil {
		var ce *CycleError
		if errors.As(err, &ce) {
			return ce.Path
		}
	}
	return nil
}

// topoOrder runs Kahn's algorithm over the whole graph or, when scope
// is non-nil, the induced subgraph.
func (g *Graph) topoOrder(scope map[string]struct{}) ([]string, error) {
	inScope := func(k string) bool {
		if scope == nil {
			return true
		}
		_, ok := scope[k]
		return ok
	}

	// out-degree within scope; edges key -> dep mean dep evaluates
	// first, so nodes with no remaining deps are ready.
	pending := make(map[string]int)
	dependents := make(map[string][]string)
	for k, ds := range g.deps {
		if !inScope(k) {
			continue
		}
		count := 0
		for d := range ds {
			if !inScope(d) {
				continue
			}
			count++
			dependents[d] = append(dependents[d], k)
		}
		pending[k] = count
	}

	var ready []string
	for k, c := range pending {
		if c == 0 {
			ready = append(ready, k)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(pending))
	for len(ready) > 0 {
		cur := ready[0]
		ready = ready[1:]
		order = append(order, cur)
		next := dependents[cur]
		sort.Strings(next)
		for _, dep := range next {
			pending[dep]--
			if pending[dep] == 0 {
				ready = insertSorted(ready, dep)
			}
		}
	}

	if len(order) != len(pending) {
		remaining := make(map[string]struct{})
		for k, c := range pending {
			if c > 0 {
				remaining[k] = struct{}{}
			}
		}
		return nil, &CycleError{Path: g.findCycle(remaining)}
	}
	return order, nil
}

// findCycle extracts one cycle path from the residual nodes of a
// failed topological sort, starting from the smallest key so the
// reported path is deterministic.
func (g *Graph) findCycle(remaining map[string]struct{}) []string {
	for _, start := range sortedKeys(remaining) {
		path := []string{start}
		index := map[string]int{start: 0}
		cur := start
		for {
			var next string
			for _, d := range sortedKeys(g.deps[cur]) {
				if _, ok := remaining[d]; ok {
					next = d
					break
				}
			}
			if next == "" {
				break
			}
			if at, seen := index[next]; seen {
				return append(path[at:], next)
			}
			index[next] = len(path)
			path = append(path, next)
			cur = next
		}
	}
	return nil
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func toSet(m map[string]map[string]struct{}) map[string]struct{} {
	set := make(map[string]struct{}, len(m))
	for k := range m {
		set[k] = struct{}{}
	}
	return set
}

func insertSorted(list []string, v string) []string {
	i := sort.SearchStrings(list, v)
	list = append(list, "")
	copy(list[i+1:], list[i:])
	list[i] = v
	return list
}
