package schema

import "strings"

// Registry is the per-run table of extracted definitions, keyed by lowercase
// unqualified table name. Schema qualification is ignored on purpose: export
// files routinely mix qualified and unqualified references to the same table.
//
// A name may be declared more than once across an export (re-imports, dump
// concatenation). The registry keeps every declaration so the second-pass
// validator can consider all of them rather than guessing which one "wins".
//
// A Registry belongs to exactly one analysis run. It is filled during phase 1
// and read-only afterwards; it is never shared across runs.
type Registry struct {
	byName map[string][]*TableDefinition
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string][]*TableDefinition),
	}
}

// Add records a table declaration. Repeated names accumulate.
func (r *Registry) Add(def *TableDefinition) {
	key := strings.ToLower(def.Name)
	if _, seen := r.byName[key]; !seen {
		r.order = append(r.order, key)
	}
	r.byName[key] = append(r.byName[key], def)
}

// Declarations returns every declaration recorded for the name, or nil.
func (r *Registry) Declarations(name string) []*TableDefinition {
	return r.byName[strings.ToLower(name)]
}

// First returns the first-seen declaration for the name, or nil.
func (r *Registry) First(name string) *TableDefinition {
	defs := r.Declarations(name)
	if len(defs) == 0 {
		return nil
	}
	return defs[0]
}

// Has reports whether any declaration exists for the name.
func (r *Registry) Has(name string) bool {
	return len(r.Declarations(name)) > 0
}

// Names returns the registered table names in first-seen order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of distinct table names registered.
func (r *Registry) Len() int {
	return len(r.order)
}
