package variables

import (
	"sort"
	"strings"

	"github.com/evalcore/agent/internal/evalerr"
	"github.com/evalcore/agent/internal/values"
)

// MaxNameLength mirrors classes.MaxNameLength (spec §3: "Name length ≤
// implementation-defined maximum").
const MaxNameLength = 1024

// Variable is a single stored entry (spec §3 "Variable").
type Variable struct {
	Ref           Reference
	Value         values.Value
	Type          values.DataType
	Tags          map[string]struct{}
	OwningPromise string // handle or synthetic id of the defining promise; "" for system variables
}

// Table is a flat, single-scope variable store (spec §4.3 routes a
// reference to "the right underlying table"; one Table instance backs
// each of those underlying tables — global, match, or a single frame's
// local table). Like classes.Table, it performs no internal locking
// (spec §5 single-writer model).
type Table struct {
	entries map[string]*Variable
	order   []string
}

func NewTable() *Table {
	return &Table{entries: make(map[string]*Variable)}
}

func storageKey(ref Reference) string {
	name := ref.Name
	if len(ref.Indices) > 0 && ref.Scope != ScopeUnspecified {
		// spec §3: dotted scope-qualified names placed into a frame-local
		// scope are stored under the mangled key.
		name = Mangle(name)
	}
	var sb strings.Builder
	sb.WriteString(ref.Namespace)
	sb.WriteByte('\x1f')
	sb.WriteString(name)
	return sb.String()
}

// Put inserts or overwrites a variable. It refuses the mutation (spec
// §4.3, §7 "self-reference", "length violation") when:
//   - the reference name exceeds MaxNameLength, or
//   - the value is a self-referential scalar naming this very reference.
func (t *Table) Put(ref Reference, v values.Value, dtype values.DataType, tags []string, owningPromise string) (*Variable, *evalerr.Error) {
	if len(ref.Name) > MaxNameLength {
		return nil, evalerr.New(evalerr.LengthViolation, "variable name exceeds maximum length").WithReference(ref.String())
	}
	if values.ContainsSelfReference(v, ref.Name) {
		return nil, evalerr.New(evalerr.SelfReference, "value may not refer to its own reference").WithReference(ref.String())
	}
	tagSet := make(map[string]struct{}, len(tags))
	for _, tg := range tags {
		tagSet[tg] = struct{}{}
	}
	key := storageKey(ref)
	if _, exists := t.entries[key]; !exists {
		t.order = append(t.order, key)
	}
	entry := &Variable{Ref: ref, Value: v, Type: dtype, Tags: tagSet, OwningPromise: owningPromise}
	t.entries[key] = entry
	return entry, nil
}

// Get performs a direct (non-mangled, non-indexed-fallback) lookup by
// exact reference name and namespace. Callers needing the full six-step
// resolution algorithm use pkg/evalctx.ResolveVariable, which calls Get
// for the direct and index-stripped lookups and GetMangled in between.
func (t *Table) Get(ns, name string) (*Variable, bool) {
	key := storageKey(Reference{Namespace: ns, Name: name})
	v, ok := t.entries[key]
	return v, ok
}

// GetMangled looks up a reference under its mangled key, as produced for
// dotted names stored in a frame-local scope (spec §4.3 step 3).
func (t *Table) GetMangled(ref Reference) (*Variable, bool) {
	key := storageKey(Reference{Namespace: ref.Namespace, Name: ref.Name, Indices: ref.Indices, Scope: ref.Scope})
	v, ok := t.entries[key]
	return v, ok
}

// Remove deletes a variable by (ns, name).
func (t *Table) Remove(ns, name string) bool {
	key := storageKey(Reference{Namespace: ns, Name: name})
	if _, ok := t.entries[key]; !ok {
		return false
	}
	delete(t.entries, key)
	for i, k := range t.order {
		if k == key {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// Clear empties the table.
func (t *Table) Clear() {
	t.entries = make(map[string]*Variable)
	t.order = nil
}

// Len reports the number of variables in the table.
func (t *Table) Len() int { return len(t.entries) }

// IteratePrefix returns every variable whose namespace matches ns, in
// insertion order (spec §6 "iterators by scope-prefix").
func (t *Table) IteratePrefix(ns string) []*Variable {
	var out []*Variable
	for _, key := range t.order {
		v := t.entries[key]
		if v.Ref.Namespace == ns {
			out = append(out, v)
		}
	}
	return out
}

// ReExpandQualified re-evaluates, in place, every value stored under
// namespace ns whose name has the form "bundleName.rest" — the qualifier
// step 5 of the resolution algorithm produces for an unqualified reference
// made from within that bundle's frame. This backs spec §4.5's "on bundle
// push with arguments, all previously set variables in the bundle's
// namespace/name are re-expanded in place through the current context".
func (t *Table) ReExpandQualified(ns, bundleName string, expand func(values.Value) values.Value) {
	prefix := bundleName + "."
	for _, key := range t.order {
		v := t.entries[key]
		if v.Ref.Namespace != ns || !strings.HasPrefix(v.Ref.Name, prefix) {
			continue
		}
		v.Value = expand(v.Value)
	}
}

// Names returns every stored reference's rendered name, sorted for
// deterministic display.
func (t *Table) Names() []string {
	out := make([]string, 0, len(t.entries))
	for _, v := range t.entries {
		out = append(out, v.Ref.String())
	}
	sort.Strings(out)
	return out
}
