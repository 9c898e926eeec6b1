package classes

import (
	"regexp"
	"sort"
)

type tableKey struct {
	ns    string
	name  string
	scope Scope
}

// Table is a single-threaded class table (spec §4.2). Per the concurrency
// model (spec §5: "it is not safe to mutate from multiple threads"), Table
// performs no internal locking; callers own the single-writer discipline,
// the same assumption the teacher's Environment makes about script
// execution running on one goroutine at a time.
type Table struct {
	byKey map[tableKey]*Class
	// order preserves insertion order for deterministic iteration and
	// Match's "first matching class (deterministic enumeration order)".
	order []tableKey
}

func NewTable() *Table {
	return &Table{byKey: make(map[tableKey]*Class)}
}

// Put inserts a class. It refuses insertion, returning false, when the
// name exceeds MaxNameLength or an entry with identical (ns, name, scope)
// already exists (spec §4.2).
func (t *Table) Put(ns, name string, soft bool, scope Scope, tags []string, comment string) (*Class, bool) {
	canon := Canonicalize(name)
	if len(canon) > MaxNameLength {
		return nil, false
	}
	key := tableKey{ns: ns, name: canon, scope: scope}
	if _, exists := t.byKey[key]; exists {
		return nil, false
	}
	cls := &Class{
		Namespace: ns,
		Name:      canon,
		Soft:      soft,
		Scope:     scope,
		Tags:      newTagSet(tags),
		Comment:   comment,
	}
	t.byKey[key] = cls
	t.order = append(t.order, key)
	return cls, true
}

// Get looks up a class by namespace and name across both scopes, bundle
// scope taking priority (the common case: a local define shadows a
// namespace-global fact of the same name within the current bundle).
func (t *Table) Get(ns, name string) (*Class, bool) {
	canon := Canonicalize(name)
	if c, ok := t.byKey[tableKey{ns: ns, name: canon, scope: ScopeBundle}]; ok {
		return c, true
	}
	c, ok := t.byKey[tableKey{ns: ns, name: canon, scope: ScopeNamespace}]
	return c, ok
}

// GetScoped looks up a class in exactly one scope.
func (t *Table) GetScoped(ns, name string, scope Scope) (*Class, bool) {
	c, ok := t.byKey[tableKey{ns: ns, name: Canonicalize(name), scope: scope}]
	return c, ok
}

// Remove deletes a class from both scopes by (ns, name); it reports
// whether anything was removed.
func (t *Table) Remove(ns, name string) bool {
	canon := Canonicalize(name)
	removed := false
	for _, scope := range []Scope{ScopeBundle, ScopeNamespace} {
		key := tableKey{ns: ns, name: canon, scope: scope}
		if _, ok := t.byKey[key]; ok {
			delete(t.byKey, key)
			removed = true
		}
	}
	if removed {
		t.compact()
	}
	return removed
}

// RemoveScope deletes every class registered under the given scope. The
// stack does not call it on pop: a bundle frame's classes live in that
// frame's own LocalClasses table, which is dropped with the frame.
func (t *Table) RemoveScope(scope Scope) {
	for key := range t.byKey {
		if key.scope == scope {
			delete(t.byKey, key)
		}
	}
	t.compact()
}

func (t *Table) compact() {
	kept := t.order[:0]
	for _, key := range t.order {
		if _, ok := t.byKey[key]; ok {
			kept = append(kept, key)
		}
	}
	t.order = kept
}

// Clear empties the table entirely.
func (t *Table) Clear() {
	t.byKey = make(map[tableKey]*Class)
	t.order = nil
}

// Match returns the first class (in deterministic insertion order) whose
// qualified name matches the given regular expression.
func (t *Table) Match(pattern string) (*Class, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	for _, key := range t.order {
		c := t.byKey[key]
		if re.MatchString(c.Qualified()) {
			return c, nil
		}
	}
	return nil, nil
}

// Filter describes the optional predicates accepted by Iterator (spec
// §4.2 "iterator(ns?, is_hard?, is_soft?)").
type Filter struct {
	Namespace *string
	Hard      *bool
	Soft      *bool
	Scope     *Scope
}

// Iterator yields classes matching the given filter, in deterministic
// insertion order.
func (t *Table) Iterator(f Filter) []*Class {
	var out []*Class
	for _, key := range t.order {
		c := t.byKey[key]
		if f.Namespace != nil && c.Namespace != *f.Namespace {
			continue
		}
		if f.Hard != nil && c.Soft == *f.Hard {
			continue
		}
		if f.Soft != nil && c.Soft != *f.Soft {
			continue
		}
		if f.Scope != nil && c.Scope != *f.Scope {
			continue
		}
		out = append(out, c)
	}
	return out
}

// MatchingRegex returns every class whose qualified name matches pattern
// and whose tag set contains every tag in tagFilter, honoring firstOnly to
// stop after the first hit (spec §6
// classes-matching-global/classes-matching-local).
func (t *Table) MatchingRegex(pattern string, tagFilter []string, firstOnly bool) ([]*Class, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	var out []*Class
	for _, key := range t.order {
		c := t.byKey[key]
		if !re.MatchString(c.Qualified()) {
			continue
		}
		if !hasAllTags(c, tagFilter) {
			continue
		}
		out = append(out, c)
		if firstOnly {
			break
		}
	}
	return out, nil
}

func hasAllTags(c *Class, tags []string) bool {
	for _, t := range tags {
		if !c.HasTag(t) {
			return false
		}
	}
	return true
}

// Names returns the canonical names of every class currently stored,
// sorted for stable display (used by the demo CLI and tests).
func (t *Table) Names() []string {
	out := make([]string, 0, len(t.byKey))
	for _, c := range t.byKey {
		out = append(out, c.Qualified())
	}
	sort.Strings(out)
	return out
}

// Len returns the number of classes currently stored.
func (t *Table) Len() int { return len(t.byKey) }
