// Package funccache memoizes system-function evaluations by their
// structural (name, args) key, per spec §3 "Function-cache key" and
// §4.8. It is gated entirely by the caller: the cache itself has no
// notion of "cacheable" functions, it only stores whatever it is told
// to.
package funccache

import "github.com/evalcore/agent/internal/values"

// Key is the structural identity of one function invocation. Two calls
// with the same name and textually-equal argument list hit the same
// cache entry, regardless of whether the arguments are themselves
// function calls or literals (spec §3).
type Key struct {
	Name string
	Args string // arguments joined with a separator that cannot appear unescaped in a single argument
}

const argSep = "\x1f"

// NewKey builds a Key from a function name and its raw argument strings.
func NewKey(name string, args []string) Key {
	joined := ""
	for i, a := range args {
		if i > 0 {
			joined += argSep
		}
		joined += a
	}
	return Key{Name: name, Args: joined}
}

// Cache is a flat name+args memo of evaluated function results. Entries
// never expire on their own; callers clear the whole cache on
// EvalContextClear (spec §4.8: "the cache is cleared wholesale, never
// evicted per-entry").
type Cache struct {
	entries map[Key]values.Value
}

func New() *Cache {
	return &Cache{entries: make(map[Key]values.Value)}
}

// Get returns the cached value for key, if present.
func (c *Cache) Get(key Key) (values.Value, bool) {
	v, ok := c.entries[key]
	return v, ok
}

// Put stores the result of one evaluation under key, overwriting any
// prior entry.
func (c *Cache) Put(key Key, value values.Value) {
	c.entries[key] = value
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.entries = make(map[Key]values.Value)
}

// Len reports the number of cached entries, mainly for tests and
// diagnostics.
func (c *Cache) Len() int {
	return len(c.entries)
}
