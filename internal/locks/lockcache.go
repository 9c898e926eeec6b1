// Package locks is the supplemented promise-lock cache
// (original_source/libpromises/env_context.h and eval_context.c keep a
// per-context set of "promise lock" identifiers used to detect
// already-running promises across passes; spec.md §6 lists
// promise-lock-cache-put/-contains but never describes the key shape).
//
// A lock key here is derived from (frame-path, promiser), hashed with
// google/uuid's NewSHA1-based deterministic UUID over their
// concatenation, giving a fixed-width cache key regardless of promiser
// string length — the same flattening trick
// eval_context.c's GeneratePromiseLockName performs with an MD5 digest
// over a header+promiser pair. UUID v5 is this repository's
// ecosystem-grounded equivalent of that MD5 digest.
package locks

import "github.com/google/uuid"

// lockNamespace is the fixed namespace UUID that uuid.NewSHA1 requires;
// its value is the standard RFC 4122 DNS namespace (uuid.NameSpaceDNS),
// not a UUID unique to this package.
var lockNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// Key derives a deterministic, fixed-width lock identifier from a stack
// frame path and a promiser string.
func Key(framePath, promiser string) string {
	return uuid.NewSHA1(lockNamespace, []byte(framePath+"\x00"+promiser)).String()
}

// Cache is the per-context set of promise-lock identifiers currently
// held across evaluation passes.
type Cache struct {
	held map[string]struct{}
}

func NewCache() *Cache {
	return &Cache{held: make(map[string]struct{})}
}

// Put records a lock as held (spec §6 promise-lock-cache-put).
func (c *Cache) Put(key string) {
	c.held[key] = struct{}{}
}

// Contains reports whether a lock is currently held (spec §6
// promise-lock-cache-contains).
func (c *Cache) Contains(key string) bool {
	_, ok := c.held[key]
	return ok
}

// Release drops a single lock.
func (c *Cache) Release(key string) {
	delete(c.held, key)
}

// Clear empties the whole cache (spec §5 "clear()... drops all...
// promise locks").
func (c *Cache) Clear() {
	c.held = make(map[string]struct{})
}

// Len reports the number of locks currently held.
func (c *Cache) Len() int {
	return len(c.held)
}
