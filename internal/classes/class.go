// Package classes implements the class table (spec §3, §4.2): a set of
// named boolean facts with namespace, hard/soft flag, scope, tag set and
// optional comment. Modeled after the teacher's scope-chain Environment
// (internal/interp/runtime.Environment in the teacher repo) but storing
// boolean facts rather than typed variables, and adding the hard/soft and
// namespace axes the teacher's single-language scoping never needed.
package classes

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxNameLength is the implementation-defined maximum class name length
// (spec §3: "Name length ≤ implementation-defined maximum (e.g. 1024)").
const MaxNameLength = 1024

// Scope distinguishes bundle-local classes from namespace-global ones.
type Scope uint8

const (
	ScopeBundle Scope = iota
	ScopeNamespace
)

func (s Scope) String() string {
	if s == ScopeBundle {
		return "bundle"
	}
	return "namespace"
}

// Class is a single named boolean fact (spec §3 "Class").
type Class struct {
	Namespace string
	Name      string // canonicalized
	Soft      bool   // true = policy-derived, false = hard/process-provided
	Scope     Scope
	Tags      map[string]struct{}
	Comment   string
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Canonicalize lowercases a class name and replaces every run of
// non-alphanumeric characters with a single underscore (spec §3). It is
// idempotent: Canonicalize(Canonicalize(x)) == Canonicalize(x).
func Canonicalize(name string) string {
	lower := strings.ToLower(name)
	return nonAlnum.ReplaceAllString(lower, "_")
}

// Qualified renders the namespace-qualified form "ns:name" used by the
// persistent store and by class-expression tokens (spec §3, §4.6).
func (c *Class) Qualified() string {
	if c.Namespace == "" {
		return c.Name
	}
	return fmt.Sprintf("%s:%s", c.Namespace, c.Name)
}

// HasTag reports whether the class carries the given tag.
func (c *Class) HasTag(tag string) bool {
	_, ok := c.Tags[tag]
	return ok
}

func newTagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return set
}
