// Package netfacts is the supplemented IP-address-of-interest tracking
// table (original_source/libpromises/eval_context.c tracks such a set,
// cleared on EvalContextClear; spec.md §5 names the clear behavior but
// never defines the table's own shape). It is deliberately thin: the
// networking verifiers that populate it are out of scope (spec.md §1),
// this package only owns the set itself.
package netfacts

// Set is a string set of dotted-quad/CIDR facts of interest, owned by
// the evaluation context and drained on Clear().
type Set struct {
	addrs map[string]struct{}
}

func NewSet() *Set {
	return &Set{addrs: make(map[string]struct{})}
}

// Add records an address or CIDR of interest.
func (s *Set) Add(addr string) {
	s.addrs[addr] = struct{}{}
}

// Has reports whether addr was previously added.
func (s *Set) Has(addr string) bool {
	_, ok := s.addrs[addr]
	return ok
}

// Remove drops a single address.
func (s *Set) Remove(addr string) {
	delete(s.addrs, addr)
}

// Clear empties the set (spec §5 "clear()... drops all... IP-address records").
func (s *Set) Clear() {
	s.addrs = make(map[string]struct{})
}

// Len returns the number of tracked addresses.
func (s *Set) Len() int {
	return len(s.addrs)
}

// All returns every tracked address; order is unspecified.
func (s *Set) All() []string {
	out := make([]string, 0, len(s.addrs))
	for a := range s.addrs {
		out = append(out, a)
	}
	return out
}
