package abort

// Handles tracks satisfied dependency handles (spec §3, §4.9). It
// implements outcome.SatisfiedHandles without importing the outcome
// package, the same narrow-interface-over-import-cycle pattern the
// outcome package itself documents.
type Handles struct {
	satisfied map[string]struct{}
}

func NewHandles() *Handles {
	return &Handles{satisfied: make(map[string]struct{})}
}

// Satisfy marks handle as satisfied.
func (h *Handles) Satisfy(handle string) {
	h.satisfied[handle] = struct{}{}
}

// IsSatisfied reports whether handle has been satisfied.
func (h *Handles) IsSatisfied(handle string) bool {
	_, ok := h.satisfied[handle]
	return ok
}

// Clear drops every satisfied handle (used by EvalContext.Clear).
func (h *Handles) Clear() {
	h.satisfied = make(map[string]struct{})
}

// DependsOnResult is the outcome of checking a promise's depends_on list
// (spec §4.9).
type DependsOnResult struct {
	Satisfied     bool
	MissingHandle string
	InvalidScalar bool
}

// CheckDependsOn evaluates a promise's depends_on list against the
// satisfied-handle set. Per spec §4.9, if any entry is not a plain
// scalar string or names a handle not yet satisfied, the promise is
// skipped; scalarOK lets the caller flag entries that failed to reduce
// to a plain string during expansion.
func (h *Handles) CheckDependsOn(handles []string, scalarOK []bool) DependsOnResult {
	for i, handle := range handles {
		if i < len(scalarOK) && !scalarOK[i] {
			return DependsOnResult{InvalidScalar: true, MissingHandle: handle}
		}
		if !h.IsSatisfied(handle) {
			return DependsOnResult{MissingHandle: handle}
		}
	}
	return DependsOnResult{Satisfied: true}
}

// MissingDependencies implements the spec §6 API entry
// missing-dependencies(promise) -> bool.
func (h *Handles) MissingDependencies(handles []string, scalarOK []bool) bool {
	return !h.CheckDependsOn(handles, scalarOK).Satisfied
}
