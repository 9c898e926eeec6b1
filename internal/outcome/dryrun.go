package outcome

// Action is a promise's requested action, the third input (alongside
// enforcing-mode and the dry-run gate) to making-changes (spec §4.7
// "Dry-run gate").
type Action uint8

const (
	ActionFix Action = iota
	ActionWarn
)

// Mode is the evaluator's run mode.
type Mode uint8

const (
	ModeEnforcing Mode = iota
	ModeDryRun
)

// Gate implements the two dry-run predicates from spec §4.7: they
// return true only when the evaluator is in enforcing mode and the
// promise's action is not warn-only. In dry-run or warn-only mode they
// return false and the caller is expected to record a warn outcome
// instead of performing the change.
type Gate struct {
	Mode Mode
}

// WouldMakeChanges evaluates the making-changes predicate. When it
// returns false, it also returns a pointer to a Warn status and a message
// built from the caller-supplied reason, matching the "should have ...,
// only warning promised" wording from spec §4.7.
func (g Gate) WouldMakeChanges(action Action, reason string) (bool, *Status, string) {
	if g.Mode == ModeEnforcing && action != ActionWarn {
		return true, nil, ""
	}
	warn := Warn
	return false, &warn, "should have " + reason + ", only warning promised"
}

// WouldMakeInternalChanges is making-internal-changes: identical gating
// to WouldMakeChanges, kept distinct per spec §6's separate API entry
// for internal (bookkeeping, not promiser-visible) changes.
func (g Gate) WouldMakeInternalChanges(action Action, reason string) (bool, *Status, string) {
	return g.WouldMakeChanges(action, reason)
}
