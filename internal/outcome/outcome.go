// Package outcome implements the promise outcome protocol of spec §4.7:
// mapping a verifier's per-iteration result to class mutations, abort
// checks, dependency-handle accounting, and compliance/report-level
// bookkeeping. It depends only on the classes package's Table type (via
// the small ClassSink struct) and on log/slog for its sink, matching
// go-dws's own pattern of keeping the evaluator's reporting concerns
// decoupled from the table types themselves.
package outcome

import (
	"fmt"
	"log/slog"

	"github.com/evalcore/agent/internal/classes"
)

// Status is one promise-iteration result (spec §3, §4.7).
type Status uint8

const (
	NoOp Status = iota
	Change
	Warn
	Fail
	Denied
	Timeout
	Interrupted
	Skipped
)

func (s Status) String() string {
	switch s {
	case NoOp:
		return "noop"
	case Change:
		return "change"
	case Warn:
		return "warn"
	case Fail:
		return "fail"
	case Denied:
		return "denied"
	case Timeout:
		return "timeout"
	case Interrupted:
		return "interrupted"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// PromiseType identifies the promise kind for the bookkeeping-exempt
// check (spec §4.7 step 1).
type PromiseType string

// bookkeepingExempt is the promise-type set excluded from the
// kept/repaired/not-kept counters and the compliance tracker forward
// (spec §4.7: "vars, classes, insert_lines, delete_lines,
// replace_patterns, field_edits").
var bookkeepingExempt = map[PromiseType]struct{}{
	"vars":             {},
	"classes":          {},
	"insert_lines":     {},
	"delete_lines":     {},
	"replace_patterns": {},
	"field_edits":      {},
}

func isBookkeepingExempt(pt PromiseType) bool {
	_, ok := bookkeepingExempt[pt]
	return ok
}

// ClassActions is the `classes` body of a promise: per-outcome class
// names to add or remove (spec §4.7 step 2, "add_class_on"/"del_class_on").
type ClassActions struct {
	Repaired []string // add_class_on.repaired
	Kept     []string // add_class_on.kept
	NotKept  []string // add_class_on.notkept
	Denied   []string // add_class_on.denied
	Timeout  []string // add_class_on.timeout

	DelNotKept []string // del_class_on.notkept
	DelKept    []string // del_class_on.kept
}

// Promise carries the subset of promise metadata the protocol needs.
type Promise struct {
	Type        PromiseType
	Handle      string
	Namespace   string
	Classes     ClassActions
	PersistTTL  int // minutes; 0 means "not requested"
	LogRepaired string
	LogFailed   string
	LogKept     string
}

// Counters tallies the kept/repaired/not-kept totals (spec §4.7 step 1).
type Counters struct {
	Kept     int
	Repaired int
	NotKept  int
}

// ComplianceTracker is the external collaborator step 1 forwards to; the
// core does not define what it does with the report (spec §1 non-goals:
// "reporting serialization" is an external collaborator).
type ComplianceTracker interface {
	Report(promise Promise, status Status)
}

// ClassSink is the class-table surface the protocol mutates: the global
// table and the current bundle's local table.
type ClassSink struct {
	Global *classes.Table
	Local  *classes.Table
}

// SatisfiedHandles is the shared dependency-handle set (spec §4.7 step 3,
// §4.9). It lives in internal/abort, but the protocol only needs to add
// to it, so it is expressed here as a minimal interface to avoid an
// import cycle between outcome and abort.
type SatisfiedHandles interface {
	Satisfy(handle string)
}

// Protocol runs the five-step promise outcome protocol (spec §4.7).
type Protocol struct {
	Counters     Counters
	Tracker      ComplianceTracker
	Handles      SatisfiedHandles
	Logger       *slog.Logger
	reservedHard map[string]struct{} // class names that must never be overwritten by outcome mapping
}

func New(tracker ComplianceTracker, handles SatisfiedHandles, logger *slog.Logger) *Protocol {
	if logger == nil {
		logger = slog.Default()
	}
	return &Protocol{Tracker: tracker, Handles: handles, Logger: logger}
}

// SetReservedHard marks class names that outcome mapping must never add
// (spec §4.7 step 2: "Added classes whose name collides with a reserved
// hard class are logged and not added").
func (p *Protocol) SetReservedHard(names []string) {
	p.reservedHard = make(map[string]struct{}, len(names))
	for _, n := range names {
		p.reservedHard[classes.Canonicalize(n)] = struct{}{}
	}
}

func (p *Protocol) isReservedHard(name string) bool {
	_, ok := p.reservedHard[classes.Canonicalize(name)]
	return ok
}

// Apply runs the full protocol for one promise iteration outcome (spec
// §4.7). sink.Local may be nil if the promise is not running inside a
// bundle frame; persist is invoked only when a promise requests a
// persist-ttl and may be nil if persistence is not wired up.
func (p *Protocol) Apply(promise Promise, status Status, sink ClassSink, persist func(name string, ttlMinutes int, tags []string)) {
	if status == Skipped {
		return // step 5: skipped short-circuits the whole protocol
	}

	if !isBookkeepingExempt(promise.Type) {
		p.tally(status)
		if p.Tracker != nil {
			p.Tracker.Report(promise, status)
		}
	}

	add, del := outcomeClassSets(promise.Classes, status)
	for _, name := range add {
		p.addOutcomeClass(promise, name, sink, persist)
	}
	for _, name := range del {
		if sink.Local != nil {
			sink.Local.Remove(promise.Namespace, name)
		}
		sink.Global.Remove(promise.Namespace, name)
	}

	if promise.Handle != "" && (status == Change || status == NoOp) && p.Handles != nil {
		p.Handles.Satisfy(promise.Handle)
	}

	if !isBookkeepingExempt(promise.Type) {
		p.emitLog(promise, status)
	}
}

func (p *Protocol) addOutcomeClass(promise Promise, name string, sink ClassSink, persist func(string, int, []string)) {
	if p.isReservedHard(name) {
		p.Logger.Warn("outcome class collides with reserved hard class, not added",
			"promise", promise.Handle, "class", name)
		return
	}
	scope := classes.ScopeBundle
	target := sink.Local
	if target == nil || promise.PersistTTL > 0 {
		scope = classes.ScopeNamespace
		target = sink.Global
	}
	target.Put(promise.Namespace, name, true, scope, nil, "")
	if promise.PersistTTL > 0 && persist != nil {
		persist(name, promise.PersistTTL, nil)
	}
}

func (p *Protocol) tally(status Status) {
	switch status {
	case Change:
		p.Counters.Repaired++
	case NoOp:
		p.Counters.Kept++
	default:
		p.Counters.NotKept++
	}
}

func (p *Protocol) emitLog(promise Promise, status Status) {
	var msg string
	switch status {
	case Change:
		msg = promise.LogRepaired
	case Fail, Warn, Interrupted, Denied, Timeout:
		msg = promise.LogFailed
	case NoOp:
		msg = promise.LogKept
	}
	if msg == "" {
		return
	}
	p.Logger.Info(msg, "promise", promise.Handle, "bundle", promise.Namespace, "outcome", status.String())
}

// outcomeClassSets maps an outcome to the (add, remove) class name lists
// per spec §4.7 step 2.
func outcomeClassSets(actions ClassActions, status Status) (add, del []string) {
	switch status {
	case Change:
		return actions.Repaired, actions.DelNotKept
	case NoOp:
		return actions.Kept, actions.DelKept
	case Warn, Fail, Interrupted:
		return actions.NotKept, actions.DelNotKept
	case Denied:
		return actions.Denied, actions.DelNotKept
	case Timeout:
		return actions.Timeout, actions.DelNotKept
	default:
		return nil, nil
	}
}

// RecordChange logs at info level and applies step 2 only, for callers
// that already ran steps 1/3/4 themselves (spec §4.7: "thin wrappers
// that log at the outcome-appropriate level and invoke step 2 only").
func (p *Protocol) RecordChange(promise Promise, sink ClassSink, format string, args ...any) {
	p.Logger.Info(fmt.Sprintf(format, args...), "promise", promise.Handle, "outcome", "change")
	add, del := outcomeClassSets(promise.Classes, Change)
	p.applyClassSets(promise, add, del, sink)
}

func (p *Protocol) RecordNoChange(promise Promise, sink ClassSink, format string, args ...any) {
	p.Logger.Info(fmt.Sprintf(format, args...), "promise", promise.Handle, "outcome", "noop")
	add, del := outcomeClassSets(promise.Classes, NoOp)
	p.applyClassSets(promise, add, del, sink)
}

func (p *Protocol) RecordFailure(promise Promise, sink ClassSink, format string, args ...any) {
	p.Logger.Error(fmt.Sprintf(format, args...), "promise", promise.Handle, "outcome", "fail")
	add, del := outcomeClassSets(promise.Classes, Fail)
	p.applyClassSets(promise, add, del, sink)
}

func (p *Protocol) RecordWarning(promise Promise, sink ClassSink, format string, args ...any) {
	p.Logger.Warn(fmt.Sprintf(format, args...), "promise", promise.Handle, "outcome", "warn")
	add, del := outcomeClassSets(promise.Classes, Warn)
	p.applyClassSets(promise, add, del, sink)
}

func (p *Protocol) RecordDenial(promise Promise, sink ClassSink, format string, args ...any) {
	p.Logger.Warn(fmt.Sprintf(format, args...), "promise", promise.Handle, "outcome", "denied")
	add, del := outcomeClassSets(promise.Classes, Denied)
	p.applyClassSets(promise, add, del, sink)
}

func (p *Protocol) RecordInterruption(promise Promise, sink ClassSink, format string, args ...any) {
	p.Logger.Warn(fmt.Sprintf(format, args...), "promise", promise.Handle, "outcome", "interrupted")
	add, del := outcomeClassSets(promise.Classes, Interrupted)
	p.applyClassSets(promise, add, del, sink)
}

func (p *Protocol) applyClassSets(promise Promise, add, del []string, sink ClassSink) {
	for _, name := range add {
		p.addOutcomeClass(promise, name, sink, nil)
	}
	for _, name := range del {
		if sink.Local != nil {
			sink.Local.Remove(promise.Namespace, name)
		}
		sink.Global.Remove(promise.Namespace, name)
	}
}
