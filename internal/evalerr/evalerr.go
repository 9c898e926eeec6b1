// Package evalerr defines the recoverable error taxonomy of the evaluation
// core (spec §7). Contract violations are not part of this taxonomy: they
// are programming errors and are raised with ContractViolation, a panic
// value the caller is expected to let propagate (or recover at the process
// boundary, the way a CLI's root command does).
package evalerr

import "fmt"

// Kind discriminates the recoverable error taxonomy.
type Kind uint8

const (
	_ Kind = iota
	Parse
	UnknownReference
	TypeMismatch
	SelfReference
	LengthViolation
	ArityMismatch
	PersistenceIO
)

var kindNames = [...]string{
	Parse:            "parse error",
	UnknownReference: "unknown reference",
	TypeMismatch:     "type mismatch",
	SelfReference:    "self-reference",
	LengthViolation:  "length violation",
	ArityMismatch:    "arity mismatch",
	PersistenceIO:    "persistence I/O",
}

func (k Kind) String() string {
	if int(k) >= len(kindNames) || kindNames[k] == "" {
		return "unknown error kind"
	}
	return kindNames[k]
}

// Error is the single error type returned for every recoverable condition.
// Bundle, Promise and Reference are optional context fields filled in by
// whichever component detected the condition.
type Error struct {
	Kind      Kind
	Message   string
	Bundle    string
	Promise   string
	Reference string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Reference != "" {
		msg += fmt.Sprintf(" (reference %q)", e.Reference)
	}
	if e.Promise != "" {
		msg += fmt.Sprintf(" (promise %q)", e.Promise)
	}
	if e.Bundle != "" {
		msg += fmt.Sprintf(" (bundle %q)", e.Bundle)
	}
	return msg
}

// New builds an *Error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithBundle annotates the error with the bundle it occurred in and returns
// the same error for chaining.
func (e *Error) WithBundle(bundle string) *Error {
	e.Bundle = bundle
	return e
}

// WithPromise annotates the error with the promise handle it occurred in.
func (e *Error) WithPromise(promise string) *Error {
	e.Promise = promise
	return e
}

// WithReference annotates the error with the reference string involved.
func (e *Error) WithReference(ref string) *Error {
	e.Reference = ref
	return e
}

// ContractViolation is panicked, never returned, when a public API is
// called from an illegal stack state (spec §7: "contract violations
// terminate the agent process").
type ContractViolation struct {
	Operation string
	Reason    string
}

func (c ContractViolation) Error() string {
	return fmt.Sprintf("contract violation in %s: %s", c.Operation, c.Reason)
}

// Raise panics with a ContractViolation. Callers of the public façade that
// hit an illegal stack state call this instead of returning an error.
func Raise(operation, reason string, args ...any) {
	panic(ContractViolation{Operation: operation, Reason: fmt.Sprintf(reason, args...)})
}
