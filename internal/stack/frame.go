// Package stack implements the nested evaluation-frame stack of spec
// §3 ("Stack frame") and §4.5. Frames are a closed, tagged-variant sum
// type rather than an OO hierarchy, per spec §9's design note
// ("Dynamic dispatch / variant explosion... Prefer tagged-variant
// representations over OO hierarchies").
package stack

import (
	"fmt"

	"github.com/evalcore/agent/internal/classes"
	"github.com/evalcore/agent/internal/variables"
)

// Kind discriminates the five frame variants.
type Kind uint8

const (
	KindBundle Kind = iota
	KindBody
	KindBundleSection
	KindPromise
	KindPromiseIteration
)

func (k Kind) String() string {
	switch k {
	case KindBundle:
		return "bundle"
	case KindBody:
		return "body"
	case KindBundleSection:
		return "bundle-section"
	case KindPromise:
		return "promise"
	case KindPromiseIteration:
		return "promise-iteration"
	default:
		return "unknown"
	}
}

// DefaultMessageRingSize is the default bounded ring-buffer size for a
// promise-iteration frame's recent log messages (spec §3: "default 5").
const DefaultMessageRingSize = 5

// Frame is one element of the evaluation stack. Only the fields relevant
// to its Kind are populated; callers that need kind-specific data assert
// on Kind first, the way a closed sum type's match arms would.
type Frame struct {
	Kind Kind
	// Path uniquely identifies this frame's stack position; computed once
	// at push time and immutable thereafter (spec §3).
	Path string

	// Bundle / BundleSection fields.
	BundleNamespace  string
	BundleName       string
	InheritsPrevious bool
	LocalClasses     *classes.Table
	LocalVariables   *variables.Table
	BundleAborted    bool

	// Body fields.
	BodyVariables *variables.Table

	// Promise fields.
	PromiseVariables *variables.Table
	PromiseHandle    string

	// PromiseIteration fields.
	IterationIndex int
	Messages       []string // bounded ring buffer, see PushMessage
	RingSize       int
	Excluded       bool // true when the promise's class context was false at push
}

// PushMessage appends a log message to a promise-iteration frame's ring
// buffer, evicting the oldest entry once RingSize is reached (spec §3:
// "a bounded ring buffer (default 5)").
func (f *Frame) PushMessage(msg string) {
	if f.Kind != KindPromiseIteration {
		return
	}
	size := f.RingSize
	if size <= 0 {
		size = DefaultMessageRingSize
	}
	f.Messages = append(f.Messages, msg)
	if len(f.Messages) > size {
		f.Messages = f.Messages[len(f.Messages)-size:]
	}
}

// newPath computes the immutable path string for a frame pushed atop
// the given parent path.
func newPath(parentPath string, kind Kind, label string) string {
	if parentPath == "" {
		return fmt.Sprintf("/%s:%s", kind, label)
	}
	return fmt.Sprintf("%s/%s:%s", parentPath, kind, label)
}
