package stack

import (
	"fmt"
	"strings"

	"github.com/evalcore/agent/internal/classes"
	"github.com/evalcore/agent/internal/evalerr"
	"github.com/evalcore/agent/internal/values"
	"github.com/evalcore/agent/internal/variables"
)

// Stack is the ordered stack of nested evaluation frames (spec §3, §4.5).
type Stack struct {
	frames []*Frame
}

func New() *Stack { return &Stack{} }

func (s *Stack) top() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// legalPredecessor enforces the push/pop legality table (spec §4.5).
func legalPredecessor(newKind Kind, top *Frame) bool {
	switch newKind {
	case KindBundle:
		return top == nil || top.Kind == KindPromiseIteration
	case KindBody:
		return top == nil || top.Kind == KindBundleSection
	case KindBundleSection:
		return top != nil && top.Kind == KindBundle
	case KindPromise:
		return top != nil && top.Kind == KindBundleSection
	case KindPromiseIteration:
		return top != nil && top.Kind == KindPromise
	default:
		return false
	}
}

// mustPush validates and records a push; violation raises a
// ContractViolation and never returns (spec §4.5: "Violation is a
// programming error (contract assertion)").
func (s *Stack) mustPush(kind Kind) {
	if !legalPredecessor(kind, s.top()) {
		parent := "empty"
		if t := s.top(); t != nil {
			parent = t.Kind.String()
		}
		evalerr.Raise("stack-push", "illegal push of %s atop %s", kind, parent)
	}
}

// PushBundle pushes a bundle frame. args is the caller-supplied argument
// list; params is the bundle's declared parameter list. On arity
// mismatch the frame is still pushed (degraded, with no parameter
// variables published) so evaluation can continue, per spec §4.5.
func (s *Stack) PushBundle(namespace, name string, params, args []string, inherit bool) (*Frame, *evalerr.Error) {
	s.mustPush(KindBundle)
	f := &Frame{
		Kind:             KindBundle,
		BundleNamespace:  namespace,
		BundleName:       name,
		InheritsPrevious: inherit,
		LocalClasses:     classes.NewTable(),
		LocalVariables:   variables.NewTable(),
	}
	f.Path = newPath(s.pathOf(s.top()), KindBundle, fmt.Sprintf("%s.%s", namespace, name))
	s.frames = append(s.frames, f)

	if len(params) != len(args) {
		return f, evalerr.New(evalerr.ArityMismatch,
			"bundle %s.%s expects %d argument(s), got %d", namespace, name, len(params), len(args)).WithBundle(name)
	}
	for i, p := range params {
		f.LocalVariables.Put(variables.Reference{Name: p}, values.NewString(args[i]), values.TString, nil, "")
	}
	return f, nil
}

// PushBody pushes a control-body or attribute-body frame.
func (s *Stack) PushBody() *Frame {
	s.mustPush(KindBody)
	f := &Frame{Kind: KindBody, BodyVariables: variables.NewTable()}
	f.Path = newPath(s.pathOf(s.top()), KindBody, "body")
	s.frames = append(s.frames, f)
	return f
}

// PushBundleSection pushes a marker frame for a promise-type section.
func (s *Stack) PushBundleSection(sectionName string) *Frame {
	s.mustPush(KindBundleSection)
	f := &Frame{Kind: KindBundleSection}
	f.Path = newPath(s.pathOf(s.top()), KindBundleSection, sectionName)
	s.frames = append(s.frames, f)
	return f
}

// PushPromise pushes a promise frame and returns it so the caller can
// publish this.* special variables into PromiseVariables.
func (s *Stack) PushPromise(handle string) *Frame {
	s.mustPush(KindPromise)
	f := &Frame{Kind: KindPromise, PromiseHandle: handle, PromiseVariables: variables.NewTable()}
	label := handle
	if label == "" {
		label = "anon"
	}
	f.Path = newPath(s.pathOf(s.top()), KindPromise, label)
	s.frames = append(s.frames, f)
	return f
}

// PushPromiseIteration pushes a promise-iteration frame. If excluded is
// true (the expanded promise's class context was false), the frame is
// still recorded on the stack — per spec §4.5 "the push is skipped and a
// null iteration is returned" is interpreted here as: the caller must
// check Excluded and treat the iteration as a no-op, but the frame is
// pushed/popped symmetrically so stack discipline is never violated by a
// skip. See DESIGN.md for this Open Question resolution.
func (s *Stack) PushPromiseIteration(index int, excluded bool, ringSize int) *Frame {
	s.mustPush(KindPromiseIteration)
	f := &Frame{Kind: KindPromiseIteration, IterationIndex: index, Excluded: excluded, RingSize: ringSize}
	f.Path = newPath(s.pathOf(s.top()), KindPromiseIteration, fmt.Sprintf("%d", index))
	s.frames = append(s.frames, f)
	return f
}

// Pop removes the top frame and returns it. Popping an empty stack is a
// contract violation.
func (s *Stack) Pop() *Frame {
	if len(s.frames) == 0 {
		evalerr.Raise("stack-pop", "pop of empty stack")
	}
	f := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return f
}

// Len returns the current stack depth.
func (s *Stack) Len() int { return len(s.frames) }

// Top returns the current top frame, or nil if the stack is empty.
func (s *Stack) Top() *Frame { return s.top() }

// Frames returns the stack from bottom to top; callers must not mutate
// the returned slice.
func (s *Stack) Frames() []*Frame { return s.frames }

func (s *Stack) pathOf(f *Frame) string {
	if f == nil {
		return ""
	}
	return f.Path
}

// Path returns the current stack path string (spec §6 stack-path).
func (s *Stack) Path() string {
	if f := s.top(); f != nil {
		return f.Path
	}
	return ""
}

// String renders the whole stack, bottom to top, one frame per line
// (spec §6 stack-to-string).
func (s *Stack) String() string {
	var sb strings.Builder
	for i, f := range s.frames {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%d: %s", i, f.Path)
	}
	return sb.String()
}

// CurrentBundle returns the nearest bundle frame on the stack, searching
// from the top down, or nil if none is present.
func (s *Stack) CurrentBundle() *Frame {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].Kind == KindBundle {
			return s.frames[i]
		}
	}
	return nil
}

// CurrentPromise returns the nearest promise frame, or nil.
func (s *Stack) CurrentPromise() *Frame {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].Kind == KindPromise {
			return s.frames[i]
		}
	}
	return nil
}

// CurrentBody returns the nearest body frame, or nil.
func (s *Stack) CurrentBody() *Frame {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].Kind == KindBody {
			return s.frames[i]
		}
	}
	return nil
}

// CurrentMessages returns the nearest promise-iteration frame's message
// ring buffer, or nil if there is none on the stack.
func (s *Stack) CurrentMessages() []string {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].Kind == KindPromiseIteration {
			return s.frames[i].Messages
		}
	}
	return nil
}

// InheritedBundles walks outward from the innermost bundle frame while
// InheritsPrevious holds, returning every bundle frame reachable (spec
// §3: "transitive until a frame with the flag cleared is reached"). The
// walk is iterative with an explicit index, per spec §9's design note
// resolving the "self-referential walk".
func (s *Stack) InheritedBundles() []*Frame {
	var out []*Frame
	bundleIdx := -1
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].Kind == KindBundle {
			bundleIdx = i
			break
		}
	}
	for bundleIdx >= 0 {
		f := s.frames[bundleIdx]
		out = append(out, f)
		if !f.InheritsPrevious {
			break
		}
		bundleIdx--
		for bundleIdx >= 0 && s.frames[bundleIdx].Kind != KindBundle {
			bundleIdx--
		}
	}
	return out
}
