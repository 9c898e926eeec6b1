// Package values implements the tagged value model of the evaluation core
// (spec §3, §4.1): scalar, list, function-call-unevaluated, container and
// none, closed over the DataType enum. Mirrors the teacher's
// interface-per-kind Value split (internal/interp/value.go in the teacher
// repo) but generalizes the per-kind structs to the data-type enum this
// spec requires instead of one struct per primitive Go type.
package values

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Value is the interface implemented by every member of the value model.
type Value interface {
	// DataType returns the value's data type.
	DataType() DataType
	// String renders the value the way it would appear expanded into policy
	// text.
	String() string
	// DeepCopy returns an independent copy of the value; owned storage
	// (lists, containers) is duplicated, never shared.
	DeepCopy() Value
	// Equal reports structural equality.
	Equal(other Value) bool
}

// None is the singleton "absent" / "legitimately empty list" value.
type None struct{}

func (None) DataType() DataType { return TNone }
func (None) String() string     { return "" }
func (None) DeepCopy() Value    { return None{} }
func (None) Equal(o Value) bool { _, ok := o.(None); return ok }

// Scalar holds one of string/int/real/bool, discriminated by Kind.
type Scalar struct {
	Kind DataType // one of TString, TInt, TReal, TBool
	Str  string
	Int  int64
	Real float64
	Bool bool
}

func NewString(s string) Scalar { return Scalar{Kind: TString, Str: s} }
func NewInt(i int64) Scalar     { return Scalar{Kind: TInt, Int: i} }
func NewReal(f float64) Scalar  { return Scalar{Kind: TReal, Real: f} }
func NewBool(b bool) Scalar     { return Scalar{Kind: TBool, Bool: b} }

func (s Scalar) DataType() DataType { return s.Kind }

func (s Scalar) String() string {
	switch s.Kind {
	case TString:
		return s.Str
	case TInt:
		return strconv.FormatInt(s.Int, 10)
	case TReal:
		return strconv.FormatFloat(s.Real, 'g', -1, 64)
	case TBool:
		if s.Bool {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

func (s Scalar) DeepCopy() Value { return s }

func (s Scalar) Equal(o Value) bool {
	os, ok := o.(Scalar)
	if !ok || os.Kind != s.Kind {
		return false
	}
	switch s.Kind {
	case TString:
		return s.Str == os.Str
	case TInt:
		return s.Int == os.Int
	case TReal:
		return s.Real == os.Real
	case TBool:
		return s.Bool == os.Bool
	default:
		return true
	}
}

// List holds an ordered sequence of scalars of a uniform element kind
// (ilist, slist, rlist). An empty, non-nil List is distinct from None:
// spec §3 requires that "a list-typed variable may legitimately hold an
// empty list (distinct from absence)".
type List struct {
	ElemKind DataType // TInt, TString or TReal
	Items    []Scalar
}

func NewList(elemKind DataType, items ...Scalar) List {
	return List{ElemKind: elemKind, Items: items}
}

func (l List) DataType() DataType {
	switch l.ElemKind {
	case TInt:
		return TIList
	case TReal:
		return TRList
	default:
		return TSList
	}
}

func (l List) String() string {
	parts := make([]string, len(l.Items))
	for i, it := range l.Items {
		parts[i] = it.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (l List) DeepCopy() Value {
	cp := make([]Scalar, len(l.Items))
	copy(cp, l.Items)
	return List{ElemKind: l.ElemKind, Items: cp}
}

func (l List) Equal(o Value) bool {
	ol, ok := o.(List)
	if !ok || ol.ElemKind != l.ElemKind || len(ol.Items) != len(l.Items) {
		return false
	}
	for i := range l.Items {
		if !l.Items[i].Equal(ol.Items[i]) {
			return false
		}
	}
	return true
}

// FunctionCall is an unevaluated function-call value: a function name plus
// its not-yet-evaluated argument expressions, stored verbatim as strings
// (policy-expression text is out of scope here; the verifier that calls
// back into the core is responsible for evaluating these).
type FunctionCall struct {
	Name string
	Args []string
}

func (FunctionCall) DataType() DataType { return TFunctionCall }

func (f FunctionCall) String() string {
	return fmt.Sprintf("%s(%s)", f.Name, strings.Join(f.Args, ", "))
}

func (f FunctionCall) DeepCopy() Value {
	cp := make([]string, len(f.Args))
	copy(cp, f.Args)
	return FunctionCall{Name: f.Name, Args: cp}
}

func (f FunctionCall) Equal(o Value) bool {
	of, ok := o.(FunctionCall)
	if !ok || of.Name != f.Name || len(of.Args) != len(f.Args) {
		return false
	}
	for i := range f.Args {
		if f.Args[i] != of.Args[i] {
			return false
		}
	}
	return true
}

// ContainsSelfReference reports whether a scalar string value contains a
// variable-substitution token naming the given reference, which spec §3
// forbids ("a scalar value containing a variable-substitution token naming
// itself is rejected"). The substitution token syntax is `$(ref)` or
// `${ref}`, as used throughout the original source's string expansion.
func ContainsSelfReference(value Value, ref string) bool {
	s, ok := value.(Scalar)
	if !ok || s.Kind != TString {
		return false
	}
	return strings.Contains(s.Str, "$("+ref+")") || strings.Contains(s.Str, "${"+ref+"}")
}

// substitutionToken matches the `$(ref)` / `${ref}` variable-substitution
// tokens named in ContainsSelfReference's comment.
var substitutionToken = regexp.MustCompile(`\$\(([^)]*)\)|\$\{([^}]*)\}`)

// ExpandString replaces every `$(ref)`/`${ref}` token in s with the string
// form of whatever resolve returns for ref. A token whose reference does not
// resolve (resolve's second return is false) is left verbatim, so partial
// expansion never corrupts the surrounding text.
func ExpandString(s string, resolve func(ref string) (string, bool)) string {
	return substitutionToken.ReplaceAllStringFunc(s, func(tok string) string {
		m := substitutionToken.FindStringSubmatch(tok)
		ref := m[1]
		if ref == "" {
			ref = m[2]
		}
		if resolved, ok := resolve(ref); ok {
			return resolved
		}
		return tok
	})
}

// ExpandValue applies ExpandString to a scalar string, or Container.Expand
// to a container's leaves and keys (spec §4.1). Every other value kind is
// not textual and is returned unchanged.
func ExpandValue(v Value, resolve func(ref string) (string, bool)) Value {
	switch val := v.(type) {
	case Scalar:
		if val.Kind != TString {
			return val
		}
		return NewString(ExpandString(val.Str, resolve))
	case Container:
		return val.Expand(func(s string) string { return ExpandString(s, resolve) })
	default:
		return v
	}
}
