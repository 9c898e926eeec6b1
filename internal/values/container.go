package values

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Container is the tree-shaped value from spec §4.1: two node kinds
// (object with string-keyed children, array with indexed children) and
// four leaf primitive kinds (string, integer, real, boolean).
type Container struct {
	// Exactly one of the following is set, discriminated by Leaf/IsArray.
	Leaf     *Scalar
	IsArray  bool
	Array    []Container
	IsObject bool
	Object   map[string]Container
	// keys preserves object key insertion order for deterministic String().
	keys []string
}

func NewLeaf(s Scalar) Container { return Container{Leaf: &s} }

func NewArray(items ...Container) Container {
	return Container{IsArray: true, Array: items}
}

func NewObject() Container {
	return Container{IsObject: true, Object: map[string]Container{}}
}

// Set inserts or overwrites a key in an object container, preserving the
// first-seen key order.
func (c *Container) Set(key string, v Container) {
	if !c.IsObject {
		*c = NewObject()
	}
	if _, exists := c.Object[key]; !exists {
		c.keys = append(c.keys, key)
	}
	c.Object[key] = v
}

func (c Container) DataType() DataType { return TContainer }

func (c Container) String() string {
	var sb strings.Builder
	c.render(&sb)
	return sb.String()
}

func (c Container) render(sb *strings.Builder) {
	switch {
	case c.Leaf != nil:
		sb.WriteString(c.Leaf.String())
	case c.IsArray:
		sb.WriteByte('[')
		for i, it := range c.Array {
			if i > 0 {
				sb.WriteString(", ")
			}
			it.render(sb)
		}
		sb.WriteByte(']')
	case c.IsObject:
		sb.WriteByte('{')
		for i, k := range c.keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(sb, "%s: ", k)
			c.Object[k].render(sb)
		}
		sb.WriteByte('}')
	}
}

func (c Container) DeepCopy() Value {
	switch {
	case c.Leaf != nil:
		leaf := *c.Leaf
		return Container{Leaf: &leaf}
	case c.IsArray:
		items := make([]Container, len(c.Array))
		for i, it := range c.Array {
			items[i] = it.DeepCopy().(Container)
		}
		return Container{IsArray: true, Array: items}
	case c.IsObject:
		obj := make(map[string]Container, len(c.Object))
		keys := make([]string, len(c.keys))
		copy(keys, c.keys)
		for k, v := range c.Object {
			obj[k] = v.DeepCopy().(Container)
		}
		return Container{IsObject: true, Object: obj, keys: keys}
	default:
		return Container{}
	}
}

func (c Container) Equal(o Value) bool {
	oc, ok := o.(Container)
	if !ok {
		return false
	}
	switch {
	case c.Leaf != nil:
		return oc.Leaf != nil && c.Leaf.Equal(*oc.Leaf)
	case c.IsArray:
		if !oc.IsArray || len(c.Array) != len(oc.Array) {
			return false
		}
		for i := range c.Array {
			if !c.Array[i].Equal(oc.Array[i]) {
				return false
			}
		}
		return true
	case c.IsObject:
		if !oc.IsObject || len(c.Object) != len(oc.Object) {
			return false
		}
		for k, v := range c.Object {
			ov, found := oc.Object[k]
			if !found || !v.Equal(ov) {
				return false
			}
		}
		return true
	default:
		return oc.Leaf == nil && !oc.IsArray && !oc.IsObject
	}
}

// Expand applies string interpolation to every leaf key and every leaf
// string primitive (spec §4.1: "Expanding a container applies string
// interpolation to every leaf key and every leaf string primitive").
func (c Container) Expand(interp func(string) string) Container {
	switch {
	case c.Leaf != nil:
		if c.Leaf.Kind == TString {
			expanded := NewString(interp(c.Leaf.Str))
			return Container{Leaf: &expanded}
		}
		leaf := *c.Leaf
		return Container{Leaf: &leaf}
	case c.IsArray:
		items := make([]Container, len(c.Array))
		for i, it := range c.Array {
			items[i] = it.Expand(interp)
		}
		return Container{IsArray: true, Array: items}
	case c.IsObject:
		out := NewObject()
		for _, k := range c.keys {
			out.Set(interp(k), c.Object[k].Expand(interp))
		}
		return out
	default:
		return c
	}
}

// ToJSON renders the container as a JSON document.
func (c Container) ToJSON() (string, error) {
	switch {
	case c.Leaf != nil:
		switch c.Leaf.Kind {
		case TString:
			return sjson.Set("", "@this", c.Leaf.Str)
		case TInt:
			return sjson.Set("", "@this", c.Leaf.Int)
		case TReal:
			return sjson.Set("", "@this", c.Leaf.Real)
		case TBool:
			return sjson.Set("", "@this", c.Leaf.Bool)
		default:
			return "null", nil
		}
	case c.IsArray:
		doc := "[]"
		for i, it := range c.Array {
			sub, err := it.ToJSON()
			if err != nil {
				return "", err
			}
			doc, err = sjson.SetRaw(doc, fmt.Sprintf("%d", i), sub)
			if err != nil {
				return "", err
			}
		}
		return doc, nil
	case c.IsObject:
		doc := "{}"
		for _, k := range c.keys {
			sub, err := c.Object[k].ToJSON()
			if err != nil {
				return "", err
			}
			var err2 error
			doc, err2 = sjson.SetRaw(doc, sjsonEscape(k), sub)
			if err2 != nil {
				return "", err2
			}
		}
		return doc, nil
	default:
		return "null", nil
	}
}

// sjsonEscape escapes sjson path metacharacters (".", "*", "?") in a
// container key so arbitrary policy-supplied keys round-trip safely.
func sjsonEscape(key string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`)
	return r.Replace(key)
}

// FromJSON parses a JSON document into a Container tree.
func FromJSON(doc string) (Container, error) {
	if !gjson.Valid(doc) {
		return Container{}, fmt.Errorf("invalid JSON document")
	}
	return fromGJSON(gjson.Parse(doc)), nil
}

func fromGJSON(r gjson.Result) Container {
	switch r.Type {
	case gjson.String:
		return NewLeaf(NewString(r.String()))
	case gjson.Number:
		if r.Num == float64(int64(r.Num)) {
			return NewLeaf(NewInt(int64(r.Num)))
		}
		return NewLeaf(NewReal(r.Num))
	case gjson.True, gjson.False:
		return NewLeaf(NewBool(r.Bool()))
	case gjson.JSON:
		if r.IsArray() {
			var items []Container
			r.ForEach(func(_, v gjson.Result) bool {
				items = append(items, fromGJSON(v))
				return true
			})
			return NewArray(items...)
		}
		out := NewObject()
		r.ForEach(func(k, v gjson.Result) bool {
			out.Set(k.String(), fromGJSON(v))
			return true
		})
		return out
	default:
		return Container{}
	}
}
