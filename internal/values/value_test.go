package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarEquality(t *testing.T) {
	a := NewInt(42)
	b := NewInt(42)
	c := NewInt(7)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(NewString("42")))
}

func TestListEmptyDistinctFromNone(t *testing.T) {
	empty := NewList(TInt)
	assert.Equal(t, TIList, empty.DataType())
	assert.NotEqual(t, None{}, empty)
	assert.Equal(t, 0, len(empty.Items))
}

func TestContainsSelfReference(t *testing.T) {
	assert.True(t, ContainsSelfReference(NewString("prefix-$(X)-suffix"), "X"))
	assert.True(t, ContainsSelfReference(NewString("${X}"), "X"))
	assert.False(t, ContainsSelfReference(NewString("$(Y)"), "X"))
	assert.False(t, ContainsSelfReference(NewInt(1), "X"))
}

func TestContainerExpand(t *testing.T) {
	obj := NewObject()
	obj.Set("greeting", NewLeaf(NewString("hello $(name)")))
	obj.Set("count", NewLeaf(NewInt(3)))

	expanded := obj.Expand(func(s string) string {
		if s == "hello $(name)" {
			return "hello world"
		}
		return s
	})

	got, ok := expanded.Object["greeting"]
	require.True(t, ok)
	require.Equal(t, "hello world", got.Leaf.Str)
}

func TestContainerJSONRoundTrip(t *testing.T) {
	obj := NewObject()
	obj.Set("name", NewLeaf(NewString("web01")))
	obj.Set("tags", NewArray(NewLeaf(NewString("prod")), NewLeaf(NewString("edge"))))

	doc, err := obj.ToJSON()
	require.NoError(t, err)

	back, err := FromJSON(doc)
	require.NoError(t, err)
	assert.True(t, obj.Equal(back))
}

func TestContainerDeepCopyIndependence(t *testing.T) {
	obj := NewObject()
	obj.Set("a", NewLeaf(NewInt(1)))

	cp := obj.DeepCopy().(Container)
	cp.Set("a", NewLeaf(NewInt(2)))

	assert.Equal(t, int64(1), obj.Object["a"].Leaf.Int)
	assert.Equal(t, int64(2), cp.Object["a"].Leaf.Int)
}
