package variables

import (
	"testing"

	"github.com/evalcore/agent/internal/evalerr"
	"github.com/evalcore/agent/internal/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGetRoundTrip(t *testing.T) {
	tbl := NewTable()
	ref := Reference{Namespace: "default", Name: "myvar"}
	_, everr := tbl.Put(ref, values.NewString("hello"), values.TString, []string{"src=test"}, "")
	require.Nil(t, everr)

	got, ok := tbl.Get("default", "myvar")
	require.True(t, ok)
	assert.Equal(t, "hello", got.Value.String())
}

func TestPutRejectsSelfReference(t *testing.T) {
	tbl := NewTable()
	ref := Reference{Name: "X"}
	_, everr := tbl.Put(ref, values.NewString("$(X)"), values.TString, nil, "")
	require.NotNil(t, everr)
	assert.Equal(t, evalerr.SelfReference, everr.Kind)

	_, ok := tbl.Get("", "X")
	assert.False(t, ok)
}

func TestPutRejectsOverlongName(t *testing.T) {
	tbl := NewTable()
	long := make([]byte, MaxNameLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, everr := tbl.Put(Reference{Name: string(long)}, values.NewInt(1), values.TInt, nil, "")
	require.NotNil(t, everr)
	assert.Equal(t, evalerr.LengthViolation, everr.Kind)
}

func TestEmptyListDistinctFromNone(t *testing.T) {
	tbl := NewTable()
	ref := Reference{Name: "mylist"}
	_, everr := tbl.Put(ref, values.NewList(values.TString), values.TSList, nil, "")
	require.Nil(t, everr)

	got, ok := tbl.Get("", "mylist")
	require.True(t, ok)
	lst, isList := got.Value.(values.List)
	require.True(t, isList)
	assert.Equal(t, 0, len(lst.Items))
}
