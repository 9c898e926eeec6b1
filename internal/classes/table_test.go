package classes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeIdempotent(t *testing.T) {
	assert.Equal(t, "my_class_1", Canonicalize("My-Class!1"))
	once := Canonicalize("My-Class!1")
	assert.Equal(t, Canonicalize(once), once)
}

func TestPutGetRemove(t *testing.T) {
	tbl := NewTable()
	cls, inserted := tbl.Put("default", "danger", true, ScopeNamespace, []string{"src=policy"}, "")
	require.True(t, inserted)
	require.NotNil(t, cls)

	got, ok := tbl.Get("default", "danger")
	require.True(t, ok)
	assert.Same(t, cls, got)

	// Duplicate insertion is refused (invariant 1 & round-trip law).
	_, inserted = tbl.Put("default", "danger", true, ScopeNamespace, nil, "")
	assert.False(t, inserted)

	assert.True(t, tbl.Remove("default", "danger"))
	_, ok = tbl.Get("default", "danger")
	assert.False(t, ok)
}

func TestNameLengthCap(t *testing.T) {
	tbl := NewTable()
	ok1024 := make([]byte, MaxNameLength)
	for i := range ok1024 {
		ok1024[i] = 'a'
	}
	_, inserted := tbl.Put("default", string(ok1024), true, ScopeBundle, nil, "")
	assert.True(t, inserted)

	over := make([]byte, MaxNameLength+1)
	for i := range over {
		over[i] = 'a'
	}
	_, inserted = tbl.Put("default", string(over), true, ScopeBundle, nil, "")
	assert.False(t, inserted)
}

func TestBundleScopeClearedOnPop(t *testing.T) {
	tbl := NewTable()
	tbl.Put("default", "local_fact", true, ScopeBundle, nil, "")
	tbl.Put("default", "global_fact", true, ScopeNamespace, nil, "")

	tbl.RemoveScope(ScopeBundle)

	_, ok := tbl.GetScoped("default", "local_fact", ScopeBundle)
	assert.False(t, ok)
	_, ok = tbl.GetScoped("default", "global_fact", ScopeNamespace)
	assert.True(t, ok)
}

func TestMatch(t *testing.T) {
	tbl := NewTable()
	tbl.Put("default", "linux", false, ScopeNamespace, nil, "")
	tbl.Put("default", "ubuntu", false, ScopeNamespace, nil, "")

	cls, err := tbl.Match("^ubu.*")
	require.NoError(t, err)
	require.NotNil(t, cls)
	assert.Equal(t, "ubuntu", cls.Name)
}

func TestMatchingRegexTagFilter(t *testing.T) {
	tbl := NewTable()
	tbl.Put("default", "mykept", true, ScopeNamespace, []string{"source=persistent"}, "")
	tbl.Put("default", "other", true, ScopeNamespace, nil, "")

	matches, err := tbl.MatchingRegex(".*", []string{"source=persistent"}, false)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "mykept", matches[0].Name)
}
