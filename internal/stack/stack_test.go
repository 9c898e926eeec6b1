package stack

import (
	"testing"

	"github.com/evalcore/agent/internal/evalerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegalPushSequence(t *testing.T) {
	s := New()
	_, everr := s.PushBundle("default", "main", nil, nil, false)
	require.Nil(t, everr)
	s.PushBundleSection("files")
	s.PushPromise("h1")
	s.PushPromiseIteration(0, false, 0)

	assert.Equal(t, 4, s.Len())
	assert.Equal(t, KindPromiseIteration, s.Top().Kind)
}

func TestStackPathMonotonic(t *testing.T) {
	s := New()
	s.PushBundle("default", "main", nil, nil, false)
	p1 := s.Path()
	s.PushBundleSection("files")
	p2 := s.Path()
	assert.True(t, len(p2) > len(p1))
	assert.Contains(t, p2, p1)

	s.Pop()
	assert.Equal(t, p1, s.Path())
}

func TestIllegalPushPanics(t *testing.T) {
	s := New()
	assert.Panics(t, func() {
		s.PushPromise("dangling")
	})
	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r)
			_, ok := r.(evalerr.ContractViolation)
			assert.True(t, ok)
		}()
		s.PushPromise("dangling")
	}()
}

func TestArityMismatchDegradesInsteadOfFailingPush(t *testing.T) {
	s := New()
	f, everr := s.PushBundle("default", "main", []string{"a", "b"}, []string{"only-one"}, false)
	require.NotNil(t, everr)
	assert.Equal(t, evalerr.ArityMismatch, everr.Kind)
	require.NotNil(t, f)
	assert.Equal(t, 1, s.Len())
}

func TestBundleSectionRequiresBundleBelow(t *testing.T) {
	s := New()
	assert.Panics(t, func() {
		s.PushBundleSection("files")
	})
}

func TestPopEmptyPanics(t *testing.T) {
	s := New()
	assert.Panics(t, func() { s.Pop() })
}

func TestInheritedBundlesTransitive(t *testing.T) {
	s := New()
	s.PushBundle("default", "outer", nil, nil, false)
	s.PushBundleSection("vars")
	s.PushPromise("p1")
	s.PushPromiseIteration(0, false, 0)
	s.PushBundle("default", "inner", nil, nil, true)

	bundles := s.InheritedBundles()
	require.Len(t, bundles, 2)
	assert.Equal(t, "inner", bundles[0].BundleName)
	assert.Equal(t, "outer", bundles[1].BundleName)
}
