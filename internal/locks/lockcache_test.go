package locks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyIsDeterministic(t *testing.T) {
	k1 := Key("/bundle/main/promise[0]", "/etc/motd")
	k2 := Key("/bundle/main/promise[0]", "/etc/motd")
	assert.Equal(t, k1, k2)
}

func TestKeyDiffersByPromiser(t *testing.T) {
	k1 := Key("/bundle/main/promise[0]", "/etc/motd")
	k2 := Key("/bundle/main/promise[0]", "/etc/hosts")
	assert.NotEqual(t, k1, k2)
}

func TestKeyDiffersByFramePath(t *testing.T) {
	k1 := Key("/bundle/main/promise[0]", "/etc/motd")
	k2 := Key("/bundle/other/promise[0]", "/etc/motd")
	assert.NotEqual(t, k1, k2)
}

func TestCachePutContainsRelease(t *testing.T) {
	c := NewCache()
	key := Key("/p", "x")
	assert.False(t, c.Contains(key))
	c.Put(key)
	assert.True(t, c.Contains(key))
	c.Release(key)
	assert.False(t, c.Contains(key))
}

func TestCacheClear(t *testing.T) {
	c := NewCache()
	c.Put(Key("/p", "x"))
	c.Put(Key("/p", "y"))
	assert.Equal(t, 2, c.Len())
	c.Clear()
	assert.Equal(t, 0, c.Len())
}
