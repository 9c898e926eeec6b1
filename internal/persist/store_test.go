package persist

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordExpiredBoundary(t *testing.T) {
	now := time.Unix(1000, 0)
	assert.True(t, Record{Expires: 1000}.Expired(now), "expires == now counts as expired")
	assert.True(t, Record{Expires: 999}.Expired(now))
	assert.False(t, Record{Expires: 1001}.Expired(now))
}

func TestMemoryStoreGetSetDelete(t *testing.T) {
	s := NewMemoryStore()
	_, found, err := s.Get("default:foo")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set("default:foo", Record{Expires: 100, Policy: PolicyPreserve, Tags: "a,b"}))
	rec, found, err := s.Get("default:foo")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(100), rec.Expires)
	assert.Equal(t, "a,b", rec.Tags)

	require.NoError(t, s.Delete("default:foo"))
	_, found, err = s.Get("default:foo")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStoreRange(t *testing.T) {
	s := NewMemoryStore()
	s.Set("a", Record{Expires: 1})
	s.Set("b", Record{Expires: 2})
	seen := map[string]bool{}
	require.NoError(t, s.Range(func(key string, rec Record) bool {
		seen[key] = true
		return true
	}))
	assert.Len(t, seen, 2)
}

func TestEncodeDecodeRecordRoundTrip(t *testing.T) {
	rec := Record{Expires: 1700000000, Policy: PolicyPreserve, Tags: "source=persistent,role=web"}
	buf := encodeRecord(rec)
	decoded, err := decodeRecord(buf)
	require.NoError(t, err)
	assert.Equal(t, rec, decoded)
}

func TestEncodeDecodeRecordEmptyTags(t *testing.T) {
	rec := Record{Expires: 42, Policy: PolicyReset, Tags: ""}
	buf := encodeRecord(rec)
	assert.Len(t, buf, 10) // 8 (expires) + 1 (policy) + 1 (NUL)

	decoded, err := decodeRecord(buf)
	require.NoError(t, err)
	assert.Equal(t, rec, decoded)
}

func TestDecodeRecordToleratesNineByteEmptyTags(t *testing.T) {
	// 8 bytes expires + 1 byte policy, no tags and no trailing NUL at all.
	buf := make([]byte, 9)
	buf[8] = byte(PolicyPreserve)
	rec, err := decodeRecord(buf)
	require.NoError(t, err)
	assert.Equal(t, "", rec.Tags)
	assert.Equal(t, PolicyPreserve, rec.Policy)
}

func TestDecodeRecordRejectsTooShort(t *testing.T) {
	_, err := decodeRecord([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestBoltStoreGetSetDeleteRange(t *testing.T) {
	dir := t.TempDir()
	store, err := OpenBoltStore(filepath.Join(dir, "persist.db"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set("default:webserver", Record{Expires: 500, Policy: PolicyReset, Tags: "role=web"}))
	rec, found, err := store.Get("default:webserver")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(500), rec.Expires)
	assert.Equal(t, "role=web", rec.Tags)

	count := 0
	require.NoError(t, store.Range(func(key string, rec Record) bool {
		count++
		return true
	}))
	assert.Equal(t, 1, count)

	require.NoError(t, store.Delete("default:webserver"))
	_, found, err = store.Get("default:webserver")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestBoltStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "persist.db")

	store, err := OpenBoltStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set("default:x", Record{Expires: 900}))
	require.NoError(t, store.Close())

	_, err = os.Stat(path)
	require.NoError(t, err)

	reopened, err := OpenBoltStore(path)
	require.NoError(t, err)
	defer reopened.Close()
	rec, found, err := reopened.Get("default:x")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(900), rec.Expires)
}

func TestManagerLoadAllSkipsExpiredAndNegated(t *testing.T) {
	s := NewMemoryStore()
	fixed := time.Unix(1_000_000, 0)
	m := &Manager{store: s, clock: func() time.Time { return fixed }}

	s.Set("default:fresh", Record{Expires: fixed.Unix() + 60, Tags: "a"})
	s.Set("default:stale", Record{Expires: fixed.Unix() - 1})
	s.Set("default:excluded", Record{Expires: fixed.Unix() + 60})

	loaded, err := m.LoadAll(map[string]struct{}{"default:excluded": {}})
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "fresh", loaded[0].Name)
	assert.Contains(t, loaded[0].Tags, "source=persistent")

	_, found, _ := s.Get("default:stale")
	assert.False(t, found, "expired entries must be deleted during load")
}

func TestManagerSavePreservePolicyIsIdempotent(t *testing.T) {
	s := NewMemoryStore()
	fixed := time.Unix(1_000_000, 0)
	m := &Manager{store: s, clock: func() time.Time { return fixed }}

	require.NoError(t, m.Save("default:x", 10, PolicyPreserve, "a,b"))
	first, _, _ := s.Get("default:x")

	require.NoError(t, m.Save("default:x", 10, PolicyPreserve, "a,b"))
	second, _, _ := s.Get("default:x")

	assert.Equal(t, first.Expires, second.Expires, "preserve policy must not reset expiry when tags are unchanged")
}

func TestManagerSaveResetPolicyOverwrites(t *testing.T) {
	s := NewMemoryStore()
	tick := int64(1_000_000)
	m := &Manager{store: s, clock: func() time.Time { return time.Unix(tick, 0) }}

	require.NoError(t, m.Save("default:x", 10, PolicyReset, "a"))
	first, _, _ := s.Get("default:x")

	tick += 30
	require.NoError(t, m.Save("default:x", 10, PolicyReset, "a"))
	second, _, _ := s.Get("default:x")

	assert.NotEqual(t, first.Expires, second.Expires)
}
