// Package persist implements the persistent-class store of spec §4.6 and
// §6 ("Persisted state layout"). The concrete key-value engine is
// pluggable via the Store interface — per spec §1, "the key-value store
// implementation used for persistence" is an external collaborator; this
// package only owns the record shape, the load/save/expiry semantics,
// and two concrete backends (an in-memory one for tests, and a
// go.etcd.io/bbolt-backed one for production use).
package persist

import "time"

// Policy controls what a re-save of an identical record does (spec §3
// "Persistent class entry").
type Policy uint8

const (
	PolicyReset Policy = iota
	PolicyPreserve
)

// Record is a single persistent-class entry (spec §3, §6 "Persisted
// state layout"). Expires is an absolute Unix timestamp in seconds.
type Record struct {
	Expires int64
	Policy  Policy
	Tags    string
}

// Expired reports whether the record is expired relative to now (spec
// §4.6: "if expiry < now, delete it"; spec §8 boundary: "expires == now"
// at load time counts as expired too).
func (r Record) Expired(now time.Time) bool {
	return r.Expires <= now.Unix()
}

// Store is the minimal key-value contract this package needs from its
// backing engine. Keys are namespace-qualified class names ("name" or
// "ns:name", spec §3).
type Store interface {
	Get(key string) (Record, bool, error)
	Set(key string, rec Record) error
	Delete(key string) error
	// Range calls f for every stored (key, record) pair. Iteration order
	// is backend-defined; callers must not assume any particular order.
	Range(f func(key string, rec Record) bool) error
	Close() error
}
