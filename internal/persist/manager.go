package persist

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Manager implements the load/save/remove semantics of spec §4.6 on top
// of a Store. It is deliberately I/O-policy-free: persistence failures
// degrade silently per spec §7 ("Persistence I/O failures degrade
// silently (empty load, skipped save)"), so every exported method here
// returns an error only for the caller's own logging; the EvalContext
// façade is the one that decides to swallow it.
type Manager struct {
	store Store
	clock func() time.Time
}

func NewManager(store Store) *Manager {
	return &Manager{store: store, clock: time.Now}
}

// LoadedClass is one class materialized from the persistent store,
// ready for the caller to insert into the global class table (spec
// §4.6: "insert the class into the global table with scope
// namespace-global, flag soft, and tag source=persistent").
type LoadedClass struct {
	Namespace string
	Name      string
	Tags      []string
}

// LoadAll iterates every stored entry, deleting expired ones, and
// returns the still-valid entries as classes to insert. negated is a set
// of qualified names to skip entirely (spec §4.6: "Honor a
// negated-classes filter: names in it are skipped"). Errors from
// individual deletes are aggregated with go-multierror so one bad entry
// does not abort the whole load — mirroring the corpus's pattern of
// tolerating partial failures in multi-entry operations.
func (m *Manager) LoadAll(negated map[string]struct{}) ([]LoadedClass, error) {
	var loaded []LoadedClass
	var toDelete []string
	var errs *multierror.Error

	now := m.clock()
	err := m.store.Range(func(key string, rec Record) bool {
		if rec.Expired(now) {
			toDelete = append(toDelete, key)
			return true
		}
		if _, skip := negated[key]; skip {
			return true
		}
		ns, name := splitQualified(key)
		tags := splitTags(rec.Tags)
		tags = append(tags, "source=persistent")
		loaded = append(loaded, LoadedClass{Namespace: ns, Name: name, Tags: tags})
		return true
	})
	if err != nil {
		errs = multierror.Append(errs, fmt.Errorf("range persistent store: %w", err))
	}
	for _, key := range toDelete {
		if err := m.store.Delete(key); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("delete expired entry %q: %w", key, err))
		}
	}
	return loaded, errs.ErrorOrNil()
}

// Save writes a record for name with the given ttl and policy, honoring
// the idempotence rule from spec §3 and §8 invariant 5: a preserve-policy
// record whose expiry is still valid and whose tags are unchanged is not
// overwritten.
func (m *Manager) Save(name string, ttlMinutes int, policy Policy, tags string) error {
	now := m.clock()
	existing, found, err := m.store.Get(name)
	if err != nil {
		return err
	}
	if found && existing.Policy == PolicyPreserve && !existing.Expired(now) && existing.Tags == tags {
		return nil
	}
	rec := Record{
		Expires: now.Add(time.Duration(ttlMinutes) * time.Minute).Unix(),
		Policy:  policy,
		Tags:    tags,
	}
	return m.store.Set(name, rec)
}

// Remove deletes a record by exact name.
func (m *Manager) Remove(name string) error {
	return m.store.Delete(name)
}

func splitQualified(key string) (ns, name string) {
	if idx := strings.IndexByte(key, ':'); idx >= 0 {
		return key[:idx], key[idx+1:]
	}
	return "", key
}

func splitTags(tags string) []string {
	if tags == "" {
		return nil
	}
	parts := strings.Split(tags, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
