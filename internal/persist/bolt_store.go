package persist

import (
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"
)

var bucketName = []byte("persistent_classes")

// BoltStore is the default on-disk Store backend, a single bbolt file
// surviving across process restarts (spec §4.6: "survives across
// processes until their expiry"). Chosen over a remote KV client because
// the spec's persistence model is single-host and embedded; see
// SPEC_FULL.md's domain-stack table for the grounding.
type BoltStore struct {
	db *bbolt.DB
}

func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open persistent-class store %q: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init persistent-class bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// encodeRecord lays out {expires:int64, policy:uint8, tags:NUL-terminated
// string}, matching spec §6's "Persisted state layout" exactly.
func encodeRecord(rec Record) []byte {
	buf := make([]byte, 8+1+len(rec.Tags)+1)
	binary.BigEndian.PutUint64(buf[0:8], uint64(rec.Expires))
	buf[8] = byte(rec.Policy)
	copy(buf[9:], rec.Tags)
	buf[len(buf)-1] = 0
	return buf
}

// decodeRecord tolerates a record whose size is exactly
// sizeof(expires)+sizeof(policy) (empty tags), per spec §6.
func decodeRecord(buf []byte) (Record, error) {
	if len(buf) < 9 {
		return Record{}, fmt.Errorf("persistent-class record too short: %d bytes", len(buf))
	}
	rec := Record{
		Expires: int64(binary.BigEndian.Uint64(buf[0:8])),
		Policy:  Policy(buf[8]),
	}
	if len(buf) > 9 {
		tags := buf[9:]
		if n := len(tags); n > 0 && tags[n-1] == 0 {
			tags = tags[:n-1]
		}
		rec.Tags = string(tags)
	}
	return rec, nil
}

func (b *BoltStore) Get(key string) (Record, bool, error) {
	var rec Record
	var found bool
	err := b.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(bucketName).Get([]byte(key))
		if raw == nil {
			return nil
		}
		found = true
		var err error
		rec, err = decodeRecord(raw)
		return err
	})
	return rec, found, err
}

func (b *BoltStore) Set(key string, rec Record) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), encodeRecord(rec))
	})
}

func (b *BoltStore) Delete(key string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
}

func (b *BoltStore) Range(f func(key string, rec Record) bool) error {
	return b.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketName).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			rec, err := decodeRecord(v)
			if err != nil {
				continue
			}
			if !f(string(k), rec) {
				break
			}
		}
		return nil
	})
}

func (b *BoltStore) Close() error { return b.db.Close() }
