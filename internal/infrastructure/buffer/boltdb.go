package buffer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const defaultBucket = "buffer"

// Store keeps buffered writes in a bbolt bucket, ordered by priority then age.
type Store struct {
	db     *bolt.DB
	bucket []byte
	owned  bool
}

// OpenDB opens (creating directories as needed) the bbolt file shared by the
// buffer and the follow-up ledger.
func OpenDB(path string) (*bolt.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
}

// Open opens a dedicated bbolt file for the buffer.
func Open(path string, bucket string) (*Store, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}
	store, err := New(db, bucket)
	if err != nil {
		db.Close()
		return nil, err
	}
	store.owned = true
	return store, nil
}

// New uses an already opened database. Close leaves such a database open.
func New(db *bolt.DB, bucket string) (*Store, error) {
	if db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	if bucket == "" {
		bucket = defaultBucket
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		return nil, err
	}
	return &Store{db: db, bucket: []byte(bucket)}, nil
}

// Enqueue persists an entry.
func (s *Store) Enqueue(entry Entry) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	entry.normalize()
	entry.bucketKey = []byte(buildKey(entry))

	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put(entry.bucketKey, payload)
	})
}

// Batch returns up to limit entries in drain order without removing them.
func (s *Store) Batch(limit int) ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	if limit <= 0 {
		limit = 50
	}

	var entries []Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		for k, v := c.First(); k != nil && len(entries) < limit; k, v = c.Next() {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				continue
			}
			entry.bucketKey = append([]byte(nil), k...)
			entries = append(entries, entry)
		}
		return nil
	})
	return entries, err
}

func (s *Store) Remove(entry Entry) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if len(entry.bucketKey) == 0 {
		return s.deleteByID(entry.ID)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete(entry.bucketKey)
	})
}

// Requeue replaces an entry after a failed replay, bumping its retry count.
func (s *Store) Requeue(entry Entry, cause error) error {
	if err := s.Remove(entry); err != nil {
		return err
	}
	entry.bucketKey = nil
	entry.Retries++
	if cause != nil {
		entry.LastError = cause.Error()
	}
	return s.Enqueue(entry)
}

func (s *Store) Size() (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(s.bucket).Stats().KeyN
		return nil
	})
	return count, err
}

// Cleanup drops entries enqueued before olderThan and returns how many went.
func (s *Store) Cleanup(olderThan time.Time) (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		var stale [][]byte
		if err := b.ForEach(func(k, v []byte) error {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				return nil
			}
			if entry.Timestamp.Before(olderThan) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		}); err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	return removed, err
}

// Close closes the database when the store opened it.
func (s *Store) Close() error {
	if s == nil || s.db == nil || !s.owned {
		return nil
	}
	return s.db.Close()
}

func (s *Store) deleteByID(id string) error {
	if id == "" {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		var match []byte
		_ = b.ForEach(func(k, v []byte) error {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err == nil && entry.ID == id && match == nil {
				match = append([]byte(nil), k...)
			}
			return nil
		})
		if match == nil {
			return nil
		}
		return b.Delete(match)
	})
}

func buildKey(entry Entry) string {
	return fmt.Sprintf("%d_%020d_%s", entry.Priority, entry.Timestamp.UnixNano(), entry.ID)
}
