// Package bolt persists the follow-up ledger in a local bbolt file so that
// fire-once tracking survives restarts on a single host.
package bolt

import (
	"context"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/homeharmony/backend/repository"
)

const ledgerBucket = "followups"

type followUpLedger struct {
	db     *bolt.DB
	bucket []byte
}

// NewFollowUpLedger ensures the ledger bucket exists in db.
func NewFollowUpLedger(db *bolt.DB) (repository.FollowUpLedger, error) {
	l := &followUpLedger{db: db, bucket: []byte(ledgerBucket)}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(l.bucket)
		return err
	}); err != nil {
		return nil, err
	}
	return l, nil
}

// Claim runs inside a single read-write transaction; bbolt serializes writers,
// which makes the check-and-set atomic.
func (l *followUpLedger) Claim(_ context.Context, sourceID string) (bool, error) {
	claimed := false
	err := l.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(l.bucket)
		if b.Get([]byte(sourceID)) != nil {
			return nil
		}
		claimed = true
		stamp, _ := time.Now().UTC().MarshalBinary()
		return b.Put([]byte(sourceID), stamp)
	})
	if err != nil {
		return false, err
	}
	return claimed, nil
}

func (l *followUpLedger) Release(_ context.Context, sourceID string) error {
	return l.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(l.bucket).Delete([]byte(sourceID))
	})
}

func (l *followUpLedger) IsMaterialized(_ context.Context, sourceID string) (bool, error) {
	found := false
	err := l.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(l.bucket).Get([]byte(sourceID)) != nil
		return nil
	})
	return found, err
}
