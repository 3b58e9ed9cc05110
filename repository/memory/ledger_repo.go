package memory

import (
	"context"
	"sync"

	"github.com/homeharmony/backend/repository"
)

type followUpLedger struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewFollowUpLedger returns a ledger that forgets everything on restart.
func NewFollowUpLedger() repository.FollowUpLedger {
	return &followUpLedger{seen: make(map[string]struct{})}
}

func (l *followUpLedger) Claim(_ context.Context, sourceID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.seen[sourceID]; ok {
		return false, nil
	}
	l.seen[sourceID] = struct{}{}
	return true, nil
}

func (l *followUpLedger) Release(_ context.Context, sourceID string) error {
	l.mu.Lock()
	delete(l.seen, sourceID)
	l.mu.Unlock()
	return nil
}

func (l *followUpLedger) IsMaterialized(_ context.Context, sourceID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.seen[sourceID]
	return ok, nil
}
