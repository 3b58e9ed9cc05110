package redis

import (
	"context"

	redislib "github.com/redis/go-redis/v9"

	"github.com/homeharmony/backend/repository"
)

type followUpLedger struct {
	client *redislib.Client
	prefix string
}

// NewFollowUpLedger keeps one key per materialized source task. SETNX gives
// replicas a shared atomic claim.
func NewFollowUpLedger(client *redislib.Client) repository.FollowUpLedger {
	return &followUpLedger{client: client, prefix: "homeharmony:followup:"}
}

func (l *followUpLedger) Claim(ctx context.Context, sourceID string) (bool, error) {
	return l.client.SetNX(ctx, l.prefix+sourceID, 1, 0).Result()
}

func (l *followUpLedger) Release(ctx context.Context, sourceID string) error {
	return l.client.Del(ctx, l.prefix+sourceID).Err()
}

func (l *followUpLedger) IsMaterialized(ctx context.Context, sourceID string) (bool, error) {
	n, err := l.client.Exists(ctx, l.prefix+sourceID).Result()
	return n > 0, err
}
