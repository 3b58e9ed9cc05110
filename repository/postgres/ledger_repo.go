package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homeharmony/backend/repository"
)

type followUpLedger struct {
	pool *pgxpool.Pool
}

// NewFollowUpLedger stores materialized source ids in the task_followups table.
func NewFollowUpLedger(pool *pgxpool.Pool) repository.FollowUpLedger {
	return &followUpLedger{pool: pool}
}

func (l *followUpLedger) Claim(ctx context.Context, sourceID string) (bool, error) {
	const query = `INSERT INTO task_followups (source_id) VALUES ($1) ON CONFLICT (source_id) DO NOTHING`
	tag, err := l.pool.Exec(ctx, query, sourceID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (l *followUpLedger) Release(ctx context.Context, sourceID string) error {
	_, err := l.pool.Exec(ctx, `DELETE FROM task_followups WHERE source_id = $1`, sourceID)
	return err
}

func (l *followUpLedger) IsMaterialized(ctx context.Context, sourceID string) (bool, error) {
	var exists bool
	err := l.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM task_followups WHERE source_id = $1)`, sourceID).Scan(&exists)
	return exists, err
}
