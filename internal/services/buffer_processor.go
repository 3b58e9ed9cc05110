package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/homeharmony/backend/domain"
	"github.com/homeharmony/backend/internal/infrastructure/buffer"
	"github.com/homeharmony/backend/repository"
	"github.com/homeharmony/backend/usecase"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// ProcessorConfig controls how frequently the buffer is drained.
type ProcessorConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
	Retention  time.Duration
}

// Repositories are the primary stores buffered writes replay into.
type Repositories struct {
	Members repository.MemberRepository
	Tasks   repository.TaskRepository
	Items   repository.ItemRepository
}

// BufferProcessor replays buffered household writes once storage is back.
type BufferProcessor struct {
	store   *buffer.Store
	monitor ConnectionHealth
	repos   Repositories
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     ProcessorConfig
}

func NewBufferProcessor(
	store *buffer.Store,
	monitor ConnectionHealth,
	repos Repositories,
	logger *zap.Logger,
	cfg ProcessorConfig,
) (*BufferProcessor, error) {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bp := &BufferProcessor{
		store:   store,
		monitor: monitor,
		repos:   repos,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", max(1, int(cfg.Interval.Seconds())))
	if _, err := bp.cron.AddFunc(schedule, bp.tick); err != nil {
		return nil, fmt.Errorf("schedule buffer drain: %w", err)
	}
	return bp, nil
}

func (bp *BufferProcessor) Start() {
	if bp == nil || bp.cron == nil {
		return
	}
	bp.cron.Start()
	bp.logger.Info("buffer processor started", zap.Duration("interval", bp.cfg.Interval))
}

// Stop waits for a running drain to finish or ctx to expire.
func (bp *BufferProcessor) Stop(ctx context.Context) error {
	if bp == nil || bp.cron == nil {
		return nil
	}
	stopCtx := bp.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (bp *BufferProcessor) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), bp.cfg.Interval)
	defer cancel()
	if _, err := bp.Drain(ctx); err != nil {
		bp.logger.Error("buffer drain failed", zap.Error(err))
	}
	if bp.cfg.Retention > 0 {
		removed, err := bp.store.Cleanup(time.Now().Add(-bp.cfg.Retention))
		if err != nil {
			bp.logger.Warn("buffer cleanup failed", zap.Error(err))
		} else if removed > 0 {
			bp.logger.Warn("expired buffered writes dropped", zap.Int("count", removed))
		}
	}
}

// Drain replays buffered entries in order and returns how many were applied.
// It stops at the first failure so later writes never overtake earlier ones.
func (bp *BufferProcessor) Drain(ctx context.Context) (int, error) {
	if bp == nil || bp.store == nil {
		return 0, nil
	}
	if bp.monitor != nil && !bp.monitor.IsOnline() {
		bp.logger.Debug("skipping buffer drain (offline)")
		return 0, nil
	}

	entries, err := bp.store.Batch(bp.cfg.BatchSize)
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, entry := range entries {
		if err := bp.apply(ctx, entry); err != nil {
			bp.logger.Error("failed to replay buffered write",
				zap.String("entry_id", entry.ID),
				zap.String("entity", entry.Entity),
				zap.String("operation", entry.Operation),
				zap.Error(err))

			if entry.Retries+1 >= bp.cfg.MaxRetries {
				bp.logger.Warn("dropping buffered write (max retries reached)", zap.String("entry_id", entry.ID))
				if rmErr := bp.store.Remove(entry); rmErr != nil {
					return applied, rmErr
				}
				continue
			}
			if rqErr := bp.store.Requeue(entry, err); rqErr != nil {
				return applied, rqErr
			}
			break
		}

		if err := bp.store.Remove(entry); err != nil {
			return applied, err
		}
		applied++
	}

	if applied > 0 {
		bp.logger.Info("buffered writes replayed", zap.Int("count", applied))
	}
	return applied, nil
}

// Enqueue persists an entry for a later drain.
func (bp *BufferProcessor) Enqueue(_ context.Context, entry buffer.Entry) error {
	if bp == nil || bp.store == nil {
		return fmt.Errorf("buffer processor not configured")
	}
	return bp.store.Enqueue(entry)
}

func (bp *BufferProcessor) Size() int {
	if bp == nil || bp.store == nil {
		return 0
	}
	size, err := bp.store.Size()
	if err != nil {
		return 0
	}
	return size
}

func (bp *BufferProcessor) apply(ctx context.Context, entry buffer.Entry) error {
	switch entry.Entity {
	case buffer.EntityMember:
		var m domain.Member
		if err := entry.Decode(&m); err != nil {
			return err
		}
		return replay(entry.Operation,
			func() error { _, err := bp.repos.Members.Create(ctx, &m); return err },
			func() error { return bp.repos.Members.Update(ctx, &m) },
			func() error { return bp.repos.Members.Delete(ctx, m.ID) })

	case buffer.EntityTask:
		var t domain.Task
		if err := entry.Decode(&t); err != nil {
			return err
		}
		return replay(entry.Operation,
			func() error { _, err := bp.repos.Tasks.Create(ctx, &t); return err },
			func() error { return bp.repos.Tasks.Update(ctx, &t) },
			func() error { return bp.repos.Tasks.Delete(ctx, t.ID) })

	case buffer.EntityItem:
		var it domain.Item
		if err := entry.Decode(&it); err != nil {
			return err
		}
		return replay(entry.Operation,
			func() error { _, err := bp.repos.Items.Create(ctx, &it); return err },
			func() error { return bp.repos.Items.Update(ctx, &it) },
			func() error { return bp.repos.Items.Delete(ctx, it.ID) })

	default:
		return fmt.Errorf("unsupported entity %s", entry.Entity)
	}
}

// replay runs the operation and treats outcomes that mean "already applied"
// as success: a create hitting an existing id, a delete of a missing record.
func replay(operation string, create, update, del func() error) error {
	switch operation {
	case usecase.OperationCreate:
		if err := create(); err != nil && !domain.IsDomainError(err, domain.ErrCodeConflict) {
			return err
		}
		return nil
	case usecase.OperationUpdate:
		return update()
	case usecase.OperationDelete:
		if err := del(); err != nil && !domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return err
		}
		return nil
	default:
		return fmt.Errorf("unsupported operation %s", operation)
	}
}
