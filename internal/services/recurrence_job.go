package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/homeharmony/backend/domain"
)

// FollowUpMaterializer is the task use case seen from the sweep job.
type FollowUpMaterializer interface {
	MaterializeFollowUps(ctx context.Context) ([]domain.Task, error)
}

// RecurrenceJob periodically turns completed tasks past their threshold into
// follow-ups. Overlapping sweeps are skipped.
type RecurrenceJob struct {
	tasks    FollowUpMaterializer
	cron     *cron.Cron
	interval time.Duration
	logger   *zap.Logger
}

func NewRecurrenceJob(tasks FollowUpMaterializer, loc *time.Location, interval time.Duration, logger *zap.Logger) (*RecurrenceJob, error) {
	if loc == nil {
		loc = time.Local
	}
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	j := &RecurrenceJob{
		tasks:    tasks,
		interval: interval,
		logger:   logger,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
	}
	spec := fmt.Sprintf("@every %ds", max(1, int(interval.Seconds())))
	if _, err := j.cron.AddFunc(spec, j.Run); err != nil {
		return nil, fmt.Errorf("schedule recurrence sweep: %w", err)
	}
	return j, nil
}

// Run performs one sweep.
func (j *RecurrenceJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.interval)
	defer cancel()

	created, err := j.tasks.MaterializeFollowUps(ctx)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeInvalidState) {
			j.logger.Debug("recurrence sweep skipped", zap.Error(err))
			return
		}
		j.logger.Error("recurrence sweep failed", zap.Error(err))
		return
	}
	if len(created) > 0 {
		j.logger.Info("recurrence sweep created follow-ups", zap.Int("count", len(created)))
	}
}

func (j *RecurrenceJob) Start() {
	j.cron.Start()
	j.logger.Info("recurrence job started", zap.Duration("interval", j.interval))
}

func (j *RecurrenceJob) Stop(ctx context.Context) error {
	stopCtx := j.cron.Stop()
	select {
	case <-stopCtx.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
