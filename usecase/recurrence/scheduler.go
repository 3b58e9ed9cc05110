// Package recurrence materializes follow-up instances of completed chores.
//
// Each completed task moves through three states: pending (completed, no
// follow-up yet), materialized (follow-up created) and, before completion,
// active. The transition to materialized is recorded in a FollowUpLedger so it
// happens at most once per source task, across calls and across restarts when
// the ledger is durable.
package recurrence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/homeharmony/backend/domain"
	"github.com/homeharmony/backend/pkg/idgen"
	"github.com/homeharmony/backend/repository"
)

const maxIDAttempts = 8

// Scheduler decides which completed tasks are due for a follow-up.
type Scheduler struct {
	ledger   repository.FollowUpLedger
	ids      idgen.Generator
	location *time.Location
	logger   *zap.Logger
}

// Option customises a Scheduler.
type Option func(*Scheduler)

// WithLocation evaluates fire thresholds in loc instead of each due date's own zone.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) { s.location = loc }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(ledger repository.FollowUpLedger, ids idgen.Generator, opts ...Option) *Scheduler {
	s := &Scheduler{
		ledger: ledger,
		ids:    ids,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FireThreshold returns when task's follow-up becomes due.
func (s *Scheduler) FireThreshold(task domain.Task) time.Time {
	return domain.FireThreshold(task.DueDate, s.location)
}

// DueFollowUps returns one new task for every completed task whose fire
// threshold is at or before now and whose follow-up has not been
// materialized yet. tasks is not modified. On error every claim taken during
// the call is released and nothing is returned.
func (s *Scheduler) DueFollowUps(ctx context.Context, tasks []domain.Task, members []domain.Member, now time.Time) ([]domain.Task, error) {
	if len(members) == 0 {
		return nil, domain.ErrNoMembers
	}

	taken := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		taken[t.ID] = struct{}{}
	}

	var (
		out     []domain.Task
		claimed []string
	)
	fail := func(err error) ([]domain.Task, error) {
		s.rollback(claimed)
		return nil, err
	}

	for _, src := range tasks {
		if !src.Completed {
			continue
		}
		threshold := s.FireThreshold(src)
		if now.Before(threshold) {
			continue
		}

		ok, err := s.ledger.Claim(ctx, src.ID)
		if err != nil {
			return fail(fmt.Errorf("claim follow-up for task %s: %w", src.ID, err))
		}
		if !ok {
			continue
		}
		claimed = append(claimed, src.ID)

		assignee, err := domain.NextInRotation(members, src.AssignedTo)
		if err != nil {
			return fail(err)
		}
		id, err := s.freshID(taken)
		if err != nil {
			return fail(err)
		}
		taken[id] = struct{}{}

		out = append(out, domain.NewFollowUp(src, id, assignee, threshold))
		s.logger.Debug("follow-up materialized",
			zap.String("source_id", src.ID),
			zap.String("task_id", id),
			zap.String("assigned_to", assignee))
	}

	return out, nil
}

// Release returns sourceID to the pending state, for callers that could not
// store the follow-up they were given.
func (s *Scheduler) Release(ctx context.Context, sourceID string) error {
	return s.ledger.Release(ctx, sourceID)
}

func (s *Scheduler) freshID(taken map[string]struct{}) (string, error) {
	for range maxIDAttempts {
		id := s.ids.NewID()
		if _, dup := taken[id]; !dup && id != "" {
			return id, nil
		}
	}
	return "", domain.NewError(domain.ErrCodeInvalidState, "id generator keeps returning existing ids")
}

// rollback uses a fresh context: the caller's may already be cancelled.
func (s *Scheduler) rollback(claimed []string) {
	if len(claimed) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var errs error
	for _, id := range claimed {
		errs = errors.Join(errs, s.ledger.Release(ctx, id))
	}
	if errs != nil {
		s.logger.Error("failed to release follow-up claims", zap.Strings("source_ids", claimed), zap.Error(errs))
	}
}
