package services

import (
	"context"
	"testing"
	"time"

	"github.com/homeharmony/backend/domain"
)

type countingMaterializer struct {
	calls int
	err   error
}

func (c *countingMaterializer) MaterializeFollowUps(ctx context.Context) ([]domain.Task, error) {
	c.calls++
	if _, ok := ctx.Deadline(); !ok {
		return nil, context.DeadlineExceeded
	}
	return []domain.Task{{ID: "f1"}}, c.err
}

func TestRecurrenceJobRunCallsUseCase(t *testing.T) {
	m := &countingMaterializer{}
	job, err := NewRecurrenceJob(m, time.UTC, 30*time.Second, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	job.Run()
	job.Run()
	if m.calls != 2 {
		t.Fatalf("expected two sweeps, got %d", m.calls)
	}

	m.err = domain.ErrNoMembers
	job.Run()
	if m.calls != 3 {
		t.Fatalf("expected sweep despite previous error, got %d", m.calls)
	}
}

func TestRecurrenceJobStartStop(t *testing.T) {
	job, err := NewRecurrenceJob(&countingMaterializer{}, nil, time.Hour, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	job.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := job.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
}
