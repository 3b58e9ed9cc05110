package dashboard

import (
	"context"

	"go.uber.org/zap"

	"github.com/homeharmony/backend/domain"
	"github.com/homeharmony/backend/pkg/clock"
	"github.com/homeharmony/backend/repository"
)

type UseCase struct {
	members repository.MemberRepository
	tasks   repository.TaskRepository
	items   repository.ItemRepository
	clock   clock.Clock
	logger  *zap.Logger
}

func New(members repository.MemberRepository, tasks repository.TaskRepository, items repository.ItemRepository, clk clock.Clock, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &UseCase{members: members, tasks: tasks, items: items, clock: clk, logger: logger}
}

// Summary reads one snapshot of the household and condenses it.
func (uc *UseCase) Summary(ctx context.Context) (*domain.Summary, error) {
	members, err := uc.members.List(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := uc.tasks.List(ctx, repository.TaskFilter{})
	if err != nil {
		return nil, err
	}
	items, err := uc.items.List(ctx)
	if err != nil {
		return nil, err
	}
	s := domain.Summarize(members, tasks, items, uc.clock.Now())
	return &s, nil
}
