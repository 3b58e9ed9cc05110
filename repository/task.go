package repository

import (
	"context"

	"github.com/homeharmony/backend/domain"
)

type TaskFilter struct {
	AssignedTo string
	Completed  *bool
	// Limit <= 0 returns every matching task.
	Limit  int
	Offset int
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
}
