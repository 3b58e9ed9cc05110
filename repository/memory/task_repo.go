package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/homeharmony/backend/domain"
	"github.com/homeharmony/backend/repository"
)

type taskRepository struct {
	mu    sync.RWMutex
	tasks []domain.Task
}

func NewTaskRepository(seed ...domain.Task) repository.TaskRepository {
	return &taskRepository{tasks: append([]domain.Task(nil), seed...)}
}

func (r *taskRepository) GetByID(_ context.Context, id string) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.tasks {
		if t.ID == id {
			out := t
			return &out, nil
		}
	}
	return nil, domain.ErrTaskNotFound
}

func (r *taskRepository) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Task
	skipped := 0
	for _, t := range r.tasks {
		if filter.AssignedTo != "" && t.AssignedTo != filter.AssignedTo {
			continue
		}
		if filter.Completed != nil && t.Completed != *filter.Completed {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		out = append(out, t)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (r *taskRepository) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	for _, t := range r.tasks {
		if t.ID == task.ID {
			return nil, domain.NewError(domain.ErrCodeConflict, "task id already exists")
		}
	}
	now := time.Now()
	task.CreatedAt, task.UpdatedAt = now, now
	r.tasks = append(r.tasks, *task)
	return task, nil
}

func (r *taskRepository) Update(_ context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tasks {
		if r.tasks[i].ID == task.ID {
			task.CreatedAt = r.tasks[i].CreatedAt
			task.UpdatedAt = time.Now()
			r.tasks[i] = *task
			return nil
		}
	}
	return domain.ErrTaskNotFound
}

func (r *taskRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return nil
		}
	}
	return domain.ErrTaskNotFound
}
