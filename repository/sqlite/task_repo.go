package sqlite

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homeharmony/backend/domain"
	"github.com/homeharmony/backend/repository"
)

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	var row taskModel
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, translate(err, domain.ErrTaskNotFound)
	}
	t := row.toDomain()
	return &t, nil
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	q := r.db.WithContext(ctx).Model(&taskModel{}).Order("created_at, id")
	if filter.AssignedTo != "" {
		q = q.Where("assigned_to = ?", filter.AssignedTo)
	}
	if filter.Completed != nil {
		q = q.Where("completed = ?", *filter.Completed)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var rows []taskModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	tasks := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, row.toDomain())
	}
	return tasks, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	row := taskFromDomain(task)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, translate(err, domain.ErrTaskNotFound)
	}
	task.CreatedAt, task.UpdatedAt = row.CreatedAt, row.UpdatedAt
	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	res := r.db.WithContext(ctx).Model(&taskModel{ID: task.ID}).Updates(map[string]any{
		"name":        task.Name,
		"description": task.Description,
		"assigned_to": task.AssignedTo,
		"schedule":    task.Schedule,
		"priority":    string(task.Priority),
		"duration":    task.Duration,
		"completed":   task.Completed,
		"due_date":    task.DueDate,
		"weight":      task.Weight,
	})
	if res.Error != nil {
		return translate(res.Error, domain.ErrTaskNotFound)
	}
	if res.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&taskModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}
