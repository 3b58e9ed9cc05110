package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homeharmony/backend/domain"
	"github.com/homeharmony/backend/repository"
)

const taskColumns = `id, name, description, COALESCE(assigned_to, ''), schedule, priority, duration,
	completed, due_date, weight, COALESCE(recurrence_of, ''), created_at, updated_at`

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	return scanTask(row)
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	query := `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE ($1 = '' OR assigned_to = $1)
	  AND ($2::boolean IS NULL OR completed = $2)
	ORDER BY created_at, id
	LIMIT $3 OFFSET $4
	`
	rows, err := r.pool.Query(ctx, query, filter.AssignedTo, filter.Completed, limitArg(filter.Limit), max(filter.Offset, 0))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, name, description, assigned_to, schedule, priority, duration, completed, due_date, weight, recurrence_of)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.Name,
		task.Description,
		nullString(task.AssignedTo),
		task.Schedule,
		string(task.Priority),
		task.Duration,
		task.Completed,
		task.DueDate,
		task.Weight,
		nullString(task.RecurrenceOf),
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, translate(err, domain.ErrTaskNotFound)
	}

	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks
	SET name = $2,
		description = $3,
		assigned_to = $4,
		schedule = $5,
		priority = $6,
		duration = $7,
		completed = $8,
		due_date = $9,
		weight = $10,
		updated_at = NOW()
	WHERE id = $1
	RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.Name,
		task.Description,
		nullString(task.AssignedTo),
		task.Schedule,
		string(task.Priority),
		task.Duration,
		task.Completed,
		task.DueDate,
		task.Weight,
	).Scan(&task.CreatedAt, &task.UpdatedAt)
	return translate(err, domain.ErrTaskNotFound)
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func scanTask(row scanner) (*domain.Task, error) {
	var (
		task     domain.Task
		priority string
	)
	if err := row.Scan(
		&task.ID,
		&task.Name,
		&task.Description,
		&task.AssignedTo,
		&task.Schedule,
		&priority,
		&task.Duration,
		&task.Completed,
		&task.DueDate,
		&task.Weight,
		&task.RecurrenceOf,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, translate(err, domain.ErrTaskNotFound)
	}
	task.Priority = domain.Priority(priority)
	return &task, nil
}
