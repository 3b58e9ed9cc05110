package task

import (
	"context"

	"go.uber.org/zap"

	"github.com/homeharmony/backend/domain"
	"github.com/homeharmony/backend/pkg/clock"
	"github.com/homeharmony/backend/pkg/idgen"
	appLogger "github.com/homeharmony/backend/pkg/logger"
	"github.com/homeharmony/backend/repository"
	"github.com/homeharmony/backend/usecase"
	"github.com/homeharmony/backend/usecase/recurrence"
)

type UseCase struct {
	tasks     repository.TaskRepository
	members   repository.MemberRepository
	scheduler *recurrence.Scheduler
	buffer    usecase.OperationBuffer
	notifier  usecase.Notifier
	clock     clock.Clock
	ids       idgen.Generator
	logger    *zap.Logger
}

type Deps struct {
	Tasks     repository.TaskRepository
	Members   repository.MemberRepository
	Scheduler *recurrence.Scheduler
	Buffer    usecase.OperationBuffer
	Notifier  usecase.Notifier
	Clock     clock.Clock
	IDs       idgen.Generator
	Logger    *zap.Logger
}

func New(deps Deps) *UseCase {
	uc := &UseCase{
		tasks:     deps.Tasks,
		members:   deps.Members,
		scheduler: deps.Scheduler,
		buffer:    deps.Buffer,
		notifier:  deps.Notifier,
		clock:     deps.Clock,
		ids:       deps.IDs,
		logger:    deps.Logger,
	}
	if uc.logger == nil {
		uc.logger = zap.NewNop()
	}
	if uc.notifier == nil {
		uc.notifier = usecase.NopNotifier{}
	}
	if uc.clock == nil {
		uc.clock = clock.System{}
	}
	if uc.ids == nil {
		uc.ids = idgen.UUID{}
	}
	return uc
}

func (uc *UseCase) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	return uc.tasks.List(ctx, filter)
}

func (uc *UseCase) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return uc.tasks.GetByID(ctx, id)
}

// CreateTask stores a new incomplete chore. Without an explicit assignee it
// goes to the least-loaded member.
func (uc *UseCase) CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	task.ApplyDefaults(uc.clock.Now())
	task.Completed = false
	task.RecurrenceOf = ""
	if err := task.Validate(); err != nil {
		return nil, err
	}

	members, tasks, err := uc.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	if task.AssignedTo == "" {
		assignee, err := domain.LeastLoadedMember(members, tasks)
		if err != nil {
			return nil, err
		}
		task.AssignedTo = assignee
	} else if _, ok := domain.FindMember(members, task.AssignedTo); !ok {
		return nil, domain.ErrMemberNotFound
	}

	if task.ID == "" {
		task.ID = uc.ids.NewID()
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationCreate, task, err) {
			return task, nil
		}
		return nil, err
	}
	log := appLogger.WithRequestID(ctx, uc.logger)
	log.Info("task created",
		zap.String("task_id", created.ID),
		zap.String("assigned_to", created.AssignedTo),
		zap.Int("weight", created.Weight))
	if assignee, ok := domain.FindMember(members, created.AssignedTo); ok {
		if err := uc.notifier.TaskAssigned(ctx, *created, assignee); err != nil {
			log.Warn("assignment notification failed", zap.String("task_id", created.ID), zap.Error(err))
		}
	}
	return created, nil
}

// UpdateTask applies a manual edit to an existing task.
func (uc *UseCase) UpdateTask(ctx context.Context, id string, patch Patch) (*domain.Task, error) {
	current, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := patch.Apply(*current)
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	if updated.AssignedTo != "" && updated.AssignedTo != current.AssignedTo {
		if _, err := uc.members.GetByID(ctx, updated.AssignedTo); err != nil {
			return nil, err
		}
	}
	return uc.save(ctx, &updated)
}

func (uc *UseCase) DeleteTask(ctx context.Context, id string) error {
	if err := uc.tasks.Delete(ctx, id); err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationDelete, &domain.Task{ID: id}, err) {
			return nil
		}
		return err
	}
	return nil
}

// ToggleTask flips a task between completed and open.
func (uc *UseCase) ToggleTask(ctx context.Context, id string) (*domain.Task, error) {
	current, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	toggled := domain.ToggleCompletion(*current, uc.clock.Now())
	return uc.save(ctx, &toggled)
}

// Redistribute rebalances every incomplete task across the household and
// persists the tasks whose assignee changed. A failed save undoes the moves
// already written.
func (uc *UseCase) Redistribute(ctx context.Context) ([]domain.Task, error) {
	members, tasks, err := uc.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	balanced, err := domain.Redistribute(members, tasks)
	if err != nil {
		return nil, err
	}

	log := appLogger.WithRequestID(ctx, uc.logger)
	var applied []int
	for i := range balanced {
		if balanced[i].AssignedTo == tasks[i].AssignedTo {
			continue
		}
		if _, err := uc.save(ctx, &balanced[i]); err != nil {
			uc.revert(ctx, log, tasks, applied)
			return nil, err
		}
		applied = append(applied, i)
	}

	log.Info("tasks redistributed",
		zap.Int("tasks", len(balanced)),
		zap.Int("reassigned", len(applied)))
	return balanced, nil
}

// revert restores the original assignees of the tasks already moved by a
// redistribution that failed part way.
func (uc *UseCase) revert(ctx context.Context, log *zap.Logger, original []domain.Task, applied []int) {
	for j := len(applied) - 1; j >= 0; j-- {
		prev := original[applied[j]]
		if _, err := uc.save(ctx, &prev); err != nil {
			log.Error("failed to revert reassignment",
				zap.String("task_id", prev.ID),
				zap.String("assigned_to", prev.AssignedTo),
				zap.Error(err))
		}
	}
}

// MaterializeFollowUps creates the follow-ups that are due at the current
// time and returns the stored tasks.
func (uc *UseCase) MaterializeFollowUps(ctx context.Context) ([]domain.Task, error) {
	if uc.scheduler == nil {
		return nil, domain.NewError(domain.ErrCodeInvalidState, "recurrence scheduler not configured")
	}
	members, tasks, err := uc.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	followUps, err := uc.scheduler.DueFollowUps(ctx, tasks, members, uc.clock.Now())
	if err != nil {
		return nil, err
	}

	log := appLogger.WithRequestID(ctx, uc.logger)
	created := make([]domain.Task, 0, len(followUps))
	for i := range followUps {
		next := followUps[i]
		stored, err := uc.tasks.Create(ctx, &next)
		if err != nil {
			if uc.shouldBuffer(ctx, usecase.OperationCreate, &next, err) {
				stored = &next
			} else {
				if relErr := uc.scheduler.Release(ctx, next.RecurrenceOf); relErr != nil {
					log.Error("failed to release follow-up claim",
						zap.String("source_id", next.RecurrenceOf), zap.Error(relErr))
				}
				log.Error("failed to store follow-up",
					zap.String("source_id", next.RecurrenceOf), zap.Error(err))
				continue
			}
		}
		created = append(created, *stored)

		if assignee, ok := domain.FindMember(members, stored.AssignedTo); ok {
			if err := uc.notifier.TaskAssigned(ctx, *stored, assignee); err != nil {
				log.Warn("follow-up notification failed", zap.String("task_id", stored.ID), zap.Error(err))
			}
		}
	}

	if len(created) > 0 {
		log.Info("follow-ups materialized", zap.Int("count", len(created)))
	}
	return created, nil
}

func (uc *UseCase) save(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if err := uc.tasks.Update(ctx, task); err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationUpdate, task, err) {
			return task, nil
		}
		return nil, err
	}
	return task, nil
}

func (uc *UseCase) snapshot(ctx context.Context) ([]domain.Member, []domain.Task, error) {
	members, err := uc.members.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	tasks, err := uc.tasks.List(ctx, repository.TaskFilter{})
	if err != nil {
		return nil, nil, err
	}
	return members, tasks, nil
}

func (uc *UseCase) shouldBuffer(ctx context.Context, operation string, task *domain.Task, cause error) bool {
	if uc.buffer == nil || !usecase.Bufferable(cause) {
		return false
	}
	if err := uc.buffer.BufferTask(ctx, operation, task); err != nil {
		uc.logger.Error("failed to buffer task operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	uc.logger.Warn("task operation buffered", zap.String("operation", operation), zap.Error(cause))
	return true
}
