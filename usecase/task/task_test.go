package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/homeharmony/backend/domain"
	"github.com/homeharmony/backend/pkg/clock"
	"github.com/homeharmony/backend/pkg/idgen"
	"github.com/homeharmony/backend/repository"
	"github.com/homeharmony/backend/repository/memory"
	"github.com/homeharmony/backend/usecase/recurrence"
)

var start = time.Date(2024, time.May, 6, 10, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	assigned []string
}

func (n *recordingNotifier) TaskAssigned(_ context.Context, task domain.Task, assignee domain.Member) error {
	n.assigned = append(n.assigned, task.ID+"->"+assignee.ID)
	return nil
}

func (n *recordingNotifier) LowStock(context.Context, domain.Item) error { return nil }

type recordingBuffer struct {
	tasks []string
}

func (b *recordingBuffer) BufferMember(context.Context, string, *domain.Member) error { return nil }
func (b *recordingBuffer) BufferItem(context.Context, string, *domain.Item) error     { return nil }
func (b *recordingBuffer) BufferTask(_ context.Context, op string, task *domain.Task) error {
	b.tasks = append(b.tasks, op+":"+task.ID)
	return nil
}

// offlineTasks fails every write the way an unreachable database would.
type offlineTasks struct {
	repository.TaskRepository
}

var errOffline = errors.New("connection refused")

func (offlineTasks) Create(context.Context, *domain.Task) (*domain.Task, error) { return nil, errOffline }
func (offlineTasks) Update(context.Context, *domain.Task) error                 { return errOffline }

// vanishingTasks reports one task as gone on update, as if it was deleted
// concurrently.
type vanishingTasks struct {
	repository.TaskRepository
	gone string
}

func (v vanishingTasks) Update(ctx context.Context, task *domain.Task) error {
	if task.ID == v.gone {
		return domain.ErrTaskNotFound
	}
	return v.TaskRepository.Update(ctx, task)
}

type fixture struct {
	uc       *UseCase
	tasks    repository.TaskRepository
	clock    *clock.Fixed
	notifier *recordingNotifier
}

func newFixture(t *testing.T, seed ...domain.Task) fixture {
	t.Helper()
	members := memory.NewMemberRepository(
		domain.Member{ID: "a", Name: "Ann"},
		domain.Member{ID: "b", Name: "Bob"},
	)
	tasks := memory.NewTaskRepository(seed...)
	clk := clock.NewFixed(start)
	notifier := &recordingNotifier{}
	ids := idgen.NewSequence("task")
	uc := New(Deps{
		Tasks:     tasks,
		Members:   members,
		Scheduler: recurrence.New(memory.NewFollowUpLedger(), ids),
		Notifier:  notifier,
		Clock:     clk,
		IDs:       ids,
	})
	return fixture{uc: uc, tasks: tasks, clock: clk, notifier: notifier}
}

func TestCreateTaskDefaultsAndAutoAssign(t *testing.T) {
	f := newFixture(t, domain.Task{ID: "old", Name: "Laundry", AssignedTo: "a", Weight: 3, Priority: domain.PriorityLow})

	created, err := f.uc.CreateTask(context.Background(), &domain.Task{Name: "  Vacuum  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Name != "Vacuum" {
		t.Fatalf("expected trimmed name, got %q", created.Name)
	}
	if created.AssignedTo != "b" {
		t.Fatalf("expected least-loaded member b, got %s", created.AssignedTo)
	}
	if created.Weight != domain.DefaultWeight || created.Priority != domain.PriorityMedium {
		t.Fatalf("defaults not applied: %+v", created)
	}
	if want := start.AddDate(0, 0, domain.DefaultDueDays); !created.DueDate.Equal(want) {
		t.Fatalf("expected due %s, got %s", want, created.DueDate)
	}
	if created.ID != "task-1" {
		t.Fatalf("expected generated id task-1, got %s", created.ID)
	}
	if len(f.notifier.assigned) != 1 || f.notifier.assigned[0] != "task-1->b" {
		t.Fatalf("expected assignment notification, got %v", f.notifier.assigned)
	}
}

func TestCreateTaskRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	cases := []*domain.Task{
		{Name: ""},
		{Name: "x", Weight: 6},
		{Name: "x", Priority: "urgent"},
		{Name: "x", Duration: -1},
	}
	for _, tc := range cases {
		if _, err := f.uc.CreateTask(context.Background(), tc); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
			t.Fatalf("expected INVALID for %+v, got %v", tc, err)
		}
	}
	if _, err := f.uc.CreateTask(context.Background(), &domain.Task{Name: "x", AssignedTo: "nobody"}); !errors.Is(err, domain.ErrMemberNotFound) {
		t.Fatalf("expected member not found, got %v", err)
	}
}

func TestCreateTaskWithoutMembers(t *testing.T) {
	uc := New(Deps{Tasks: memory.NewTaskRepository(), Members: memory.NewMemberRepository()})
	if _, err := uc.CreateTask(context.Background(), &domain.Task{Name: "Dust"}); !errors.Is(err, domain.ErrNoMembers) {
		t.Fatalf("expected ErrNoMembers, got %v", err)
	}
}

func TestUpdateTaskAppliesPatch(t *testing.T) {
	f := newFixture(t, domain.Task{ID: "t1", Name: "Dishes", AssignedTo: "a", Weight: 2, Priority: domain.PriorityMedium, Description: "keep"})

	name := "Wash dishes"
	weight := 4
	updated, err := f.uc.UpdateTask(context.Background(), "t1", Patch{Name: &name, Weight: &weight})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != name || updated.Weight != 4 || updated.Description != "keep" || updated.AssignedTo != "a" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	bad := 0
	if _, err := f.uc.UpdateTask(context.Background(), "t1", Patch{Weight: &bad}); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("expected INVALID for weight 0, got %v", err)
	}
	ghost := "ghost"
	if _, err := f.uc.UpdateTask(context.Background(), "t1", Patch{AssignedTo: &ghost}); !errors.Is(err, domain.ErrMemberNotFound) {
		t.Fatalf("expected member not found, got %v", err)
	}
	if _, err := f.uc.UpdateTask(context.Background(), "missing", Patch{}); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected task not found, got %v", err)
	}
}

func TestToggleTaskAnchorsDueDate(t *testing.T) {
	due := start.AddDate(0, 0, 3)
	f := newFixture(t, domain.Task{ID: "t1", Name: "Trash", AssignedTo: "a", Weight: 1, Priority: domain.PriorityLow, DueDate: due})

	done, err := f.uc.ToggleTask(context.Background(), "t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !done.Completed || !done.DueDate.Equal(start) {
		t.Fatalf("expected completed with due=now, got %+v", done)
	}

	f.clock.Advance(time.Hour)
	reopened, err := f.uc.ToggleTask(context.Background(), "t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reopened.Completed || !reopened.DueDate.Equal(start) {
		t.Fatalf("reopen must keep due date, got %+v", reopened)
	}
}

func TestRedistributePersistsMoves(t *testing.T) {
	f := newFixture(t,
		domain.Task{ID: "t1", Name: "A", AssignedTo: "a", Weight: 5, Priority: domain.PriorityLow},
		domain.Task{ID: "t2", Name: "B", AssignedTo: "a", Weight: 3, Priority: domain.PriorityLow},
		domain.Task{ID: "t3", Name: "C", AssignedTo: "a", Weight: 3, Priority: domain.PriorityLow},
	)

	if _, err := f.uc.Redistribute(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored, _ := f.tasks.List(context.Background(), repository.TaskFilter{})
	got := []string{stored[0].AssignedTo, stored[1].AssignedTo, stored[2].AssignedTo}
	if got[0] != "a" || got[1] != "b" || got[2] != "b" {
		t.Fatalf("expected [a b b], got %v", got)
	}
}

func TestRedistributeRevertsOnFailure(t *testing.T) {
	store := memory.NewTaskRepository(
		domain.Task{ID: "t1", Name: "A", AssignedTo: "b", Weight: 5, Priority: domain.PriorityLow},
		domain.Task{ID: "t2", Name: "B", AssignedTo: "a", Weight: 3, Priority: domain.PriorityLow},
		domain.Task{ID: "t3", Name: "C", AssignedTo: "a", Weight: 3, Priority: domain.PriorityLow},
	)
	uc := New(Deps{
		Tasks:   vanishingTasks{TaskRepository: store, gone: "t2"},
		Members: memory.NewMemberRepository(domain.Member{ID: "a", Name: "Ann"}, domain.Member{ID: "b", Name: "Bob"}),
		Clock:   clock.NewFixed(start),
	})

	if _, err := uc.Redistribute(context.Background()); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected task not found, got %v", err)
	}
	stored, _ := store.List(context.Background(), repository.TaskFilter{})
	got := []string{stored[0].AssignedTo, stored[1].AssignedTo, stored[2].AssignedTo}
	if got[0] != "b" || got[1] != "a" || got[2] != "a" {
		t.Fatalf("expected original assignees [b a a], got %v", got)
	}
}

func TestMaterializeFollowUpsStoresOnce(t *testing.T) {
	f := newFixture(t, domain.Task{
		ID: "t1", Name: "Mop", AssignedTo: "a", Weight: 2, Priority: domain.PriorityMedium,
		Duration: 1, Completed: true, DueDate: start,
	})

	created, err := f.uc.MaterializeFollowUps(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 0 {
		t.Fatalf("nothing is due yet, got %d", len(created))
	}

	f.clock.Set(time.Date(2024, time.May, 7, 5, 0, 0, 0, time.UTC))
	created, err = f.uc.MaterializeFollowUps(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 1 || created[0].AssignedTo != "b" || created[0].RecurrenceOf != "t1" {
		t.Fatalf("unexpected follow-ups: %+v", created)
	}

	again, err := f.uc.MaterializeFollowUps(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("follow-up created twice")
	}
	all, _ := f.tasks.List(context.Background(), repository.TaskFilter{})
	if len(all) != 2 {
		t.Fatalf("expected 2 stored tasks, got %d", len(all))
	}
}

func TestWritesAreBufferedWhenStorageIsDown(t *testing.T) {
	members := memory.NewMemberRepository(domain.Member{ID: "a", Name: "Ann"})
	buf := &recordingBuffer{}
	uc := New(Deps{
		Tasks:   offlineTasks{TaskRepository: memory.NewTaskRepository()},
		Members: members,
		Buffer:  buf,
		Clock:   clock.NewFixed(start),
		IDs:     idgen.NewSequence("t"),
	})

	created, err := uc.CreateTask(context.Background(), &domain.Task{Name: "Windows"})
	if err != nil {
		t.Fatalf("expected buffered success, got %v", err)
	}
	if created.ID != "t-1" || len(buf.tasks) != 1 || buf.tasks[0] != "create:t-1" {
		t.Fatalf("expected create buffered, got %v", buf.tasks)
	}
}

func TestDomainErrorsAreNotBuffered(t *testing.T) {
	buf := &recordingBuffer{}
	uc := New(Deps{
		Tasks:   memory.NewTaskRepository(),
		Members: memory.NewMemberRepository(domain.Member{ID: "a", Name: "Ann"}),
		Buffer:  buf,
	})
	if err := uc.DeleteTask(context.Background(), "missing"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(buf.tasks) != 0 {
		t.Fatalf("not-found must not be buffered, got %v", buf.tasks)
	}
}
