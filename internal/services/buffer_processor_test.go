package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/homeharmony/backend/domain"
	"github.com/homeharmony/backend/internal/infrastructure/buffer"
	"github.com/homeharmony/backend/repository"
	"github.com/homeharmony/backend/repository/memory"
	"github.com/homeharmony/backend/usecase"
)

type fakeHealth struct{ online bool }

func (f fakeHealth) IsOnline() bool { return f.online }

type flakyItems struct {
	repository.ItemRepository
	fail bool
}

func (f *flakyItems) Update(ctx context.Context, item *domain.Item) error {
	if f.fail {
		return errors.New("database is locked")
	}
	return f.ItemRepository.Update(ctx, item)
}

func newProcessor(t *testing.T, health ConnectionHealth, repos Repositories) (*BufferProcessor, *buffer.Store) {
	t.Helper()
	store, err := buffer.Open(filepath.Join(t.TempDir(), "buffer.db"), "")
	if err != nil {
		t.Fatalf("open buffer: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	bp, err := NewBufferProcessor(store, health, repos, nil, ProcessorConfig{Interval: time.Second, MaxRetries: 2})
	if err != nil {
		t.Fatalf("processor: %v", err)
	}
	return bp, store
}

func TestDrainReplaysInOrder(t *testing.T) {
	tasks := memory.NewTaskRepository()
	repos := Repositories{Members: memory.NewMemberRepository(), Tasks: tasks, Items: memory.NewItemRepository()}
	bp, _ := newProcessor(t, fakeHealth{online: true}, repos)
	bridge := NewBufferBridge(bp)
	ctx := context.Background()

	task := &domain.Task{ID: "t1", Name: "Dust", AssignedTo: "a", Weight: 1, Priority: domain.PriorityLow}
	if err := bridge.BufferTask(ctx, usecase.OperationCreate, task); err != nil {
		t.Fatalf("buffer create: %v", err)
	}
	time.Sleep(time.Millisecond)
	renamed := *task
	renamed.Name = "Dust shelves"
	if err := bridge.BufferTask(ctx, usecase.OperationUpdate, &renamed); err != nil {
		t.Fatalf("buffer update: %v", err)
	}
	if bp.Size() != 2 {
		t.Fatalf("expected 2 buffered writes, got %d", bp.Size())
	}

	applied, err := bp.Drain(ctx)
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if applied != 2 || bp.Size() != 0 {
		t.Fatalf("expected all applied, got applied=%d size=%d", applied, bp.Size())
	}
	stored, err := tasks.GetByID(ctx, "t1")
	if err != nil || stored.Name != "Dust shelves" {
		t.Fatalf("unexpected stored task %+v (%v)", stored, err)
	}

	// Replaying an already applied create is harmless.
	_ = bridge.BufferTask(ctx, usecase.OperationCreate, task)
	if applied, err := bp.Drain(ctx); err != nil || applied != 1 {
		t.Fatalf("duplicate create must count as applied, got %d (%v)", applied, err)
	}
}

func TestDrainSkipsWhileOffline(t *testing.T) {
	repos := Repositories{Members: memory.NewMemberRepository(), Tasks: memory.NewTaskRepository(), Items: memory.NewItemRepository()}
	bp, _ := newProcessor(t, fakeHealth{online: false}, repos)
	_ = NewBufferBridge(bp).BufferMember(context.Background(), usecase.OperationCreate, &domain.Member{ID: "m1", Name: "Ann"})

	applied, err := bp.Drain(context.Background())
	if err != nil || applied != 0 || bp.Size() != 1 {
		t.Fatalf("offline drain must keep entries, applied=%d size=%d err=%v", applied, bp.Size(), err)
	}
}

func TestDrainRetriesThenDrops(t *testing.T) {
	items := &flakyItems{ItemRepository: memory.NewItemRepository(domain.Item{ID: "i1", Name: "Salt"}), fail: true}
	repos := Repositories{Members: memory.NewMemberRepository(), Tasks: memory.NewTaskRepository(), Items: items}
	bp, _ := newProcessor(t, nil, repos)
	ctx := context.Background()

	_ = NewBufferBridge(bp).BufferItem(ctx, usecase.OperationUpdate, &domain.Item{ID: "i1", Name: "Sea salt"})

	if applied, _ := bp.Drain(ctx); applied != 0 || bp.Size() != 1 {
		t.Fatalf("first failure must requeue, applied=%d size=%d", applied, bp.Size())
	}
	if applied, _ := bp.Drain(ctx); applied != 0 || bp.Size() != 0 {
		t.Fatalf("entry must be dropped after max retries, applied=%d size=%d", applied, bp.Size())
	}
}

func TestBridgeRejectsNil(t *testing.T) {
	bridge := NewBufferBridge(nil)
	if err := bridge.BufferTask(context.Background(), usecase.OperationCreate, nil); !errors.Is(err, domain.ErrInvalidPayload) {
		t.Fatalf("expected invalid payload, got %v", err)
	}
	if err := bridge.BufferItem(context.Background(), usecase.OperationCreate, &domain.Item{ID: "x"}); !domain.IsDomainError(err, domain.ErrCodeInvalidState) {
		t.Fatalf("expected invalid state without processor, got %v", err)
	}
}
