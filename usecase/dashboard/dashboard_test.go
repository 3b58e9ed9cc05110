package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/homeharmony/backend/domain"
	"github.com/homeharmony/backend/pkg/clock"
	"github.com/homeharmony/backend/repository/memory"
)

func TestSummary(t *testing.T) {
	now := time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC)
	members := memory.NewMemberRepository(domain.Member{ID: "a", Name: "Ann"}, domain.Member{ID: "b", Name: "Bob"})
	tasks := memory.NewTaskRepository(
		domain.Task{ID: "t1", AssignedTo: "a", Weight: 3, Completed: true, DueDate: now.AddDate(0, 0, -2)},
		domain.Task{ID: "t2", AssignedTo: "a", Weight: 1, DueDate: now.AddDate(0, 0, -1)},
		domain.Task{ID: "t3", AssignedTo: "b", Weight: 2, DueDate: now.AddDate(0, 0, 1)},
	)
	items := memory.NewItemRepository(
		domain.Item{ID: "i1", Name: "Milk", Quantity: 0, MinQuantity: 1},
		domain.Item{ID: "i2", Name: "Rice", Quantity: 10, MinQuantity: 2},
	)

	uc := New(members, tasks, items, clock.NewFixed(now), nil)
	s, err := uc.Summary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if s.TotalTasks != 3 || s.CompletedTasks != 1 {
		t.Fatalf("unexpected totals: %+v", s)
	}
	if len(s.OverdueTasks) != 1 || s.OverdueTasks[0].ID != "t2" {
		t.Fatalf("expected t2 overdue, got %+v", s.OverdueTasks)
	}
	if len(s.LowStockItems) != 1 || s.LowStockItems[0].ID != "i1" {
		t.Fatalf("expected milk low, got %+v", s.LowStockItems)
	}
	if len(s.Workloads) != 2 || s.Workloads[0].TotalWeight != 4 || s.Workloads[0].CompletionRate != 75 {
		t.Fatalf("unexpected workloads: %+v", s.Workloads)
	}
	if !s.GeneratedAt.Equal(now) {
		t.Fatalf("expected generated at %v, got %v", now, s.GeneratedAt)
	}
}
