package item

import (
	"context"
	"errors"
	"testing"

	"github.com/homeharmony/backend/domain"
	"github.com/homeharmony/backend/pkg/idgen"
	"github.com/homeharmony/backend/repository/memory"
)

type lowStockRecorder struct {
	items []string
}

func (r *lowStockRecorder) TaskAssigned(context.Context, domain.Task, domain.Member) error { return nil }
func (r *lowStockRecorder) LowStock(_ context.Context, item domain.Item) error {
	r.items = append(r.items, item.ID)
	return nil
}

func newUseCase(seed ...domain.Item) (*UseCase, *lowStockRecorder) {
	rec := &lowStockRecorder{}
	return New(Deps{
		Items:    memory.NewItemRepository(seed...),
		Notifier: rec,
		IDs:      idgen.NewSequence("item"),
	}), rec
}

func TestAddItem(t *testing.T) {
	uc, _ := newUseCase()
	created, err := uc.AddItem(context.Background(), &domain.Item{Name: "Rice", Quantity: 3, MinQuantity: 1, Unit: "kg"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != "item-1" {
		t.Fatalf("expected item-1, got %s", created.ID)
	}
	if _, err := uc.AddItem(context.Background(), &domain.Item{Name: "Bad", Quantity: -1}); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("expected invalid, got %v", err)
	}
}

func TestAdjustQuantityClampsAndNotifiesOnce(t *testing.T) {
	uc, rec := newUseCase(domain.Item{ID: "soap", Name: "Soap", Quantity: 4, MinQuantity: 2})
	ctx := context.Background()

	got, err := uc.AdjustQuantity(ctx, "soap", -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Quantity != 3 || len(rec.items) != 0 {
		t.Fatalf("expected 3 and no alert, got %d alerts=%v", got.Quantity, rec.items)
	}

	got, err = uc.AdjustQuantity(ctx, "soap", -10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Quantity != 0 {
		t.Fatalf("expected clamp to 0, got %d", got.Quantity)
	}
	if len(rec.items) != 1 || rec.items[0] != "soap" {
		t.Fatalf("expected one low-stock alert, got %v", rec.items)
	}

	if _, err := uc.AdjustQuantity(ctx, "soap", -1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.items) != 1 {
		t.Fatalf("already-low item must not alert again, got %v", rec.items)
	}

	if _, err := uc.AdjustQuantity(ctx, "missing", 1); !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateItemPatch(t *testing.T) {
	uc, _ := newUseCase(domain.Item{ID: "milk", Name: "Milk", Quantity: 2, MinQuantity: 1, Unit: "l"})
	unit := "bottles"
	got, err := uc.UpdateItem(context.Background(), "milk", ItemPatch{Unit: &unit})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Unit != "bottles" || got.Name != "Milk" || got.Quantity != 2 {
		t.Fatalf("unexpected patch result: %+v", got)
	}
	empty := ""
	if _, err := uc.UpdateItem(context.Background(), "milk", ItemPatch{Name: &empty}); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("expected invalid, got %v", err)
	}
}

func TestDeleteItem(t *testing.T) {
	uc, _ := newUseCase(domain.Item{ID: "x", Name: "X"})
	if err := uc.DeleteItem(context.Background(), "x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := uc.DeleteItem(context.Background(), "x"); !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
