package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/homeharmony/backend/domain"
	"github.com/homeharmony/backend/repository"
)

type itemRepository struct {
	mu    sync.RWMutex
	items []domain.Item
}

func NewItemRepository(seed ...domain.Item) repository.ItemRepository {
	return &itemRepository{items: append([]domain.Item(nil), seed...)}
}

func (r *itemRepository) GetByID(_ context.Context, id string) (*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, it := range r.items {
		if it.ID == id {
			out := it
			return &out, nil
		}
	}
	return nil, domain.ErrItemNotFound
}

func (r *itemRepository) List(_ context.Context) ([]domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Item(nil), r.items...), nil
}

func (r *itemRepository) Create(_ context.Context, item *domain.Item) (*domain.Item, error) {
	if item == nil {
		return nil, domain.ErrInvalidPayload
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now()
	item.CreatedAt, item.UpdatedAt = now, now
	r.items = append(r.items, *item)
	return item, nil
}

func (r *itemRepository) Update(_ context.Context, item *domain.Item) error {
	if item == nil {
		return domain.ErrInvalidPayload
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == item.ID {
			item.CreatedAt = r.items[i].CreatedAt
			item.UpdatedAt = time.Now()
			r.items[i] = *item
			return nil
		}
	}
	return domain.ErrItemNotFound
}

func (r *itemRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrItemNotFound
}
