package repository

import (
	"context"

	"github.com/homeharmony/backend/domain"
)

type ItemRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	List(ctx context.Context) ([]domain.Item, error)
	Create(ctx context.Context, item *domain.Item) (*domain.Item, error)
	Update(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, id string) error
}
