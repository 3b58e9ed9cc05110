package repository

import (
	"context"

	"github.com/homeharmony/backend/domain"
)

// MemberRepository lists members in creation order; that order is the
// household rotation.
type MemberRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Member, error)
	GetByName(ctx context.Context, name string) (*domain.Member, error)
	List(ctx context.Context) ([]domain.Member, error)
	Create(ctx context.Context, member *domain.Member) (*domain.Member, error)
	Update(ctx context.Context, member *domain.Member) error
	Delete(ctx context.Context, id string) error
}
