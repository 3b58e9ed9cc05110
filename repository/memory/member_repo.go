// Package memory keeps household state in process memory. It backs the
// "memory" storage driver and the use case tests.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/homeharmony/backend/domain"
	"github.com/homeharmony/backend/repository"
)

type memberRepository struct {
	mu      sync.RWMutex
	members []domain.Member
}

// NewMemberRepository returns an empty in-memory member store.
func NewMemberRepository(seed ...domain.Member) repository.MemberRepository {
	return &memberRepository{members: append([]domain.Member(nil), seed...)}
}

func (r *memberRepository) GetByID(_ context.Context, id string) (*domain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.members {
		if m.ID == id {
			out := m
			return &out, nil
		}
	}
	return nil, domain.ErrMemberNotFound
}

func (r *memberRepository) GetByName(_ context.Context, name string) (*domain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.members {
		if strings.EqualFold(m.Name, name) {
			out := m
			return &out, nil
		}
	}
	return nil, domain.ErrMemberNotFound
}

func (r *memberRepository) List(_ context.Context) ([]domain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Member(nil), r.members...), nil
}

func (r *memberRepository) Create(_ context.Context, member *domain.Member) (*domain.Member, error) {
	if member == nil {
		return nil, domain.ErrInvalidPayload
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if member.ID == "" {
		member.ID = uuid.NewString()
	}
	for _, m := range r.members {
		if m.ID == member.ID {
			return nil, domain.NewError(domain.ErrCodeConflict, "member id already exists")
		}
	}
	now := time.Now()
	member.CreatedAt, member.UpdatedAt = now, now
	r.members = append(r.members, *member)
	return member, nil
}

func (r *memberRepository) Update(_ context.Context, member *domain.Member) error {
	if member == nil {
		return domain.ErrInvalidPayload
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.members {
		if r.members[i].ID == member.ID {
			member.CreatedAt = r.members[i].CreatedAt
			member.UpdatedAt = time.Now()
			r.members[i] = *member
			return nil
		}
	}
	return domain.ErrMemberNotFound
}

func (r *memberRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.members {
		if r.members[i].ID == id {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return nil
		}
	}
	return domain.ErrMemberNotFound
}
