package memory

import (
	"context"
	"sync"
	"time"

	"github.com/homeharmony/backend/domain"
	"github.com/homeharmony/backend/repository"
)

type sessionRepository struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
	ttl      time.Duration
}

// NewSessionRepository keeps sessions in memory; used when Redis is disabled.
func NewSessionRepository(ttl time.Duration) repository.SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &sessionRepository{sessions: make(map[string]domain.Session), ttl: ttl}
}

func (r *sessionRepository) Get(_ context.Context, id string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.IsExpired(time.Now()) {
		delete(r.sessions, id)
		return nil, domain.ErrSessionNotFound
	}
	return &s, nil
}

func (r *sessionRepository) Save(_ context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidPayload
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	if session.ExpiresAt.Before(session.CreatedAt) {
		session.ExpiresAt = session.CreatedAt.Add(r.ttl)
	}
	r.mu.Lock()
	r.sessions[session.ID] = *session
	r.mu.Unlock()
	return nil
}

func (r *sessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
	return nil
}

func (r *sessionRepository) Extend(_ context.Context, id string, ttlSeconds int) error {
	d := time.Duration(ttlSeconds) * time.Second
	if d <= 0 {
		d = r.ttl
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.ExpiresAt = time.Now().Add(d)
	r.sessions[id] = s
	return nil
}
