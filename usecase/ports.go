package usecase

import (
	"context"
	"errors"

	"github.com/homeharmony/backend/domain"
)

const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// OperationBuffer abstracts the buffer processor so use cases stay storage-agnostic.
type OperationBuffer interface {
	BufferMember(ctx context.Context, operation string, member *domain.Member) error
	BufferTask(ctx context.Context, operation string, task *domain.Task) error
	BufferItem(ctx context.Context, operation string, item *domain.Item) error
}

// Notifier tells the household about events worth a message.
type Notifier interface {
	TaskAssigned(ctx context.Context, task domain.Task, assignee domain.Member) error
	LowStock(ctx context.Context, item domain.Item) error
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) TaskAssigned(context.Context, domain.Task, domain.Member) error { return nil }
func (NopNotifier) LowStock(context.Context, domain.Item) error                  { return nil }

// Bufferable reports whether a repository failure looks like an outage worth
// queueing for later, as opposed to a domain rejection.
func Bufferable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var dErr *domain.Error
	return !errors.As(err, &dErr)
}

// Credentials hashes and checks member secrets. It is the only place that
// knows how passwords are stored.
type Credentials interface {
	Hash(secret string) (string, error)
	Verify(hash, secret string) error
}
