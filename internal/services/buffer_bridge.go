package services

import (
	"context"

	"github.com/homeharmony/backend/domain"
	"github.com/homeharmony/backend/internal/infrastructure/buffer"
	"github.com/homeharmony/backend/usecase"
)

// BufferBridge adapts the processor to the use-case OperationBuffer port.
type BufferBridge struct {
	processor *BufferProcessor
}

func NewBufferBridge(processor *BufferProcessor) *BufferBridge {
	return &BufferBridge{processor: processor}
}

func (b *BufferBridge) BufferMember(ctx context.Context, operation string, member *domain.Member) error {
	if member == nil {
		return domain.ErrInvalidPayload
	}
	return b.enqueue(ctx, buffer.EntityMember, operation, member)
}

func (b *BufferBridge) BufferTask(ctx context.Context, operation string, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	return b.enqueue(ctx, buffer.EntityTask, operation, task)
}

func (b *BufferBridge) BufferItem(ctx context.Context, operation string, item *domain.Item) error {
	if item == nil {
		return domain.ErrInvalidPayload
	}
	return b.enqueue(ctx, buffer.EntityItem, operation, item)
}

func (b *BufferBridge) enqueue(ctx context.Context, entity, operation string, payload any) error {
	if b.processor == nil {
		return domain.NewError(domain.ErrCodeInvalidState, "buffer not configured")
	}
	entry, err := buffer.NewEntry(entity, operation, payload)
	if err != nil {
		return err
	}
	return b.processor.Enqueue(ctx, entry)
}

var _ usecase.OperationBuffer = (*BufferBridge)(nil)
