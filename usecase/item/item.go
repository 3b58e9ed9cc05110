package item

import (
	"context"

	"go.uber.org/zap"

	"github.com/homeharmony/backend/domain"
	"github.com/homeharmony/backend/pkg/idgen"
	appLogger "github.com/homeharmony/backend/pkg/logger"
	"github.com/homeharmony/backend/repository"
	"github.com/homeharmony/backend/usecase"
)

type UseCase struct {
	items    repository.ItemRepository
	buffer   usecase.OperationBuffer
	notifier usecase.Notifier
	ids      idgen.Generator
	logger   *zap.Logger
}

type Deps struct {
	Items    repository.ItemRepository
	Buffer   usecase.OperationBuffer
	Notifier usecase.Notifier
	IDs      idgen.Generator
	Logger   *zap.Logger
}

func New(deps Deps) *UseCase {
	uc := &UseCase{
		items:    deps.Items,
		buffer:   deps.Buffer,
		notifier: deps.Notifier,
		ids:      deps.IDs,
		logger:   deps.Logger,
	}
	if uc.logger == nil {
		uc.logger = zap.NewNop()
	}
	if uc.notifier == nil {
		uc.notifier = usecase.NopNotifier{}
	}
	if uc.ids == nil {
		uc.ids = idgen.UUID{}
	}
	return uc
}

func (uc *UseCase) ListItems(ctx context.Context) ([]domain.Item, error) {
	return uc.items.List(ctx)
}

func (uc *UseCase) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	return uc.items.GetByID(ctx, id)
}

func (uc *UseCase) AddItem(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if item.ID == "" {
		item.ID = uc.ids.NewID()
	}
	created, err := uc.items.Create(ctx, item)
	if err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationCreate, item, err) {
			return item, nil
		}
		return nil, err
	}
	appLogger.WithRequestID(ctx, uc.logger).Info("item added",
		zap.String("item_id", created.ID),
		zap.Int("quantity", created.Quantity))
	return created, nil
}

// ItemPatch carries the fields of a partial item edit.
type ItemPatch struct {
	Name        *string
	Quantity    *int
	MinQuantity *int
	Unit        *string
}

func (uc *UseCase) UpdateItem(ctx context.Context, id string, patch ItemPatch) (*domain.Item, error) {
	current, err := uc.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	wasLow := current.IsLowStock()

	updated := *current
	if patch.Name != nil {
		updated.Name = *patch.Name
	}
	if patch.Quantity != nil {
		updated.Quantity = *patch.Quantity
	}
	if patch.MinQuantity != nil {
		updated.MinQuantity = *patch.MinQuantity
	}
	if patch.Unit != nil {
		updated.Unit = *patch.Unit
	}
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	return uc.save(ctx, &updated, wasLow)
}

// AdjustQuantity adds delta to the stock, clamping at zero, and reports a
// low-stock transition to the notifier.
func (uc *UseCase) AdjustQuantity(ctx context.Context, id string, delta int) (*domain.Item, error) {
	current, err := uc.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	wasLow := current.IsLowStock()
	current.Adjust(delta)
	return uc.save(ctx, current, wasLow)
}

func (uc *UseCase) DeleteItem(ctx context.Context, id string) error {
	if err := uc.items.Delete(ctx, id); err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationDelete, &domain.Item{ID: id}, err) {
			return nil
		}
		return err
	}
	return nil
}

func (uc *UseCase) save(ctx context.Context, item *domain.Item, wasLow bool) (*domain.Item, error) {
	if err := uc.items.Update(ctx, item); err != nil {
		if !uc.shouldBuffer(ctx, usecase.OperationUpdate, item, err) {
			return nil, err
		}
	}
	if !wasLow && item.IsLowStock() {
		if err := uc.notifier.LowStock(ctx, *item); err != nil {
			appLogger.WithRequestID(ctx, uc.logger).Warn("low stock notification failed",
				zap.String("item_id", item.ID), zap.Error(err))
		}
	}
	return item, nil
}

func (uc *UseCase) shouldBuffer(ctx context.Context, operation string, item *domain.Item, cause error) bool {
	if uc.buffer == nil || !usecase.Bufferable(cause) {
		return false
	}
	if err := uc.buffer.BufferItem(ctx, operation, item); err != nil {
		uc.logger.Error("failed to buffer item operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	uc.logger.Warn("item operation buffered", zap.String("operation", operation), zap.Error(cause))
	return true
}
