package sqlite

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homeharmony/backend/domain"
	"github.com/homeharmony/backend/repository"
)

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) repository.ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	var row itemModel
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, translate(err, domain.ErrItemNotFound)
	}
	it := row.toDomain()
	return &it, nil
}

func (r *itemRepository) List(ctx context.Context) ([]domain.Item, error) {
	var rows []itemModel
	if err := r.db.WithContext(ctx).Order("created_at DESC, id").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]domain.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDomain())
	}
	return items, nil
}

func (r *itemRepository) Create(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	if item == nil {
		return nil, domain.ErrInvalidPayload
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	row := itemFromDomain(item)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, translate(err, domain.ErrItemNotFound)
	}
	item.CreatedAt, item.UpdatedAt = row.CreatedAt, row.UpdatedAt
	return item, nil
}

func (r *itemRepository) Update(ctx context.Context, item *domain.Item) error {
	if item == nil {
		return domain.ErrInvalidPayload
	}
	res := r.db.WithContext(ctx).Model(&itemModel{ID: item.ID}).Updates(map[string]any{
		"name":         item.Name,
		"quantity":     item.Quantity,
		"min_quantity": item.MinQuantity,
		"unit":         item.Unit,
	})
	if res.Error != nil {
		return translate(res.Error, domain.ErrItemNotFound)
	}
	if res.RowsAffected == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *itemRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&itemModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}
