package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homeharmony/backend/domain"
	"github.com/homeharmony/backend/repository"
)

const itemColumns = `id, name, quantity, min_quantity, unit, created_at, updated_at`

type itemRepository struct {
	pool *pgxpool.Pool
}

func NewItemRepository(pool *pgxpool.Pool) repository.ItemRepository {
	return &itemRepository{pool: pool}
}

func (r *itemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
	return scanItem(row)
}

func (r *itemRepository) List(ctx context.Context) ([]domain.Item, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+itemColumns+` FROM items ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *itemRepository) Create(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	if item == nil {
		return nil, domain.ErrInvalidPayload
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO items (id, name, quantity, min_quantity, unit)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		item.ID,
		item.Name,
		item.Quantity,
		item.MinQuantity,
		item.Unit,
	).Scan(&item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, translate(err, domain.ErrItemNotFound)
	}
	return item, nil
}

func (r *itemRepository) Update(ctx context.Context, item *domain.Item) error {
	if item == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE items
	SET name = $2,
		quantity = $3,
		min_quantity = $4,
		unit = $5,
		updated_at = NOW()
	WHERE id = $1
	RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		item.ID,
		item.Name,
		item.Quantity,
		item.MinQuantity,
		item.Unit,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	return translate(err, domain.ErrItemNotFound)
}

func (r *itemRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func scanItem(row scanner) (*domain.Item, error) {
	var item domain.Item
	if err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Quantity,
		&item.MinQuantity,
		&item.Unit,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return nil, translate(err, domain.ErrItemNotFound)
	}
	return &item, nil
}
