package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homeharmony/backend/domain"
	"github.com/homeharmony/backend/repository"
)

const memberColumns = `id, name, avatar, color, is_admin, password_hash, created_at, updated_at`

type memberRepository struct {
	pool *pgxpool.Pool
}

// NewMemberRepository returns a Postgres-backed MemberRepository.
func NewMemberRepository(pool *pgxpool.Pool) repository.MemberRepository {
	return &memberRepository{pool: pool}
}

func (r *memberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1`, id)
	return scanMember(row)
}

func (r *memberRepository) GetByName(ctx context.Context, name string) (*domain.Member, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE lower(name) = lower($1)`, name)
	return scanMember(row)
}

func (r *memberRepository) List(ctx context.Context) ([]domain.Member, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+memberColumns+` FROM members ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

func (r *memberRepository) Create(ctx context.Context, member *domain.Member) (*domain.Member, error) {
	if member == nil {
		return nil, domain.ErrInvalidPayload
	}
	if member.ID == "" {
		member.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO members (id, name, avatar, color, is_admin, password_hash)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		member.ID,
		member.Name,
		member.Avatar,
		member.Color,
		member.IsAdmin,
		member.PasswordHash,
	).Scan(&member.CreatedAt, &member.UpdatedAt)
	if err != nil {
		return nil, translate(err, domain.ErrMemberNotFound)
	}
	return member, nil
}

func (r *memberRepository) Update(ctx context.Context, member *domain.Member) error {
	if member == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE members
	SET name = $2,
		avatar = $3,
		color = $4,
		is_admin = $5,
		password_hash = $6,
		updated_at = NOW()
	WHERE id = $1
	RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		member.ID,
		member.Name,
		member.Avatar,
		member.Color,
		member.IsAdmin,
		member.PasswordHash,
	).Scan(&member.CreatedAt, &member.UpdatedAt)
	return translate(err, domain.ErrMemberNotFound)
}

func (r *memberRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func scanMember(row scanner) (*domain.Member, error) {
	var m domain.Member
	if err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Avatar,
		&m.Color,
		&m.IsAdmin,
		&m.PasswordHash,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return nil, translate(err, domain.ErrMemberNotFound)
	}
	return &m, nil
}
