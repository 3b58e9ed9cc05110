package sqlite

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homeharmony/backend/domain"
	"github.com/homeharmony/backend/repository"
)

type memberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) repository.MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	var row memberModel
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, translate(err, domain.ErrMemberNotFound)
	}
	m := row.toDomain()
	return &m, nil
}

func (r *memberRepository) GetByName(ctx context.Context, name string) (*domain.Member, error) {
	var row memberModel
	if err := r.db.WithContext(ctx).First(&row, "name = ? COLLATE NOCASE", name).Error; err != nil {
		return nil, translate(err, domain.ErrMemberNotFound)
	}
	m := row.toDomain()
	return &m, nil
}

func (r *memberRepository) List(ctx context.Context) ([]domain.Member, error) {
	var rows []memberModel
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, err
	}
	members := make([]domain.Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, row.toDomain())
	}
	return members, nil
}

func (r *memberRepository) Create(ctx context.Context, member *domain.Member) (*domain.Member, error) {
	if member == nil {
		return nil, domain.ErrInvalidPayload
	}
	if member.ID == "" {
		member.ID = uuid.NewString()
	}
	row := memberFromDomain(member)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, translate(err, domain.ErrMemberNotFound)
	}
	member.CreatedAt, member.UpdatedAt = row.CreatedAt, row.UpdatedAt
	return member, nil
}

func (r *memberRepository) Update(ctx context.Context, member *domain.Member) error {
	if member == nil {
		return domain.ErrInvalidPayload
	}
	res := r.db.WithContext(ctx).Model(&memberModel{ID: member.ID}).Updates(map[string]any{
		"name":          member.Name,
		"avatar":        member.Avatar,
		"color":         member.Color,
		"is_admin":      member.IsAdmin,
		"password_hash": member.PasswordHash,
	})
	if res.Error != nil {
		return translate(res.Error, domain.ErrMemberNotFound)
	}
	if res.RowsAffected == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *memberRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&memberModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}
