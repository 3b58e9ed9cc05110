package sqlite

import (
	"time"

	"github.com/homeharmony/backend/domain"
)

type memberModel struct {
	ID           string `gorm:"primaryKey"`
	Name         string `gorm:"type:text COLLATE NOCASE;not null;uniqueIndex"`
	Avatar       string
	Color        string
	IsAdmin      bool `gorm:"not null;default:false"`
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (memberModel) TableName() string { return "members" }

func memberFromDomain(m *domain.Member) memberModel {
	return memberModel{
		ID:           m.ID,
		Name:         m.Name,
		Avatar:       m.Avatar,
		Color:        m.Color,
		IsAdmin:      m.IsAdmin,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func (m memberModel) toDomain() domain.Member {
	return domain.Member{
		ID:           m.ID,
		Name:         m.Name,
		Avatar:       m.Avatar,
		Color:        m.Color,
		IsAdmin:      m.IsAdmin,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

type taskModel struct {
	ID           string `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Description  string
	AssignedTo   string `gorm:"index"`
	Schedule     string
	Priority     string `gorm:"not null;default:medium"`
	Duration     int
	Completed    bool      `gorm:"not null;default:false"`
	DueDate      time.Time `gorm:"not null"`
	Weight       int       `gorm:"not null"`
	RecurrenceOf string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (taskModel) TableName() string { return "tasks" }

func taskFromDomain(t *domain.Task) taskModel {
	return taskModel{
		ID:           t.ID,
		Name:         t.Name,
		Description:  t.Description,
		AssignedTo:   t.AssignedTo,
		Schedule:     t.Schedule,
		Priority:     string(t.Priority),
		Duration:     t.Duration,
		Completed:    t.Completed,
		DueDate:      t.DueDate,
		Weight:       t.Weight,
		RecurrenceOf: t.RecurrenceOf,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func (t taskModel) toDomain() domain.Task {
	return domain.Task{
		ID:           t.ID,
		Name:         t.Name,
		Description:  t.Description,
		AssignedTo:   t.AssignedTo,
		Schedule:     t.Schedule,
		Priority:     domain.Priority(t.Priority),
		Duration:     t.Duration,
		Completed:    t.Completed,
		DueDate:      t.DueDate,
		Weight:       t.Weight,
		RecurrenceOf: t.RecurrenceOf,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

type itemModel struct {
	ID          string `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Quantity    int    `gorm:"not null;default:0"`
	MinQuantity int    `gorm:"not null;default:0"`
	Unit        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (itemModel) TableName() string { return "items" }

func itemFromDomain(i *domain.Item) itemModel {
	return itemModel{
		ID:          i.ID,
		Name:        i.Name,
		Quantity:    i.Quantity,
		MinQuantity: i.MinQuantity,
		Unit:        i.Unit,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func (i itemModel) toDomain() domain.Item {
	return domain.Item{
		ID:          i.ID,
		Name:        i.Name,
		Quantity:    i.Quantity,
		MinQuantity: i.MinQuantity,
		Unit:        i.Unit,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}
