package domain

import (
	"strings"
	"time"
)

const (
	DefaultAvatar = "👤"
	DefaultColor  = "bg-blue-500"
)

// Member is a person sharing the household.
type Member struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Avatar       string    `json:"avatar"`
	Color        string    `json:"color"`
	IsAdmin      bool      `json:"is_admin"`
	PasswordHash string    `json:"password_hash,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Normalize trims the display fields and fills presentation defaults.
func (m *Member) Normalize() {
	if m == nil {
		return
	}
	m.Name = strings.TrimSpace(m.Name)
	if strings.TrimSpace(m.Avatar) == "" {
		m.Avatar = DefaultAvatar
	}
	if strings.TrimSpace(m.Color) == "" {
		m.Color = DefaultColor
	}
}

func (m *Member) Validate() error {
	if m == nil {
		return ErrInvalidPayload
	}
	if strings.TrimSpace(m.Name) == "" {
		return Invalidf("member name is required")
	}
	return nil
}

// FindMember returns the member with the given id.
func FindMember(members []Member, id string) (Member, bool) {
	for _, m := range members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

// AdminCount reports how many members hold the admin flag.
func AdminCount(members []Member) int {
	n := 0
	for _, m := range members {
		if m.IsAdmin {
			n++
		}
	}
	return n
}
