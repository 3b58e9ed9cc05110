package transport

import "time"

type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type MemberCreateRequest struct {
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Color    string `json:"color"`
	Password string `json:"password"`
}

// MemberUpdateRequest leaves absent fields untouched.
type MemberUpdateRequest struct {
	Name     *string `json:"name"`
	Avatar   *string `json:"avatar"`
	Color    *string `json:"color"`
	Password *string `json:"password"`
}

type TaskCreateRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	AssignedTo  string     `json:"assigned_to"`
	Schedule    string     `json:"schedule"`
	Priority    string     `json:"priority"`
	Duration    int        `json:"duration"`
	DueDate     *time.Time `json:"due_date"`
	Weight      int        `json:"weight"`
}

type TaskUpdateRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	AssignedTo  *string    `json:"assigned_to"`
	Schedule    *string    `json:"schedule"`
	Priority    *string    `json:"priority"`
	Duration    *int       `json:"duration"`
	Completed   *bool      `json:"completed"`
	DueDate     *time.Time `json:"due_date"`
	Weight      *int       `json:"weight"`
}

type ItemCreateRequest struct {
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	MinQuantity int    `json:"min_quantity"`
	Unit        string `json:"unit"`
}

type ItemUpdateRequest struct {
	Name        *string `json:"name"`
	Quantity    *int    `json:"quantity"`
	MinQuantity *int    `json:"min_quantity"`
	Unit        *string `json:"unit"`
}

type AdjustRequest struct {
	Delta int `json:"delta"`
}
