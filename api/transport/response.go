package transport

import (
	"encoding/json"
	"time"

	"github.com/homeharmony/backend/domain"
)

// Envelope is the standard API response wrapper used for both success and error payloads.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
		Meta:   meta,
	}
}

// NewError returns an error envelope with optional metadata.
func NewError(code string, err interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  err,
		Meta:   meta,
	}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}

// MemberResponse never carries the password hash.
type MemberResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Color     string    `json:"color"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

func NewMemberResponse(m domain.Member) MemberResponse {
	return MemberResponse{
		ID:        m.ID,
		Name:      m.Name,
		Avatar:    m.Avatar,
		Color:     m.Color,
		IsAdmin:   m.IsAdmin,
		CreatedAt: m.CreatedAt,
	}
}

func NewMemberResponses(members []domain.Member) []MemberResponse {
	out := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, NewMemberResponse(m))
	}
	return out
}

// TaskResponse decorates a task with display fields relative to now.
type TaskResponse struct {
	domain.Task
	TimeLeft string `json:"time_left"`
	Overdue  bool   `json:"overdue"`
}

func NewTaskResponse(t domain.Task, now time.Time) TaskResponse {
	return TaskResponse{Task: t, TimeLeft: domain.TimeLeft(t.DueDate, now), Overdue: t.IsOverdue(now)}
}

func NewTaskResponses(tasks []domain.Task, now time.Time) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, NewTaskResponse(t, now))
	}
	return out
}

// ItemResponse adds the derived stock status.
type ItemResponse struct {
	domain.Item
	Status domain.StockStatus `json:"status"`
}

func NewItemResponse(it domain.Item) ItemResponse {
	return ItemResponse{Item: it, Status: it.Status()}
}

func NewItemResponses(items []domain.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewItemResponse(it))
	}
	return out
}

type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresAt   time.Time      `json:"expires_at"`
	Member      MemberResponse `json:"member"`
}
