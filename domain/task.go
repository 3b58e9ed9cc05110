package domain

import (
	"strings"
	"time"
)

// Priority ranks how urgent a chore is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

const (
	MinWeight = 1
	MaxWeight = 5

	DefaultWeight  = 2
	DefaultDueDays = 7
)

// Task is a household chore. Duration is a number of days and drives the
// due date of recurring follow-ups.
type Task struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	AssignedTo   string    `json:"assigned_to"`
	Schedule     string    `json:"schedule"`
	Priority     Priority  `json:"priority"`
	Duration     int       `json:"duration"`
	Completed    bool      `json:"completed"`
	DueDate      time.Time `json:"due_date"`
	Weight       int       `json:"weight"`
	RecurrenceOf string    `json:"recurrence_of,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ApplyDefaults fills the values a freshly created chore starts with.
func (t *Task) ApplyDefaults(now time.Time) {
	if t == nil {
		return
	}
	t.Name = strings.TrimSpace(t.Name)
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Weight == 0 {
		t.Weight = DefaultWeight
	}
	if t.DueDate.IsZero() {
		t.DueDate = now.AddDate(0, 0, DefaultDueDays)
	}
}

func (t *Task) Validate() error {
	if t == nil {
		return ErrInvalidPayload
	}
	if strings.TrimSpace(t.Name) == "" {
		return Invalidf("task name is required")
	}
	if t.Weight < MinWeight || t.Weight > MaxWeight {
		return Invalidf("task weight must be between %d and %d, got %d", MinWeight, MaxWeight, t.Weight)
	}
	if !t.Priority.Valid() {
		return Invalidf("unknown priority %q", t.Priority)
	}
	if t.Duration < 0 {
		return Invalidf("task duration must not be negative")
	}
	return nil
}

// IsOverdue reports whether an incomplete task is past its due date.
func (t *Task) IsOverdue(now time.Time) bool {
	return t != nil && !t.Completed && t.DueDate.Before(now)
}
