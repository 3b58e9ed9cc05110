package task

import (
	"strings"
	"time"

	"github.com/homeharmony/backend/domain"
)

// Patch lists the fields a manual edit changes; nil fields are kept.
type Patch struct {
	Name        *string
	Description *string
	AssignedTo  *string
	Schedule    *string
	Priority    *domain.Priority
	Duration    *int
	Completed   *bool
	DueDate     *time.Time
	Weight      *int
}

// Apply returns a copy of t with the patch applied.
func (p Patch) Apply(t domain.Task) domain.Task {
	if p.Name != nil {
		t.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.AssignedTo != nil {
		t.AssignedTo = *p.AssignedTo
	}
	if p.Schedule != nil {
		t.Schedule = *p.Schedule
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Duration != nil {
		t.Duration = *p.Duration
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Weight != nil {
		t.Weight = *p.Weight
	}
	return t
}
