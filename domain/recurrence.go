package domain

import "time"

// FollowUpHour is the local hour at which a completed chore comes back.
const FollowUpHour = 5

// FireThreshold is the moment a completed task's follow-up becomes due: the
// calendar day after due, at FollowUpHour. A nil loc keeps due's location.
func FireThreshold(due time.Time, loc *time.Location) time.Time {
	if loc != nil {
		due = due.In(loc)
	}
	y, m, d := due.Date()
	return time.Date(y, m, d+1, FollowUpHour, 0, 0, 0, due.Location())
}

// NextInRotation returns the member after assignee, wrapping to the start.
// An unknown assignee rotates to the first member.
func NextInRotation(members []Member, assignee string) (string, error) {
	if len(members) == 0 {
		return "", ErrNoMembers
	}
	for i, m := range members {
		if m.ID == assignee {
			return members[(i+1)%len(members)].ID, nil
		}
	}
	return members[0].ID, nil
}

// ToggleCompletion flips the completed flag. Completing a task moves its due
// date to now so the completion becomes the recurrence anchor; reopening it
// keeps the anchor as is.
func ToggleCompletion(task Task, now time.Time) Task {
	task.Completed = !task.Completed
	if task.Completed {
		task.DueDate = now
	}
	return task
}

// NewFollowUp builds the next instance of a recurring task.
func NewFollowUp(source Task, id, assignee string, threshold time.Time) Task {
	next := source
	next.ID = id
	next.AssignedTo = assignee
	next.Completed = false
	next.DueDate = threshold.AddDate(0, 0, source.Duration)
	next.RecurrenceOf = source.ID
	next.CreatedAt = time.Time{}
	next.UpdatedAt = time.Time{}
	return next
}
