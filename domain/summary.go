package domain

import (
	"fmt"
	"time"
)

// MemberWorkload is the per-member slice of the household summary.
type MemberWorkload struct {
	MemberID        string  `json:"member_id"`
	Name            string  `json:"name"`
	Avatar          string  `json:"avatar"`
	Color           string  `json:"color"`
	TotalTasks      int     `json:"total_tasks"`
	TotalWeight     int     `json:"total_weight"`
	CompletedWeight int     `json:"completed_weight"`
	CompletionRate  float64 `json:"completion_rate"`
}

// Summary aggregates the dashboard numbers for a household snapshot.
type Summary struct {
	TotalTasks     int              `json:"total_tasks"`
	CompletedTasks int              `json:"completed_tasks"`
	CompletionRate float64          `json:"completion_rate"`
	OverdueTasks   []Task           `json:"overdue_tasks"`
	LowStockItems  []Item           `json:"low_stock_items"`
	Workloads      []MemberWorkload `json:"workloads"`
	GeneratedAt    time.Time        `json:"generated_at"`
}

// Summarize computes completion, overdue, stock and workload figures.
func Summarize(members []Member, tasks []Task, items []Item, now time.Time) Summary {
	s := Summary{
		TotalTasks:    len(tasks),
		OverdueTasks:  []Task{},
		LowStockItems: []Item{},
		Workloads:     make([]MemberWorkload, 0, len(members)),
		GeneratedAt:   now,
	}

	for i := range tasks {
		if tasks[i].Completed {
			s.CompletedTasks++
		}
		if tasks[i].IsOverdue(now) {
			s.OverdueTasks = append(s.OverdueTasks, tasks[i])
		}
	}
	s.CompletionRate = percent(s.CompletedTasks, s.TotalTasks)

	for i := range items {
		if items[i].IsLowStock() {
			s.LowStockItems = append(s.LowStockItems, items[i])
		}
	}

	for _, m := range members {
		w := MemberWorkload{MemberID: m.ID, Name: m.Name, Avatar: m.Avatar, Color: m.Color}
		for _, t := range tasks {
			if t.AssignedTo != m.ID {
				continue
			}
			w.TotalTasks++
			w.TotalWeight += t.Weight
			if t.Completed {
				w.CompletedWeight += t.Weight
			}
		}
		w.CompletionRate = percent(w.CompletedWeight, w.TotalWeight)
		s.Workloads = append(s.Workloads, w)
	}

	return s
}

func percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// TimeLeft renders the distance between now and due in whole calendar days,
// e.g. "2 days left", "Due today" or "Overdue by 1 day".
func TimeLeft(due, now time.Time) string {
	due = due.In(now.Location())
	dy, dm, dd := due.Date()
	ny, nm, nd := now.Date()
	dueDay := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	diff := int(dueDay.Sub(today).Hours() / 24)

	switch {
	case diff > 1:
		return fmt.Sprintf("%d days left", diff)
	case diff == 1:
		return "Due tomorrow"
	case diff == 0:
		return "Due today"
	case diff == -1:
		return "Overdue by 1 day"
	default:
		return fmt.Sprintf("Overdue by %d days", -diff)
	}
}
