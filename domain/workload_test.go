package domain

import (
	"errors"
	"testing"
)

func members(ids ...string) []Member {
	out := make([]Member, 0, len(ids))
	for _, id := range ids {
		out = append(out, Member{ID: id, Name: id})
	}
	return out
}

func TestLeastLoadedMemberPicksSmallestWorkload(t *testing.T) {
	tasks := []Task{
		{ID: "t1", AssignedTo: "a", Weight: 3},
		{ID: "t2", AssignedTo: "b", Weight: 1},
		{ID: "t3", AssignedTo: "b", Weight: 5, Completed: true},
	}
	got, err := LeastLoadedMember(members("a", "b"), tasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "b" {
		t.Fatalf("expected b, got %s", got)
	}
}

func TestLeastLoadedMemberTieGoesToFirst(t *testing.T) {
	tasks := []Task{
		{ID: "t1", AssignedTo: "a", Weight: 2},
		{ID: "t2", AssignedTo: "b", Weight: 2},
	}
	got, err := LeastLoadedMember(members("a", "b", "c", "d"), append(tasks, Task{ID: "t3", AssignedTo: "d", Weight: 0}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "c" {
		t.Fatalf("expected c, got %s", got)
	}
}

func TestLeastLoadedMemberIgnoresUnknownAssignees(t *testing.T) {
	tasks := []Task{{ID: "t1", AssignedTo: "ghost", Weight: 5}, {ID: "t2", AssignedTo: "a", Weight: 1}}
	got, err := LeastLoadedMember(members("a", "b"), tasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "b" {
		t.Fatalf("expected b, got %s", got)
	}
}

func TestLeastLoadedMemberWithoutMembers(t *testing.T) {
	_, err := LeastLoadedMember(nil, nil)
	if !errors.Is(err, ErrNoMembers) {
		t.Fatalf("expected ErrNoMembers, got %v", err)
	}
	if !IsDomainError(err, ErrCodeInvalidState) {
		t.Fatalf("expected INVALID_STATE code, got %v", err)
	}
}

func TestRedistributeHeaviestFirst(t *testing.T) {
	tasks := []Task{
		{ID: "t1", AssignedTo: "b", Weight: 5},
		{ID: "t2", AssignedTo: "a", Weight: 3},
		{ID: "t3", AssignedTo: "a", Weight: 3},
	}
	got, err := Redistribute(members("a", "b"), tasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"a", "b", "b"}
	for i, w := range want {
		if got[i].AssignedTo != w {
			t.Fatalf("task %s: expected %s, got %s", got[i].ID, w, got[i].AssignedTo)
		}
	}
	if tasks[0].AssignedTo != "b" || tasks[1].AssignedTo != "a" {
		t.Fatalf("input slice was modified: %+v", tasks)
	}
}

func TestRedistributeSortsBeforeAssigning(t *testing.T) {
	// Light tasks listed first must not grab the empty members ahead of the heavy one.
	tasks := []Task{
		{ID: "light1", Weight: 1},
		{ID: "light2", Weight: 1},
		{ID: "heavy", Weight: 5},
	}
	got, err := Redistribute(members("a", "b"), tasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	byID := map[string]string{}
	for _, task := range got {
		byID[task.ID] = task.AssignedTo
	}
	if byID["heavy"] != "a" || byID["light1"] != "b" || byID["light2"] != "b" {
		t.Fatalf("unexpected assignment: %v", byID)
	}
	if got[0].ID != "light1" || got[2].ID != "heavy" {
		t.Fatalf("output order must match input order, got %s,%s,%s", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestRedistributeKeepsCompletedAssignee(t *testing.T) {
	tasks := []Task{
		{ID: "done", AssignedTo: "b", Weight: 5, Completed: true},
		{ID: "open", AssignedTo: "b", Weight: 2},
	}
	got, err := Redistribute(members("a", "b"), tasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].AssignedTo != "b" {
		t.Fatalf("completed task moved to %s", got[0].AssignedTo)
	}
	if got[1].AssignedTo != "a" {
		t.Fatalf("expected open task on a, got %s", got[1].AssignedTo)
	}
}

func TestRedistributeWithoutMembers(t *testing.T) {
	if _, err := Redistribute(nil, []Task{{ID: "t", Weight: 1}}); !errors.Is(err, ErrNoMembers) {
		t.Fatalf("expected ErrNoMembers, got %v", err)
	}
}
