package domain

import "slices"

// Workloads sums the weight of every incomplete task per assignee. Members
// without work are present with a zero entry.
func Workloads(members []Member, tasks []Task) map[string]int {
	loads := make(map[string]int, len(members))
	for _, m := range members {
		loads[m.ID] = 0
	}
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		if _, ok := loads[t.AssignedTo]; ok {
			loads[t.AssignedTo] += t.Weight
		}
	}
	return loads
}

// LeastLoadedMember returns the id of the member with the smallest workload.
// Ties go to the member listed first.
func LeastLoadedMember(members []Member, tasks []Task) (string, error) {
	if len(members) == 0 {
		return "", ErrNoMembers
	}
	return members[lightest(members, Workloads(members, tasks))].ID, nil
}

// Redistribute reassigns every incomplete task from scratch, heaviest first,
// each to whoever currently carries the least running load. Completed tasks
// keep their assignee. The input slice is left untouched.
func Redistribute(members []Member, tasks []Task) ([]Task, error) {
	if len(members) == 0 {
		return nil, ErrNoMembers
	}

	out := slices.Clone(tasks)

	order := make([]int, 0, len(out))
	for i, t := range out {
		if !t.Completed {
			order = append(order, i)
		}
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return out[b].Weight - out[a].Weight
	})

	running := make(map[string]int, len(members))
	for _, idx := range order {
		pick := members[lightest(members, running)].ID
		out[idx].AssignedTo = pick
		running[pick] += out[idx].Weight
	}
	return out, nil
}

// lightest returns the index of the first member with the minimal load.
func lightest(members []Member, loads map[string]int) int {
	best := 0
	for i := 1; i < len(members); i++ {
		if loads[members[i].ID] < loads[members[best].ID] {
			best = i
		}
	}
	return best
}
