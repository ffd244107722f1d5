package task

import (
	"cmp"
	"slices"
)

// Score computes the priority of t: impact counts double, urgency adds,
// effort subtracts. Higher is more important. Tasks are normalized when
// created, so the estimate fields carry their defaults here if the caller
// never set them.
func Score(t *Task) int {
	return t.Impact*2 + t.Urgency - t.Effort
}

// PreferenceScore ranks t for next-task selection. On top of the base
// score, a task already assigned to the caller gets +5 and an unassigned
// task gets +2. The bonuses are mutually exclusive per task.
func PreferenceScore(t *Task, caller string) int {
	s := Score(t)
	if caller != "" && t.Assignee == caller {
		s += 5
	}
	if t.Assignee == "" {
		s += 2
	}
	return s
}

// ListRanked returns the tasks matching filter with scores attached,
// highest score first. Ties order by task ID ascending; the ordering is a
// contract, not an accident of store iteration.
func ListRanked(store Store, filter Filter) ([]*Task, error) {
	tasks, err := store.List(filter)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		t.Score = Score(t)
	}
	slices.SortFunc(tasks, func(a, b *Task) int {
		if a.Score != b.Score {
			return cmp.Compare(b.Score, a.Score)
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return tasks, nil
}
