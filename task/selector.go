package task

import (
	"fmt"
	"log/slog"
)

// NoTasksMessage explains an empty selection pool. An empty pool is a
// normal state, not an error.
const NoTasksMessage = "No tasks available. Create one to get started."

// maxClaimAttempts bounds re-selection after a lost claim race.
const maxClaimAttempts = 3

// Selector picks the next task to work on and, when a caller identity is
// given, claims it.
type Selector struct {
	store  Store
	logger *slog.Logger
}

// NewSelector creates a Selector over the given store.
func NewSelector(store Store, logger *slog.Logger) *Selector {
	return &Selector{store: store, logger: logger}
}

// SelectNext returns the highest-preference task from the backlog, falling
// back to blocked tasks so stuck work surfaces instead of silence. Ties
// break by task ID ascending. When caller is non-empty and the winner is a
// backlog task, it is atomically claimed: status moves to in_progress and
// caller becomes the assignee. A lost claim race triggers re-selection.
//
// The returned task carries its computed score. A nil task with a non-empty
// message means the pool was empty.
func (s *Selector) SelectNext(caller string) (*Task, string, error) {
	for attempt := 0; attempt < maxClaimAttempts; attempt++ {
		pool, err := s.pool()
		if err != nil {
			return nil, "", err
		}
		if len(pool) == 0 {
			return nil, NoTasksMessage, nil
		}

		best := pickBest(pool, caller)
		best.Score = Score(best)

		// Blocked tasks are surfaced but never auto-assigned, and
		// without a caller there is nothing to assign to.
		if caller == "" || best.Status != StatusBacklog {
			return best, "", nil
		}

		claimed, err := s.store.Claim(best.ID, caller)
		if err != nil {
			return nil, "", err
		}
		if claimed {
			best.Status = StatusInProgress
			best.Assignee = caller
			return best, "", nil
		}
		s.logger.Warn("stale claim, reselecting",
			slog.String("task", best.ID),
			slog.String("caller", caller),
		)
	}
	return nil, NoTasksMessage, nil
}

// pool returns backlog tasks, or blocked tasks when the backlog is empty.
func (s *Selector) pool() ([]*Task, error) {
	backlog := StatusBacklog
	pool, err := s.store.List(Filter{Status: &backlog})
	if err != nil {
		return nil, fmt.Errorf("list backlog: %w", err)
	}
	if len(pool) > 0 {
		return pool, nil
	}
	blocked := StatusBlocked
	pool, err = s.store.List(Filter{Status: &blocked})
	if err != nil {
		return nil, fmt.Errorf("list blocked: %w", err)
	}
	return pool, nil
}

// pickBest returns the pool entry with the highest preference score,
// breaking ties by task ID ascending.
func pickBest(pool []*Task, caller string) *Task {
	best := pool[0]
	bestPref := PreferenceScore(best, caller)
	for _, t := range pool[1:] {
		pref := PreferenceScore(t, caller)
		if pref > bestPref || (pref == bestPref && t.ID < best.ID) {
			best, bestPref = t, pref
		}
	}
	return best
}
