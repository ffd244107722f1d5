// Package task defines the task model, priority scoring, and persistence
// for Cofounder work items.
package task

import (
	"errors"
	"time"
)

// Status represents the workflow state of a task.
type Status string

const (
	StatusBacklog    Status = "backlog"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusBlocked    Status = "blocked"
)

// ValidStatus reports whether s is one of the four workflow states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusBacklog, StatusInProgress, StatusDone, StatusBlocked:
		return true
	}
	return false
}

// Domain is the business area a task belongs to.
type Domain string

const (
	DomainProduct  Domain = "product"
	DomainGrowth   Domain = "growth"
	DomainSales    Domain = "sales"
	DomainOps      Domain = "ops"
	DomainFinance  Domain = "finance"
	DomainPeople   Domain = "people"
	DomainLegal    Domain = "legal"
	DomainData     Domain = "data"
	DomainResearch Domain = "research"
	DomainGeneral  Domain = "general"
)

// ValidDomain reports whether d is a known business area.
func ValidDomain(d Domain) bool {
	switch d {
	case DomainProduct, DomainGrowth, DomainSales, DomainOps, DomainFinance,
		DomainPeople, DomainLegal, DomainData, DomainResearch, DomainGeneral:
		return true
	}
	return false
}

// Default estimates substituted when a field was left unset.
const (
	DefaultImpact  = 5
	DefaultEffort  = 3
	DefaultUrgency = 5
)

// Task is a unit of work tracked for the team. Impact, Effort, and Urgency
// are 1-10 estimates; Score is computed from them and never stored.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Domain      Domain    `json:"domain"`
	Impact      int       `json:"impact"`
	Effort      int       `json:"effort"`
	Urgency     int       `json:"urgency"`
	Status      Status    `json:"status"`
	Assignee    string    `json:"assignee,omitempty"` // user email
	Score       int       `json:"score"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Normalize substitutes defaults for unset fields. It is the single place
// default substitution happens: the store applies it on create, so every
// task read back from persistence is already normalized.
func (t *Task) Normalize() {
	if t.Impact == 0 {
		t.Impact = DefaultImpact
	}
	if t.Effort == 0 {
		t.Effort = DefaultEffort
	}
	if t.Urgency == 0 {
		t.Urgency = DefaultUrgency
	}
	if t.Domain == "" {
		t.Domain = DomainGeneral
	}
	if t.Status == "" {
		t.Status = StatusBacklog
	}
}

// Sentinel errors returned by Store implementations.
var (
	// ErrInvalidID means the given id does not parse as a task identity.
	ErrInvalidID = errors.New("invalid task id")
	// ErrNotFound means the id is well-formed but matches no stored task.
	ErrNotFound = errors.New("task not found")
)

// Store persists and retrieves tasks.
type Store interface {
	// Create persists a new task and returns its assigned ID.
	Create(t *Task) (string, error)

	// Get retrieves a task by ID.
	Get(id string) (*Task, error)

	// List returns tasks matching the given filter.
	List(filter Filter) ([]*Task, error)

	// SetStatus overwrites a single task's status, leaving other fields
	// untouched.
	SetStatus(id string, status Status) error

	// Claim atomically moves a task from backlog to in_progress with the
	// given assignee. It reports false when the task is no longer in
	// backlog (or no longer exists), in which case nothing was written.
	Claim(id, assignee string) (bool, error)
}

// Filter controls which tasks are returned by List.
type Filter struct {
	Status   *Status `json:"status,omitempty"`
	Assignee string  `json:"assignee,omitempty"`
}
