package task

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	domain      TEXT NOT NULL DEFAULT 'general',
	impact      INTEGER NOT NULL,
	effort      INTEGER NOT NULL,
	urgency     INTEGER NOT NULL,
	status      TEXT NOT NULL DEFAULT 'backlog',
	assignee    TEXT NOT NULL DEFAULT '',
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL
);
`

// SQLiteStore persists tasks in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the tasks table exists. The caller is responsible for calling Close.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	db.SetMaxOpenConns(1) // prevent SQLITE_BUSY
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database connection.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// parseID validates a task identity reference.
func parseID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// Create normalizes t, assigns it an ID and timestamps, and persists it.
func (s *SQLiteStore) Create(t *Task) (string, error) {
	t.Normalize()
	t.ID = uuid.NewString()
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	_, err := s.db.Exec(`
		INSERT INTO tasks
			(id, title, description, domain, impact, effort, urgency, status, assignee, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		t.ID, t.Title, t.Description, string(t.Domain),
		t.Impact, t.Effort, t.Urgency,
		string(t.Status), t.Assignee,
		t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert task: %w", err)
	}
	return t.ID, nil
}

// Get retrieves a task by ID.
func (s *SQLiteStore) Get(id string) (*Task, error) {
	if err := parseID(id); err != nil {
		return nil, err
	}
	row := s.db.QueryRow(`SELECT * FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return t, err
}

// List returns tasks matching the filter, ordered by creation time. Callers
// that need a ranking apply ListRanked on top.
func (s *SQLiteStore) List(filter Filter) ([]*Task, error) {
	q := strings.Builder{}
	q.WriteString("SELECT * FROM tasks WHERE 1=1")
	args := []any{}

	if filter.Status != nil {
		q.WriteString(" AND status=?")
		args = append(args, string(*filter.Status))
	}
	if filter.Assignee != "" {
		q.WriteString(" AND assignee=?")
		args = append(args, filter.Assignee)
	}
	q.WriteString(" ORDER BY created_at ASC, id ASC")

	rows, err := s.db.Query(q.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// SetStatus overwrites the status of a single task.
func (s *SQLiteStore) SetStatus(id string, status Status) error {
	if err := parseID(id); err != nil {
		return err
	}
	res, err := s.db.Exec(
		`UPDATE tasks SET status=?, updated_at=? WHERE id=?`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Claim moves a task to in_progress with the given assignee, guarded by
// the task still being in backlog. The guard makes the claim atomic: of
// two concurrent claimers, exactly one update matches.
func (s *SQLiteStore) Claim(id, assignee string) (bool, error) {
	if err := parseID(id); err != nil {
		return false, err
	}
	res, err := s.db.Exec(
		`UPDATE tasks SET status=?, assignee=?, updated_at=? WHERE id=? AND status=?`,
		string(StatusInProgress), assignee, time.Now().UTC(),
		id, string(StatusBacklog),
	)
	if err != nil {
		return false, fmt.Errorf("claim task: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

// scanner abstracts sql.Row and sql.Rows for scanTask.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*Task, error) {
	var t Task
	var domain, status string

	err := s.Scan(
		&t.ID, &t.Title, &t.Description, &domain,
		&t.Impact, &t.Effort, &t.Urgency,
		&status, &t.Assignee,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Domain = Domain(domain)
	t.Status = Status(status)
	return &t, nil
}
