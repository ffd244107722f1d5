package chat

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id         TEXT PRIMARY KEY,
	sender     TEXT NOT NULL,
	text       TEXT NOT NULL,
	user_email TEXT NOT NULL DEFAULT '',
	topic      TEXT NOT NULL DEFAULT 'general',
	created_at DATETIME NOT NULL
);
`

// SQLiteStore persists messages in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the messages table exists. The caller is responsible for calling Close.
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

// Append stores a new message, assigning its ID, timestamp, and the
// default topic when none was given.
func (s *SQLiteStore) Append(m *Message) (string, error) {
	if m.Topic == "" {
		m.Topic = DefaultTopic
	}
	m.ID = uuid.NewString()
	m.CreatedAt = time.Now().UTC()

	_, err := s.db.Exec(`
		INSERT INTO messages (id, sender, text, user_email, topic, created_at)
		VALUES (?,?,?,?,?,?)`,
		m.ID, string(m.Sender), m.Text, m.UserEmail, m.Topic, m.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert message: %w", err)
	}
	return m.ID, nil
}

// List returns messages matching the filter in creation order, oldest
// first. Insertion order breaks timestamp ties.
func (s *SQLiteStore) List(filter Filter) ([]*Message, error) {
	q := strings.Builder{}
	q.WriteString("SELECT id, sender, text, user_email, topic, created_at FROM messages WHERE 1=1")
	args := []any{}

	if filter.UserEmail != "" {
		q.WriteString(" AND user_email=?")
		args = append(args, filter.UserEmail)
	}
	if filter.Topic != "" {
		q.WriteString(" AND topic=?")
		args = append(args, filter.Topic)
	}
	q.WriteString(" ORDER BY created_at ASC, rowid ASC")

	rows, err := s.db.Query(q.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var msgs []*Message
	for rows.Next() {
		var m Message
		var sender string
		if err := rows.Scan(&m.ID, &sender, &m.Text, &m.UserEmail, &m.Topic, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Sender = Sender(sender)
		msgs = append(msgs, &m)
	}
	return msgs, rows.Err()
}
