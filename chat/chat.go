// Package chat provides persistent user/assistant messaging and the
// assistant reply composer.
package chat

import "time"

// Sender identifies the author of a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// ValidSender reports whether s is a known message author.
func ValidSender(s Sender) bool {
	return s == SenderUser || s == SenderAI
}

// DefaultTopic is the thread used when a message names none.
const DefaultTopic = "general"

// Message is one entry in a conversation thread. Messages are append-only
// and never mutated after the fact.
type Message struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	UserEmail string    `json:"user_email,omitempty"` // conversation owner
	Topic     string    `json:"topic"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists conversation messages.
type Store interface {
	// Append stores a new message and returns its assigned ID.
	Append(m *Message) (string, error)

	// List returns messages matching the filter, oldest first.
	List(filter Filter) ([]*Message, error)
}

// Filter selects messages by conversation owner and topic. Empty fields
// match everything.
type Filter struct {
	UserEmail string
	Topic     string
}
