package chat

import (
	"fmt"
	"log/slog"

	"github.com/cofounder-os/cofounder/task"
)

// topTaskCount is how many ranked tasks the assistant reply mentions.
const topTaskCount = 3

// Composer stores submitted messages and answers user messages with an
// assistant reply derived from the current top-ranked tasks.
type Composer struct {
	messages Store
	tasks    task.Store
	logger   *slog.Logger
}

// NewComposer creates a Composer writing to messages and reading tasks.
func NewComposer(messages Store, tasks task.Store, logger *slog.Logger) *Composer {
	return &Composer{messages: messages, tasks: tasks, logger: logger}
}

// Submit persists m and, when it comes from a user, composes and persists
// the assistant reply on the same thread. It returns the reply, or nil for
// non-user messages.
//
// The two writes are independent: a failure after the first leaves the
// user message stored without a reply, which callers treat as non-fatal
// for the thread.
func (c *Composer) Submit(m *Message) (*Message, error) {
	// Append defaults the topic, so the reply below inherits it from m.
	if _, err := c.messages.Append(m); err != nil {
		return nil, fmt.Errorf("store message: %w", err)
	}
	if m.Sender != SenderUser {
		return nil, nil
	}

	text, err := c.compose()
	if err != nil {
		return nil, err
	}
	reply := &Message{
		Sender:    SenderAI,
		Text:      text,
		UserEmail: m.UserEmail,
		Topic:     m.Topic,
	}
	if _, err := c.messages.Append(reply); err != nil {
		return nil, fmt.Errorf("store reply: %w", err)
	}
	c.logger.Debug("assistant reply stored",
		slog.String("topic", reply.Topic),
		slog.String("user_email", reply.UserEmail),
	)
	return reply, nil
}

// compose renders the reply text from the current task ranking.
func (c *Composer) compose() (string, error) {
	ranked, err := task.ListRanked(c.tasks, task.Filter{})
	if err != nil {
		return "", fmt.Errorf("rank tasks: %w", err)
	}
	if len(ranked) > topTaskCount {
		ranked = ranked[:topTaskCount]
	}
	return renderReply(ranked), nil
}
