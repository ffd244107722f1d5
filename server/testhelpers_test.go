package server

import (
	"github.com/cofounder-os/cofounder/chat"
	"github.com/cofounder-os/cofounder/task"
)

// noopTaskStore satisfies task.Store for tests.
type noopTaskStore struct{}

func (n *noopTaskStore) Create(_ *task.Task) (string, error)      { return "test-id", nil }
func (n *noopTaskStore) Get(_ string) (*task.Task, error)         { return &task.Task{ID: "test-id"}, nil }
func (n *noopTaskStore) List(_ task.Filter) ([]*task.Task, error) { return nil, nil }
func (n *noopTaskStore) SetStatus(_ string, _ task.Status) error  { return nil }
func (n *noopTaskStore) Claim(_, _ string) (bool, error)          { return false, nil }

// noopMessageStore satisfies chat.Store for tests.
type noopMessageStore struct{}

func (n *noopMessageStore) Append(_ *chat.Message) (string, error)      { return "test-id", nil }
func (n *noopMessageStore) List(_ chat.Filter) ([]*chat.Message, error) { return nil, nil }
