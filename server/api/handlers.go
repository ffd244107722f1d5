// Package api defines the REST API handlers for the Cofounder server.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cofounder-os/cofounder/chat"
	"github.com/cofounder-os/cofounder/task"
)

// Handlers bundles all REST API handler dependencies.
type Handlers struct {
	Tasks    task.Store
	Selector *task.Selector
	Messages chat.Store
	Composer *chat.Composer
	Logger   *slog.Logger
	Version  string

	// Events, when set, receives an event type and payload for every
	// state change, for SSE fan-out.
	Events func(eventType string, payload any)
}

// RegisterRoutes registers all API routes on the given mux.
func (h *Handlers) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/tasks", h.listTasks)
	mux.HandleFunc("POST /api/tasks", h.createTask)
	mux.HandleFunc("GET /api/tasks/next", h.nextTask)
	mux.HandleFunc("GET /api/tasks/{id}", h.getTask)
	mux.HandleFunc("POST /api/tasks/{id}/status", h.updateTaskStatus)

	mux.HandleFunc("GET /api/messages", h.listMessages)
	mux.HandleFunc("POST /api/messages", h.createMessage)

	mux.HandleFunc("GET /api/status", h.status)
	mux.HandleFunc("GET /api/version", h.version)
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// emit fans an event out to SSE clients when wired.
func (h *Handlers) emit(eventType string, payload any) {
	if h.Events != nil {
		h.Events(eventType, payload)
	}
}

// --- Task handlers ---

func (h *Handlers) listTasks(w http.ResponseWriter, r *http.Request) {
	filter := task.Filter{}
	if s := r.URL.Query().Get("status"); s != "" {
		st := task.Status(s)
		if !task.ValidStatus(st) {
			writeError(w, http.StatusBadRequest, "unknown status: "+s)
			return
		}
		filter.Status = &st
	}

	tasks, err := task.ListRanked(h.Tasks, filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if tasks == nil {
		tasks = []*task.Task{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": tasks})
}

func (h *Handlers) createTask(w http.ResponseWriter, r *http.Request) {
	var t task.Task
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := validateTask(&t); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.Tasks.Create(&t)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	t.Score = task.Score(&t)
	h.emit("task.created", &t)
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// validateTask checks the create payload before defaults are applied.
func validateTask(t *task.Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("title is required")
	}
	for name, v := range map[string]int{"impact": t.Impact, "effort": t.Effort, "urgency": t.Urgency} {
		if v != 0 && (v < 1 || v > 10) {
			return fmt.Errorf("%s must be between 1 and 10", name)
		}
	}
	if t.Domain != "" && !task.ValidDomain(t.Domain) {
		return fmt.Errorf("unknown domain: %s", t.Domain)
	}
	if t.Status != "" && !task.ValidStatus(t.Status) {
		return fmt.Errorf("unknown status: %s", t.Status)
	}
	return nil
}

func (h *Handlers) getTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.Tasks.Get(r.PathValue("id"))
	if err != nil {
		writeTaskError(w, err)
		return
	}
	t.Score = task.Score(t)
	writeJSON(w, http.StatusOK, t)
}

// nextTaskResponse mirrors the next-task endpoint body: a task, or null
// plus an explanatory message.
type nextTaskResponse struct {
	Task    *task.Task `json:"task"`
	Message string     `json:"message,omitempty"`
}

func (h *Handlers) nextTask(w http.ResponseWriter, r *http.Request) {
	caller := r.URL.Query().Get("user_email")

	t, msg, err := h.Selector.SelectNext(caller)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if t != nil && t.Status == task.StatusInProgress && t.Assignee == caller && caller != "" {
		h.emit("task.claimed", t)
	}
	writeJSON(w, http.StatusOK, nextTaskResponse{Task: t, Message: msg})
}

// statusUpdateRequest is the body accepted by POST /api/tasks/{id}/status.
type statusUpdateRequest struct {
	Status task.Status `json:"status"`
}

func (h *Handlers) updateTaskStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if !task.ValidStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "unknown status: "+string(req.Status))
		return
	}

	if err := h.Tasks.SetStatus(id, req.Status); err != nil {
		writeTaskError(w, err)
		return
	}
	h.emit("task.status", map[string]any{"id": id, "status": req.Status})
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// writeTaskError maps store errors onto HTTP statuses.
func writeTaskError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, task.ErrInvalidID):
		writeError(w, http.StatusBadRequest, "invalid task id")
	case errors.Is(err, task.ErrNotFound):
		writeError(w, http.StatusNotFound, "task not found")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// --- Message handlers ---

func (h *Handlers) listMessages(w http.ResponseWriter, r *http.Request) {
	filter := chat.Filter{
		UserEmail: r.URL.Query().Get("user_email"),
		Topic:     r.URL.Query().Get("topic"),
	}
	msgs, err := h.Messages.List(filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if msgs == nil {
		msgs = []*chat.Message{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": msgs})
}

func (h *Handlers) createMessage(w http.ResponseWriter, r *http.Request) {
	var m chat.Message
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if !chat.ValidSender(m.Sender) {
		writeError(w, http.StatusBadRequest, "sender must be user or ai")
		return
	}
	if strings.TrimSpace(m.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	reply, err := h.Composer.Submit(&m)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.emit("message.created", &m)
	if reply != nil {
		h.emit("message.created", reply)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// --- Status / version ---

func (h *Handlers) status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.Version,
	})
}

// StatusHandler returns the status handler function for external registration.
func (h *Handlers) StatusHandler() http.HandlerFunc {
	return h.status
}

func (h *Handlers) version(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": h.Version,
	})
}
