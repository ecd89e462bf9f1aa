// Package audit records who logged in, logged out and exported data.
package audit

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"tolldesk/models"
)

// Actions.
const (
	ActionLogin  = "LOGIN"
	ActionLogout = "LOGOUT"
	ActionExport = "DATA_EXPORT"
)

// Entry is one audit event.
type Entry struct {
	LogID     string    `json:"log_id"`
	Timestamp time.Time `json:"timestamp"`
	UserID    models.ID `json:"user_id"`
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
}

// Trail keeps the most recent events in memory and mirrors each to the log.
type Trail struct {
	mu      sync.Mutex
	entries []Entry
	limit   int
}

// NewTrail keeps at most limit entries (limit <= 0 keeps 1000).
func NewTrail(limit int) *Trail {
	if limit <= 0 {
		limit = 1000
	}
	return &Trail{limit: limit}
}

// Record appends an event for user.
func (t *Trail) Record(user models.User, action, details string) Entry {
	e := Entry{
		LogID:     uuid.NewString(),
		Timestamp: time.Now().UTC(),
		UserID:    user.ID,
		Username:  user.Username,
		Action:    action,
		Details:   details,
	}

	t.mu.Lock()
	t.entries = append(t.entries, e)
	if over := len(t.entries) - t.limit; over > 0 {
		t.entries = append([]Entry(nil), t.entries[over:]...)
	}
	t.mu.Unlock()

	log.Info().
		Str("audit_id", e.LogID).
		Str("user", user.Username).
		Str("action", action).
		Msg(details)
	return e
}

// Entries returns a copy of the retained events, oldest first.
func (t *Trail) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Entry(nil), t.entries...)
}
