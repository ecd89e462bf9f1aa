package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"tolldesk/db"
	"tolldesk/middleware"
	"tolldesk/session"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Notice is a non-blocking message for the user about a collection that
// could not be loaded.
type Notice struct {
	Entity  string `json:"entity"`
	Message string `json:"message"`
}

func noticesOf(failures []*db.FetchError) []Notice {
	out := make([]Notice, 0, len(failures))
	for _, f := range failures {
		out = append(out, Notice{
			Entity:  string(f.Entity),
			Message: fmt.Sprintf("Failed to load %s, please try again later", f.Entity),
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// sessionOrFail fetches the session injected by the auth middleware.
func sessionOrFail(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		writeError(w, "Session not found in context", http.StatusUnauthorized)
	}
	return s, ok
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}
