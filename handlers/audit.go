package handlers

import (
	"net/http"
	"strings"

	"tolldesk/audit"
)

// AuditHandler exposes the retained audit trail to super administrators.
type AuditHandler struct {
	trail *audit.Trail
}

func NewAuditHandler(trail *audit.Trail) *AuditHandler {
	return &AuditHandler{trail: trail}
}

// List returns the retained events, oldest first. An action query parameter
// keeps only events of that action.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	entries := h.trail.Entries()
	if action := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("action"))); action != "" {
		kept := make([]audit.Entry, 0, len(entries))
		for _, e := range entries {
			if e.Action == action {
				kept = append(kept, e)
			}
		}
		entries = kept
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	writeJSON(w, http.StatusOK, listResponse[audit.Entry]{Items: entries, Count: len(entries)})
}
