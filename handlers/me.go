package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"tolldesk/access"
	"tolldesk/filter"
	"tolldesk/models"
	"tolldesk/session"
)

type MeResponse struct {
	User     models.User     `json:"user"`
	RoleName string          `json:"role_name"`
	Scope    access.Scope    `json:"scope"`
	Tabs     []access.Tab    `json:"tabs"`
	Tab      access.Tab      `json:"tab"`
	Criteria filter.Criteria `json:"criteria"`
	LoadedAt time.Time       `json:"loaded_at"`
	Notices  []Notice        `json:"notices"`
}

// Me describes the caller's session
func Me(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	s, ok := sessionOrFail(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, describe(s))
}

type SwitchTabRequest struct {
	Tab access.Tab `json:"tab" validate:"required"`
}

// SwitchTab changes the open dashboard section
func SwitchTab(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	s, ok := sessionOrFail(w, r)
	if !ok {
		return
	}

	var req SwitchTabRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || validate.Struct(req) != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.SwitchTab(req.Tab); err != nil {
		if errors.Is(err, session.ErrTabNotVisible) {
			writeError(w, "Tab not available for this role", http.StatusForbidden)
			return
		}
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, describe(s))
}

func describe(s *session.Session) MeResponse {
	return MeResponse{
		User:     s.User,
		RoleName: s.User.Role.DisplayName(),
		Scope:    s.Scope,
		Tabs:     access.VisibleTabs(s.User.Role),
		Tab:      s.Tab(),
		Criteria: s.Criteria(),
		LoadedAt: s.Store().LoadedAt(),
		Notices:  noticesOf(s.Notices()),
	}
}
