package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"tolldesk/access"
	"tolldesk/audit"
	"tolldesk/auth"
	"tolldesk/metrics"
	"tolldesk/models"
	"tolldesk/session"
)

type AuthHandler struct {
	authenticator *auth.Authenticator
	sessions      *session.Manager
	jwtManager    *auth.JWTManager
	trail         *audit.Trail
}

func NewAuthHandler(authenticator *auth.Authenticator, sessions *session.Manager, jwtManager *auth.JWTManager, trail *audit.Trail) *AuthHandler {
	return &AuthHandler{
		authenticator: authenticator,
		sessions:      sessions,
		jwtManager:    jwtManager,
		trail:         trail,
	}
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=128"`
	Password string `json:"password" validate:"required,max=256"`
}

type LoginResponse struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
	User         models.User  `json:"user"`
	RoleName     string       `json:"role_name"`
	Tabs         []access.Tab `json:"tabs"`
	Notices      []Notice     `json:"notices"`
}

// Login handles user authentication and opens the session
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.authenticator.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, auth.ErrAuthentication) {
		metrics.Logins.WithLabelValues("denied").Inc()
		writeError(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}
	if err != nil {
		metrics.Logins.WithLabelValues("error").Inc()
		log.Error().Err(err).Str("user", req.Username).Msg("login lookup failed")
		writeError(w, "Login failed, please try again later", http.StatusServiceUnavailable)
		return
	}

	s, err := h.sessions.Open(r.Context(), *user)
	if err != nil {
		var roleErr *access.InvalidRoleError
		if errors.As(err, &roleErr) {
			metrics.Logins.WithLabelValues("invalid_role").Inc()
			log.Error().Err(err).Str("user", user.Username).Msg("login rejected: no valid scope")
			writeError(w, "Account role is not configured correctly", http.StatusForbidden)
			return
		}
		metrics.Logins.WithLabelValues("error").Inc()
		log.Error().Err(err).Str("user", user.Username).Msg("failed to open session")
		writeError(w, "Login failed, please try again later", http.StatusInternalServerError)
		return
	}

	token, err := h.jwtManager.GenerateToken(s.User, s.ID)
	if err != nil {
		log.Error().Err(err).Str("user", user.Username).Msg("failed to generate token")
		writeError(w, "Failed to generate authentication token", http.StatusInternalServerError)
		return
	}
	refreshToken, err := h.jwtManager.GenerateRefreshToken(s.User, s.ID)
	if err != nil {
		log.Error().Err(err).Str("user", user.Username).Msg("failed to generate refresh token")
		writeError(w, "Failed to generate refresh token", http.StatusInternalServerError)
		return
	}

	metrics.Logins.WithLabelValues("ok").Inc()
	h.trail.Record(s.User, audit.ActionLogin, "logged in as "+string(s.User.Role))

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:        token,
		RefreshToken: refreshToken,
		User:         s.User,
		RoleName:     s.User.Role.DisplayName(),
		Tabs:         access.VisibleTabs(s.User.Role),
		Notices:      noticesOf(s.Notices()),
	})
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshTokenResponse struct {
	Token string `json:"token"`
}

// RefreshToken issues a new access token for a live session
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || validate.Struct(req) != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	claims, err := h.jwtManager.ValidateToken(req.RefreshToken)
	if err != nil || !claims.Refresh {
		writeError(w, "Invalid or expired refresh token", http.StatusUnauthorized)
		return
	}

	s, err := h.sessions.Get(r.Context(), claims.SessionID())
	if err != nil {
		writeError(w, "Session expired", http.StatusUnauthorized)
		return
	}

	token, err := h.jwtManager.GenerateToken(s.User, s.ID)
	if err != nil {
		log.Error().Err(err).Str("user", s.User.Username).Msg("failed to generate token")
		writeError(w, "Failed to generate authentication token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, RefreshTokenResponse{Token: token})
}

// Logout tears the caller's session down
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	s, ok := sessionOrFail(w, r)
	if !ok {
		return
	}

	if err := h.sessions.Close(r.Context(), s.ID); err != nil {
		log.Error().Err(err).Str("session", s.ID).Msg("failed to close session")
		writeError(w, "Logout failed", http.StatusInternalServerError)
		return
	}
	h.trail.Record(s.User, audit.ActionLogout, "logged out")

	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}
