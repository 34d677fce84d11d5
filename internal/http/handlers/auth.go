package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"server/internal/domain"
	"server/internal/middleware"
)

const tokenTTL = 24 * time.Hour

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userStatsDTO `json:"user"`
}

type userStatsDTO struct {
	ID                    string `json:"id"`
	Username              string `json:"username"`
	RemainingPrompts      int    `json:"remaining_prompts"`
	SubmittedPromptsCount int    `json:"submitted_prompts_count"`
	TabSwitches           int    `json:"tab_switches"`
}

func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "username and password required")
		return
	}

	user, err := a.Users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
			return
		}
		a.domainError(w, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
		return
	}

	token, err := middleware.SignToken(a.Config.JWTSecret, user.ID, tokenTTL)
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign token failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}

	a.auditEvent(r, user.ID, domain.AuditLogin, map[string]any{"username": user.Username})

	a.json(w, http.StatusOK, loginResponse{
		Token: token,
		User: userStatsDTO{
			ID:                    user.ID,
			Username:              user.Username,
			RemainingPrompts:      user.RemainingPrompts,
			SubmittedPromptsCount: user.SubmittedPromptsCount,
			TabSwitches:           user.TabSwitches,
		},
	})
}

// Register always refuses. Accounts are provisioned by the operators; the
// endpoint exists so clients get a clear answer instead of a 404.
func (a *App) Register(w http.ResponseWriter, r *http.Request) {
	a.error(w, http.StatusForbidden, "registration_disabled", "registration is disabled, credentials are provisioned")
}

// auditEvent records a security event without failing the request.
func (a *App) auditEvent(r *http.Request, userID, eventType string, props map[string]any) {
	if a.Audit == nil {
		return
	}
	event := &domain.AuditEvent{
		UserID:     userID,
		EventType:  eventType,
		Country:    middleware.CountryFromContext(r.Context()),
		Properties: props,
	}
	if err := a.Audit.Insert(r.Context(), event); err != nil {
		a.Logger.Warn().Err(err).Str("event_type", eventType).Msg("audit insert failed")
	}
}
