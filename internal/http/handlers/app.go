package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"server/internal/contest"
	"server/internal/domain"
	"server/internal/infra"
	"server/internal/middleware"
	"server/internal/storage"
)

type App struct {
	Contest     *contest.Service
	Users       domain.UserRepository
	Submissions domain.SubmissionRepository
	Audit       domain.AuditRepository
	Store       *storage.FileStore
	Logger      zerolog.Logger
	Config      infra.Config
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, errorBody{Error: errCode, Message: message})
}

// domainError maps sentinel errors from the contest layer onto HTTP
// responses. Unknown errors are logged and reported as internal.
func (a *App) domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "not found")
	case errors.Is(err, domain.ErrQuotaExhausted):
		a.error(w, http.StatusForbidden, "quota_exhausted", "no remaining prompts available")
	case errors.Is(err, domain.ErrSessionComplete):
		a.error(w, http.StatusForbidden, "session_complete", "final image already submitted")
	case errors.Is(err, domain.ErrProviderFailure):
		a.Logger.Error().Err(err).Msg("image provider failure")
		a.error(w, http.StatusBadGateway, "provider_failure", "image generation failed")
	default:
		a.Logger.Error().Err(err).Msg("unhandled error")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}
