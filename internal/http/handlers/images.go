package handlers

import (
	"encoding/json"
	"net/http"

	"server/internal/middleware"
)

type imageGenerateRequest struct {
	Prompt string `json:"prompt"`
}

type imageGenerateResponse struct {
	ImageURL         string `json:"image_url"`
	RemainingPrompts int    `json:"remaining_prompts"`
}

func (a *App) ImagesGenerate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req imageGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	res, err := a.Contest.GenerateImage(r.Context(), userID, req.Prompt, middleware.RequestIDFromContext(r.Context()))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, imageGenerateResponse{
		ImageURL:         res.ImageURL,
		RemainingPrompts: res.RemainingPrompts,
	})
}
