package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"server/internal/domain"
)

type dispositionRequest struct {
	Prompt   string `json:"prompt"`
	ImageURL string `json:"image_url"`
}

type dispositionResponse struct {
	SubmissionID     string `json:"submission_id"`
	RemainingPrompts int    `json:"remaining_prompts"`
}

type submissionDTO struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	ImageURL  string    `json:"image_url"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type submissionListResponse struct {
	Submissions           []submissionDTO `json:"submissions"`
	RemainingPrompts      int             `json:"remaining_prompts"`
	SubmittedPromptsCount int             `json:"submitted_prompts_count"`
}

// SubmissionsCreate records the image as the caller's final entry.
func (a *App) SubmissionsCreate(w http.ResponseWriter, r *http.Request) {
	a.disposition(w, r, domain.StatusSubmitted)
}

// SubmissionsDiscard spends a prompt without entering the image.
func (a *App) SubmissionsDiscard(w http.ResponseWriter, r *http.Request) {
	a.disposition(w, r, domain.StatusDeleted)
}

func (a *App) disposition(w http.ResponseWriter, r *http.Request, status domain.SubmissionStatus) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req dispositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	apply := a.Contest.SubmitImage
	if status == domain.StatusDeleted {
		apply = a.Contest.DiscardImage
	}
	res, err := apply(r.Context(), userID, req.Prompt, req.ImageURL)
	if err != nil {
		a.domainError(w, err)
		return
	}

	a.json(w, http.StatusCreated, dispositionResponse{
		SubmissionID:     res.SubmissionID,
		RemainingPrompts: res.RemainingPrompts,
	})
}

// SubmissionsList returns the caller's disposition history, newest first.
func (a *App) SubmissionsList(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	subs, stats, err := a.Contest.ListSubmissions(r.Context(), userID)
	if err != nil {
		a.domainError(w, err)
		return
	}

	out := make([]submissionDTO, 0, len(subs))
	for _, s := range subs {
		out = append(out, submissionDTO{
			ID:        s.ID,
			Prompt:    s.Prompt,
			ImageURL:  s.ImageURL,
			Status:    string(s.Status),
			CreatedAt: s.CreatedAt,
		})
	}
	a.json(w, http.StatusOK, submissionListResponse{
		Submissions:           out,
		RemainingPrompts:      stats.RemainingPrompts,
		SubmittedPromptsCount: stats.SubmittedPromptsCount,
	})
}
