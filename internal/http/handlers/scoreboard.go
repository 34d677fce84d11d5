package handlers

import (
	"net/http"
	"strconv"
	"time"
)

type scoreboardEntryDTO struct {
	UserID                string    `json:"user_id"`
	Username              string    `json:"username"`
	SubmittedPromptsCount int       `json:"submitted_prompts_count"`
	LastUpdated           time.Time `json:"last_updated"`
}

func (a *App) Scoreboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := a.Contest.Scoreboard(r.Context(), limit)
	if err != nil {
		a.domainError(w, err)
		return
	}

	out := make([]scoreboardEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, scoreboardEntryDTO{
			UserID:                e.UserID,
			Username:              e.Username,
			SubmittedPromptsCount: e.SubmittedPromptsCount,
			LastUpdated:           e.LastUpdated,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"users": out})
}
