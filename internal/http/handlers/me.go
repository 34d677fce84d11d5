package handlers

import (
	"net/http"

	"server/internal/domain"
)

func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	stats, err := a.Contest.UserStats(r.Context(), userID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, userStatsDTO{
		ID:                    stats.UserID,
		Username:              stats.Username,
		RemainingPrompts:      stats.RemainingPrompts,
		SubmittedPromptsCount: stats.SubmittedPromptsCount,
		TabSwitches:           stats.TabSwitches,
	})
}

// TabSwitch bumps the caller's tab switch counter. The client reports these
// when the contest page loses focus.
func (a *App) TabSwitch(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	total, err := a.Contest.RecordTabSwitch(r.Context(), userID)
	if err != nil {
		a.domainError(w, err)
		return
	}

	a.auditEvent(r, userID, domain.AuditTabSwitch, map[string]any{"total": total})

	a.json(w, http.StatusOK, map[string]int{"tab_switches": total})
}
