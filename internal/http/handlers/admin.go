package handlers

import (
	"encoding/base64"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"server/internal/domain"
	"server/internal/provision"
	"server/pkg/zip"
)

const (
	defaultAdminPageSize = 100
	maxAdminPageSize     = 500
	unsortedFallbackCap  = 50
)

type adminSubmissionDTO struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Prompt    string    `json:"prompt"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

type paginationDTO struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

type adminSubmissionsResponse struct {
	Submissions []adminSubmissionDTO `json:"submissions"`
	TotalCount  int64                `json:"total_count"`
	Pagination  *paginationDTO       `json:"pagination,omitempty"`
	Degraded    bool                 `json:"degraded,omitempty"`
}

// AdminSubmissions lists submitted entries across all users, newest first.
// When the sorted page query fails the handler degrades to an unsorted
// capped read so the admin view stays usable.
func (a *App) AdminSubmissions(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = defaultAdminPageSize
	}
	if limit > maxAdminPageSize {
		limit = maxAdminPageSize
	}

	total, err := a.Submissions.CountSubmitted(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("count submissions failed, serving degraded list")
		a.serveDegradedSubmissions(w, r)
		return
	}

	subs, err := a.Submissions.ListSubmitted(r.Context(), (page-1)*limit, limit)
	if err != nil {
		a.Logger.Error().Err(err).Msg("sorted submission page failed, serving degraded list")
		a.serveDegradedSubmissions(w, r)
		return
	}

	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	a.json(w, http.StatusOK, adminSubmissionsResponse{
		Submissions: adminSubmissionDTOs(subs),
		TotalCount:  total,
		Pagination:  &paginationDTO{Page: page, Limit: limit, Total: total, Pages: pages},
	})
}

func (a *App) serveDegradedSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := a.Submissions.ListSubmittedUnsorted(r.Context(), unsortedFallbackCap)
	if err != nil {
		a.Logger.Error().Err(err).Msg("degraded submission list failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list submissions")
		return
	}
	a.json(w, http.StatusOK, adminSubmissionsResponse{
		Submissions: adminSubmissionDTOs(subs),
		TotalCount:  int64(len(subs)),
		Degraded:    true,
	})
}

func adminSubmissionDTOs(subs []domain.AdminSubmission) []adminSubmissionDTO {
	out := make([]adminSubmissionDTO, 0, len(subs))
	for _, s := range subs {
		out = append(out, adminSubmissionDTO{
			ID:        s.ID,
			UserID:    s.UserID,
			Username:  s.Username,
			Prompt:    s.Prompt,
			ImageURL:  s.ImageURL,
			CreatedAt: s.CreatedAt,
		})
	}
	return out
}

// AdminCredentials exports every account with its stored hash and counters.
func (a *App) AdminCredentials(w http.ResponseWriter, r *http.Request) {
	users, err := a.Users.ListAll(r.Context())
	if err != nil {
		a.domainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="credentials.csv"`)
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"username", "password_hash", "remaining_prompts", "submitted_prompts_count", "tab_switches"})
	for _, u := range users {
		_ = cw.Write([]string{
			u.Username,
			u.PasswordHash,
			strconv.Itoa(u.RemainingPrompts),
			strconv.Itoa(u.SubmittedPromptsCount),
			strconv.Itoa(u.TabSwitches),
		})
	}
	cw.Flush()
}

// AdminSubmissionsArchive bundles every submitted image into a zip download.
// Inline data URLs are decoded; stored images are read back from the file
// store; anything else is written as a text entry carrying the URL.
func (a *App) AdminSubmissionsArchive(w http.ResponseWriter, r *http.Request) {
	subs, err := a.Submissions.ListSubmitted(r.Context(), 0, maxAdminPageSize)
	if err != nil {
		a.domainError(w, err)
		return
	}

	assets := make([]zip.Asset, 0, len(subs))
	for i, s := range subs {
		name := fmt.Sprintf("%03d_%s", i+1, s.Username)
		data, mime, ok := a.loadSubmissionImage(r, s.ImageURL)
		if !ok {
			assets = append(assets, zip.Asset{
				Filename: name + ".txt",
				MIME:     "text/plain",
				Data:     []byte(s.ImageURL + "\n\n" + s.Prompt),
			})
			continue
		}
		assets = append(assets, zip.Asset{
			Filename: name + zip.ExtensionForMIME(mime),
			MIME:     mime,
			Data:     data,
		})
	}

	archive, err := zip.ArchiveAssets(assets)
	if err != nil {
		a.Logger.Error().Err(err).Msg("archive build failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to build archive")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="submissions.zip"`)
	_, _ = w.Write(archive)
}

func (a *App) loadSubmissionImage(r *http.Request, imageURL string) ([]byte, string, bool) {
	if strings.HasPrefix(imageURL, "data:") {
		rest := strings.TrimPrefix(imageURL, "data:")
		mime, payload, found := strings.Cut(rest, ";base64,")
		if !found {
			return nil, "", false
		}
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", false
		}
		return data, mime, true
	}

	base := a.Config.StorageBaseURL
	if a.Store != nil && base != "" && strings.HasPrefix(imageURL, base+"/") {
		key := strings.TrimPrefix(imageURL, base+"/")
		data, err := a.Store.Read(r.Context(), key)
		if err != nil {
			a.Logger.Warn().Err(err).Str("key", key).Msg("stored image missing from archive")
			return nil, "", false
		}
		return data, mimeForKey(key), true
	}
	return nil, "", false
}

func mimeForKey(key string) string {
	switch {
	case strings.HasSuffix(key, ".png"):
		return "image/png"
	case strings.HasSuffix(key, ".jpg"), strings.HasSuffix(key, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(key, ".webp"):
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

type adminResetResponse struct {
	DeletedUsers       int64                  `json:"deleted_users"`
	DeletedSubmissions int64                  `json:"deleted_submissions"`
	Credentials        []provision.Credential `json:"credentials"`
}

// AdminReset wipes the contest and provisions a fresh batch of accounts. The
// caller must pass confirm=yes; this is not an operation to trip over.
func (a *App) AdminReset(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "yes" {
		a.error(w, http.StatusBadRequest, "bad_request", "pass confirm=yes to reset the contest")
		return
	}
	count, _ := strconv.Atoi(r.URL.Query().Get("count"))
	if count <= 0 {
		count = provision.DefaultCount
	}

	deletedSubs, err := a.Submissions.DeleteAll(r.Context())
	if err != nil {
		a.domainError(w, err)
		return
	}
	deletedUsers, err := a.Users.DeleteAll(r.Context())
	if err != nil {
		a.domainError(w, err)
		return
	}

	creds, err := provision.Warriors(r.Context(), a.Users, count, provision.DefaultPrefix)
	if err != nil {
		a.Logger.Error().Err(err).Msg("provision after reset failed")
		a.error(w, http.StatusInternalServerError, "internal", "reset succeeded but provisioning failed")
		return
	}

	a.auditEvent(r, "", domain.AuditReset, map[string]any{
		"deleted_users": deletedUsers,
		"provisioned":   len(creds),
	})
	a.Logger.Info().Int64("deleted_users", deletedUsers).Int("provisioned", len(creds)).Msg("contest reset")

	if r.URL.Query().Get("format") == "csv" {
		csvBytes, err := provision.CredentialsCSV(creds)
		if err != nil {
			a.error(w, http.StatusInternalServerError, "internal", "failed to render csv")
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="warriors.csv"`)
		_, _ = w.Write(csvBytes)
		return
	}

	a.json(w, http.StatusOK, adminResetResponse{
		DeletedUsers:       deletedUsers,
		DeletedSubmissions: deletedSubs,
		Credentials:        creds,
	})
}

// AdminEnsureIndexes creates the submission listing index if it is missing.
func (a *App) AdminEnsureIndexes(w http.ResponseWriter, r *http.Request) {
	if err := a.Submissions.EnsureCreatedAtIndex(r.Context()); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
