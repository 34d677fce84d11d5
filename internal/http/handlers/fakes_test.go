package handlers

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"server/internal/contest"
	"server/internal/domain"
	"server/internal/infra"
	"server/internal/providers/image"
)

type memStore struct {
	mu          sync.Mutex
	users       map[string]*domain.User
	submissions []domain.Submission
	audits      []domain.AuditEvent

	failSortedList bool
}

func newMemStore() *memStore {
	return &memStore{users: make(map[string]*domain.User)}
}

func (m *memStore) addUser(u domain.User) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	m.users[u.ID] = &u
	return u.ID
}

type memUserRepo struct{ store *memStore }

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = r.store.addUser(*user)
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memUserRepo) Scoreboard(_ context.Context, limit int) ([]domain.ScoreboardEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var entries []domain.ScoreboardEntry
	for _, u := range r.store.users {
		if u.SubmittedPromptsCount == 0 {
			continue
		}
		entries = append(entries, domain.ScoreboardEntry{
			UserID:                u.ID,
			Username:              u.Username,
			SubmittedPromptsCount: u.SubmittedPromptsCount,
			LastUpdated:           u.UpdatedAt,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].SubmittedPromptsCount != entries[j].SubmittedPromptsCount {
			return entries[i].SubmittedPromptsCount > entries[j].SubmittedPromptsCount
		}
		return entries[i].LastUpdated.Before(entries[j].LastUpdated)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (r *memUserRepo) IncrementTabSwitches(_ context.Context, id string) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	u.TabSwitches++
	return u.TabSwitches, nil
}

func (r *memUserRepo) ListAll(_ context.Context) ([]domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []domain.User
	for _, u := range r.store.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *memUserRepo) DeleteAll(_ context.Context) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	n := int64(len(r.store.users))
	r.store.users = make(map[string]*domain.User)
	return n, nil
}

type memSubmissionRepo struct{ store *memStore }

func (r *memSubmissionRepo) RecordDisposition(_ context.Context, sub *domain.Submission) (string, int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users[sub.UserID]
	if !ok || u.RemainingPrompts <= 0 || u.SubmittedPromptsCount > 0 {
		return "", 0, domain.ErrNotFound
	}

	u.RemainingPrompts--
	if sub.Status == domain.StatusSubmitted {
		u.SubmittedPromptsCount++
	}
	u.UpdatedAt = time.Now()

	stored := *sub
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now()
	r.store.submissions = append(r.store.submissions, stored)

	sub.ID = stored.ID
	return stored.ID, u.RemainingPrompts, nil
}

func (r *memSubmissionRepo) ListByUser(_ context.Context, userID string) ([]domain.Submission, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []domain.Submission
	for i := len(r.store.submissions) - 1; i >= 0; i-- {
		if r.store.submissions[i].UserID == userID {
			out = append(out, r.store.submissions[i])
		}
	}
	return out, nil
}

func (r *memSubmissionRepo) ListSubmitted(_ context.Context, offset, limit int) ([]domain.AdminSubmission, error) {
	if r.store.failSortedList {
		return nil, errors.New("sorted page query failed")
	}
	all := r.submittedNewestFirst()
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *memSubmissionRepo) ListSubmittedUnsorted(_ context.Context, limit int) ([]domain.AdminSubmission, error) {
	all := r.submittedNewestFirst()
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *memSubmissionRepo) submittedNewestFirst() []domain.AdminSubmission {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []domain.AdminSubmission
	for i := len(r.store.submissions) - 1; i >= 0; i-- {
		s := r.store.submissions[i]
		if s.Status != domain.StatusSubmitted {
			continue
		}
		username := "Unknown"
		if u, ok := r.store.users[s.UserID]; ok {
			username = u.Username
		}
		out = append(out, domain.AdminSubmission{Submission: s, Username: username})
	}
	return out
}

func (r *memSubmissionRepo) CountSubmitted(_ context.Context) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var n int64
	for _, s := range r.store.submissions {
		if s.Status == domain.StatusSubmitted {
			n++
		}
	}
	return n, nil
}

func (r *memSubmissionRepo) EnsureCreatedAtIndex(context.Context) error { return nil }

func (r *memSubmissionRepo) DeleteAll(_ context.Context) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	n := int64(len(r.store.submissions))
	r.store.submissions = nil
	return n, nil
}

type memAuditRepo struct{ store *memStore }

func (r *memAuditRepo) Insert(_ context.Context, event *domain.AuditEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.audits = append(r.store.audits, *event)
	return nil
}

type staticGenerator struct {
	url string
	err error
}

func (g *staticGenerator) Generate(context.Context, image.Request) (*image.Asset, error) {
	if g.err != nil {
		return nil, g.err
	}
	return &image.Asset{URL: g.url, MIME: "image/png"}, nil
}

func newTestApp(t *testing.T, store *memStore) *App {
	t.Helper()
	users := &memUserRepo{store: store}
	subs := &memSubmissionRepo{store: store}
	svc := contest.NewService(contest.Options{
		Users:           users,
		Submissions:     subs,
		Generator:       &staticGenerator{url: "https://images.test/gen.png"},
		MaxPromptLength: 1200,
		ScoreboardLimit: 100,
	})
	return &App{
		Contest:     svc,
		Users:       users,
		Submissions: subs,
		Audit:       &memAuditRepo{store: store},
		Logger:      zerolog.New(io.Discard),
		Config: infra.Config{
			JWTSecret:       "test-secret",
			AdminAPIKey:     "test-admin",
			MaxPromptLength: 1200,
			ScoreboardLimit: 100,
		},
	}
}
