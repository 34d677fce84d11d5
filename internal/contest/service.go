// Package contest implements the gameplay rules: prompt quota accounting,
// image generation, and the submit/discard disposition flow.
package contest

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/providers/image"
)

// Service coordinates the contest operations against the repositories and the
// image provider.
type Service struct {
	users           domain.UserRepository
	submissions     domain.SubmissionRepository
	generator       image.Generator
	maxPromptLength int
	scoreboardLimit int
	log             zerolog.Logger
}

type Options struct {
	Users           domain.UserRepository
	Submissions     domain.SubmissionRepository
	Generator       image.Generator
	MaxPromptLength int
	ScoreboardLimit int
	Logger          *zerolog.Logger
}

// GenerateResult is a freshly generated image plus the caller's unchanged
// quota. Generation never spends quota; only dispositions do.
type GenerateResult struct {
	ImageURL         string
	RemainingPrompts int
}

// DispositionResult reports the outcome of a submit or discard.
type DispositionResult struct {
	SubmissionID     string
	RemainingPrompts int
}

func NewService(opts Options) *Service {
	s := &Service{
		users:           opts.Users,
		submissions:     opts.Submissions,
		generator:       opts.Generator,
		maxPromptLength: opts.MaxPromptLength,
		scoreboardLimit: opts.ScoreboardLimit,
	}
	if s.maxPromptLength <= 0 {
		s.maxPromptLength = 1200
	}
	if s.scoreboardLimit <= 0 {
		s.scoreboardLimit = 100
	}
	if opts.Logger != nil {
		s.log = *opts.Logger
	} else {
		s.log = zerolog.New(io.Discard)
	}
	return s
}

// GenerateImage produces an image for the prompt without consuming quota. The
// caller must still have quota available and an open session, so that they
// will be able to disposition the result.
func (s *Service) GenerateImage(ctx context.Context, userID, prompt, requestID string) (*GenerateResult, error) {
	if err := domain.ValidatePrompt(prompt, s.maxPromptLength); err != nil {
		return nil, err
	}

	user, err := s.lookupUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.SessionComplete() {
		return nil, domain.ErrSessionComplete
	}
	if user.RemainingPrompts <= 0 {
		return nil, domain.ErrQuotaExhausted
	}

	asset, err := s.generator.Generate(ctx, image.Request{
		Prompt:    prompt,
		UserID:    userID,
		RequestID: requestID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}

	return &GenerateResult{ImageURL: asset.URL, RemainingPrompts: user.RemainingPrompts}, nil
}

// SubmitImage records the image as the user's final entry and spends one
// prompt. A successful submit closes the session.
func (s *Service) SubmitImage(ctx context.Context, userID, prompt, imageURL string) (*DispositionResult, error) {
	return s.disposition(ctx, userID, prompt, imageURL, domain.StatusSubmitted)
}

// DiscardImage throws the image away. The prompt is still spent; discarding
// does not refund quota.
func (s *Service) DiscardImage(ctx context.Context, userID, prompt, imageURL string) (*DispositionResult, error) {
	return s.disposition(ctx, userID, prompt, imageURL, domain.StatusDeleted)
}

func (s *Service) disposition(ctx context.Context, userID, prompt, imageURL string, status domain.SubmissionStatus) (*DispositionResult, error) {
	if err := domain.ValidatePrompt(prompt, s.maxPromptLength); err != nil {
		return nil, err
	}
	if imageURL == "" {
		return nil, fmt.Errorf("%w: image url is required", domain.ErrValidation)
	}
	if _, err := s.lookupUser(ctx, userID); err != nil {
		return nil, err
	}

	sub := &domain.Submission{
		UserID:   userID,
		Prompt:   prompt,
		ImageURL: imageURL,
		Status:   status,
	}
	id, remaining, err := s.submissions.RecordDisposition(ctx, sub)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// The conditional update matched no row. The user exists, so
			// either their session is closed or their quota ran out.
			return nil, s.classifyRejection(ctx, userID)
		}
		return nil, err
	}

	s.log.Info().
		Str("user_id", userID).
		Str("submission_id", id).
		Str("status", string(status)).
		Int("remaining_prompts", remaining).
		Msg("disposition recorded")

	return &DispositionResult{SubmissionID: id, RemainingPrompts: remaining}, nil
}

func (s *Service) classifyRejection(ctx context.Context, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.SessionComplete() {
		return domain.ErrSessionComplete
	}
	return domain.ErrQuotaExhausted
}

// UserStats reports the caller's quota state.
func (s *Service) UserStats(ctx context.Context, userID string) (*domain.Stats, error) {
	user, err := s.lookupUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &domain.Stats{
		UserID:                user.ID,
		Username:              user.Username,
		RemainingPrompts:      user.RemainingPrompts,
		SubmittedPromptsCount: user.SubmittedPromptsCount,
		TabSwitches:           user.TabSwitches,
	}, nil
}

// ListSubmissions returns the caller's dispositions, newest first.
func (s *Service) ListSubmissions(ctx context.Context, userID string) ([]domain.Submission, *domain.Stats, error) {
	stats, err := s.UserStats(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	subs, err := s.submissions.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return subs, stats, nil
}

// Scoreboard ranks users who have submitted, most submissions first and
// earliest finisher winning ties.
func (s *Service) Scoreboard(ctx context.Context, limit int) ([]domain.ScoreboardEntry, error) {
	if limit <= 0 || limit > s.scoreboardLimit {
		limit = s.scoreboardLimit
	}
	return s.users.Scoreboard(ctx, limit)
}

// RecordTabSwitch bumps the user's tab switch counter and returns the new
// total.
func (s *Service) RecordTabSwitch(ctx context.Context, userID string) (int, error) {
	if err := uuid.Validate(userID); err != nil {
		return 0, domain.ErrNotFound
	}
	return s.users.IncrementTabSwitches(ctx, userID)
}

func (s *Service) lookupUser(ctx context.Context, userID string) (*domain.User, error) {
	if err := uuid.Validate(userID); err != nil {
		return nil, domain.ErrNotFound
	}
	return s.users.GetByID(ctx, userID)
}
