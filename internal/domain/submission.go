package domain

import (
	"fmt"
	"strings"
	"time"
)

// SubmissionStatus enumerates the two possible dispositions of a generated
// image. The set is closed; rows are never written with any other value.
type SubmissionStatus string

const (
	StatusSubmitted SubmissionStatus = "Submitted"
	StatusDeleted   SubmissionStatus = "Deleted"
)

// Submission is one disposition of a generated image. Rows are append-only:
// discarding an image writes a new row with StatusDeleted rather than
// mutating an earlier one, so the log is a full audit trail of every attempt.
type Submission struct {
	ID        string
	UserID    string
	Prompt    string
	ImageURL  string
	Status    SubmissionStatus
	CreatedAt time.Time
}

// AdminSubmission is a submission joined with its owner's username for the
// admin listing.
type AdminSubmission struct {
	Submission
	Username string
}

// ValidatePrompt rejects blank prompts and prompts longer than maxLen bytes.
// A maxLen of zero disables the length check.
func ValidatePrompt(prompt string, maxLen int) error {
	if strings.TrimSpace(prompt) == "" {
		return fmt.Errorf("%w: prompt is required", ErrValidation)
	}
	if maxLen > 0 && len(prompt) > maxLen {
		return fmt.Errorf("%w: prompt exceeds maximum length of %d characters", ErrValidation, maxLen)
	}
	return nil
}
