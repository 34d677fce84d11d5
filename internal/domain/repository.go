package domain

import "context"

// UserRepository defines access methods for warrior accounts.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	// Scoreboard returns users with at least one submitted prompt, ordered by
	// submitted count descending, earliest last update first.
	Scoreboard(ctx context.Context, limit int) ([]ScoreboardEntry, error)
	IncrementTabSwitches(ctx context.Context, id string) (int, error)
	// ListAll returns every account with its stored password hash and
	// counters, for the admin credential export.
	ListAll(ctx context.Context) ([]User, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// SubmissionRepository defines persistence for the submission log.
type SubmissionRepository interface {
	// RecordDisposition appends the submission row and adjusts the owner's
	// quota counters as a single atomic write. It returns the new row's ID
	// and the owner's remaining prompts. ErrNotFound is returned when the
	// conditional write matched nothing (unknown user, exhausted quota, or a
	// completed session); callers classify the cause.
	RecordDisposition(ctx context.Context, sub *Submission) (string, int, error)
	ListByUser(ctx context.Context, userID string) ([]Submission, error)
	ListSubmitted(ctx context.Context, offset, limit int) ([]AdminSubmission, error)
	// ListSubmittedUnsorted is the degraded read used when the sorted page
	// query fails; it returns at most limit rows in storage order.
	ListSubmittedUnsorted(ctx context.Context, limit int) ([]AdminSubmission, error)
	CountSubmitted(ctx context.Context) (int64, error)
	EnsureCreatedAtIndex(ctx context.Context) error
	DeleteAll(ctx context.Context) (int64, error)
}

// AuditRepository records security-relevant events such as logins and tab
// switches.
type AuditRepository interface {
	Insert(ctx context.Context, event *AuditEvent) error
}
