package domain

import "time"

// DefaultPromptQuota is the fixed number of prompt attempts allotted to each
// warrior for the lifetime of the contest.
const DefaultPromptQuota = 5

// User represents a provisioned warrior account. Accounts are created only by
// the provisioning tooling; there is no self-serve registration.
type User struct {
	ID                    string
	Username              string
	PasswordHash          string
	RemainingPrompts      int
	SubmittedPromptsCount int
	TabSwitches           int
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// SessionComplete reports whether the warrior has already submitted an image.
// A completed session is terminal: no further generations or dispositions are
// accepted regardless of remaining quota.
func (u User) SessionComplete() bool {
	return u.SubmittedPromptsCount > 0
}

// Stats is the counter view exposed to clients.
type Stats struct {
	UserID                string
	Username              string
	RemainingPrompts      int
	SubmittedPromptsCount int
	TabSwitches           int
}

// ScoreboardEntry is one row of the public scoreboard.
type ScoreboardEntry struct {
	UserID                string
	Username              string
	SubmittedPromptsCount int
	LastUpdated           time.Time
}
