package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(sql infra.SQLExecutor) *UserRepositoryPG {
	return &UserRepositoryPG{sql: sql}
}

// Create inserts a provisioned account and fills in its generated ID.
func (r *UserRepositoryPG) Create(ctx context.Context, user *domain.User) error {
	quota := user.RemainingPrompts
	if quota == 0 {
		quota = domain.DefaultPromptQuota
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertUser, user.Username, user.PasswordHash, quota)
	if err := row.Scan(&user.ID); err != nil {
		return fmt.Errorf("create user %q: %w", user.Username, err)
	}
	user.RemainingPrompts = quota
	return nil
}

// GetByID fetches a user by UUID.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectUserByID, id)
	return scanUser(row)
}

// GetByUsername fetches a user by their unique username.
func (r *UserRepositoryPG) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectUserByUsername, username)
	return scanUser(row)
}

// Scoreboard returns ranked entries for users with at least one submission.
func (r *UserRepositoryPG) Scoreboard(ctx context.Context, limit int) ([]domain.ScoreboardEntry, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QScoreboard, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.ScoreboardEntry
	for rows.Next() {
		var e domain.ScoreboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.SubmittedPromptsCount, &e.LastUpdated); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// IncrementTabSwitches bumps the anti-cheat counter and returns the new value.
func (r *UserRepositoryPG) IncrementTabSwitches(ctx context.Context, id string) (int, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QIncrementTabSwitches, id)
	var count int
	if err := row.Scan(&count); err != nil {
		if infra.IsNoRows(err) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return count, nil
}

// ListAll returns every account, ordered by username.
func (r *UserRepositoryPG) ListAll(ctx context.Context) ([]domain.User, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.RemainingPrompts,
			&u.SubmittedPromptsCount, &u.TabSwitches, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// DeleteAll removes every account. Used only by the administrative reset.
func (r *UserRepositoryPG) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.sql.Exec(ctx, sqlinline.QDeleteAllUsers)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.RemainingPrompts,
		&u.SubmittedPromptsCount, &u.TabSwitches, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

var _ domain.UserRepository = (*UserRepositoryPG)(nil)
