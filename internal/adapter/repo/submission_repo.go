package repo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// SubmissionRepositoryPG implements domain.SubmissionRepository backed by
// PostgreSQL.
type SubmissionRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewSubmissionRepository creates a new SubmissionRepositoryPG.
func NewSubmissionRepository(sql infra.SQLExecutor) *SubmissionRepositoryPG {
	return &SubmissionRepositoryPG{sql: sql}
}

// RecordDisposition runs the atomic append-and-consume statement. A
// domain.ErrNotFound result means the conditional update matched nothing;
// the caller decides whether that was an unknown user, exhausted quota, or a
// completed session.
func (r *SubmissionRepositoryPG) RecordDisposition(ctx context.Context, sub *domain.Submission) (string, int, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QRecordDisposition,
		sub.UserID, sub.Prompt, sub.ImageURL, string(sub.Status))

	var id string
	var remaining int
	if err := row.Scan(&id, &remaining); err != nil {
		if infra.IsNoRows(err) {
			return "", 0, domain.ErrNotFound
		}
		return "", 0, err
	}
	sub.ID = id
	return id, remaining, nil
}

// ListByUser returns all dispositions for a user, newest first.
func (r *SubmissionRepositoryPG) ListByUser(ctx context.Context, userID string) ([]domain.Submission, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QSelectUserSubmissions, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSubmissions(rows)
}

// ListSubmitted returns one page of submitted rows joined with usernames,
// newest first.
func (r *SubmissionRepositoryPG) ListSubmitted(ctx context.Context, offset, limit int) ([]domain.AdminSubmission, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QSelectSubmittedPage, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAdminSubmissions(rows)
}

// ListSubmittedUnsorted is the degraded read: no ordering, capped row count.
func (r *SubmissionRepositoryPG) ListSubmittedUnsorted(ctx context.Context, limit int) ([]domain.AdminSubmission, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QSelectSubmittedCapped, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAdminSubmissions(rows)
}

// CountSubmitted counts rows with status Submitted.
func (r *SubmissionRepositoryPG) CountSubmitted(ctx context.Context) (int64, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QCountSubmitted)
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// EnsureCreatedAtIndex creates the descending creation-time index if missing.
func (r *SubmissionRepositoryPG) EnsureCreatedAtIndex(ctx context.Context) error {
	_, err := r.sql.Exec(ctx, sqlinline.QCreateSubmissionsCreatedAtIndex)
	return err
}

// DeleteAll removes every submission. Used only by the administrative reset.
func (r *SubmissionRepositoryPG) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.sql.Exec(ctx, sqlinline.QDeleteAllSubmissions)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func collectSubmissions(rows pgx.Rows) ([]domain.Submission, error) {
	var subs []domain.Submission
	for rows.Next() {
		var s domain.Submission
		var status string
		if err := rows.Scan(&s.ID, &s.UserID, &s.Prompt, &s.ImageURL, &status, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.Status = domain.SubmissionStatus(status)
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func collectAdminSubmissions(rows pgx.Rows) ([]domain.AdminSubmission, error) {
	var subs []domain.AdminSubmission
	for rows.Next() {
		var s domain.AdminSubmission
		var status string
		if err := rows.Scan(&s.ID, &s.UserID, &s.Prompt, &s.ImageURL, &status, &s.CreatedAt, &s.Username); err != nil {
			return nil, err
		}
		s.Status = domain.SubmissionStatus(status)
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

var _ domain.SubmissionRepository = (*SubmissionRepositoryPG)(nil)
