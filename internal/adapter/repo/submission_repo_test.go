package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"server/internal/domain"
)

type stubRow struct {
	scan func(dest ...any) error
}

func (r stubRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

type stubExecutor struct {
	queryRow func(query string, args ...any) pgx.Row
	query    func(query string, args ...any) (pgx.Rows, error)
	exec     func(query string, args ...any) (pgconn.CommandTag, error)
}

func (s stubExecutor) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	if s.exec == nil {
		return pgconn.CommandTag{}, fmt.Errorf("unexpected exec: %s", query)
	}
	return s.exec(query, args...)
}

func (s stubExecutor) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	if s.queryRow == nil {
		return stubRow{}
	}
	return s.queryRow(query, args...)
}

func (s stubExecutor) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	if s.query == nil {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	return s.query(query, args...)
}

type stubRows struct {
	rows [][]any
	idx  int
}

func (r *stubRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *stubRows) Scan(dest ...any) error {
	row := r.rows[r.idx-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan arity mismatch: %d != %d", len(dest), len(row))
	}
	for i, v := range row {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *int:
			*d = v.(int)
		case *time.Time:
			*d = v.(time.Time)
		default:
			return fmt.Errorf("unsupported scan destination %T", dest[i])
		}
	}
	return nil
}

func (r *stubRows) Close()                                       {}
func (r *stubRows) Err() error                                   { return nil }
func (r *stubRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *stubRows) Values() ([]any, error)                       { return nil, errors.New("not supported") }
func (r *stubRows) RawValues() [][]byte                          { return nil }
func (r *stubRows) Conn() *pgx.Conn                              { return nil }

func TestRecordDispositionNoRowsMapsToNotFound(t *testing.T) {
	r := NewSubmissionRepository(stubExecutor{
		queryRow: func(string, ...any) pgx.Row { return stubRow{} },
	})

	_, _, err := r.RecordDisposition(context.Background(), &domain.Submission{
		UserID:   "3b8f8f2d-0000-0000-0000-000000000001",
		Prompt:   "A sunset",
		ImageURL: "img://a",
		Status:   domain.StatusSubmitted,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("RecordDisposition() = %v, want ErrNotFound", err)
	}
}

func TestRecordDispositionReturnsIDAndRemaining(t *testing.T) {
	var gotArgs []any
	r := NewSubmissionRepository(stubExecutor{
		queryRow: func(_ string, args ...any) pgx.Row {
			gotArgs = args
			return stubRow{scan: func(dest ...any) error {
				*(dest[0].(*string)) = "sub-1"
				*(dest[1].(*int)) = 4
				return nil
			}}
		},
	})

	sub := &domain.Submission{UserID: "u1", Prompt: "A sunset", ImageURL: "img://a", Status: domain.StatusSubmitted}
	id, remaining, err := r.RecordDisposition(context.Background(), sub)
	if err != nil {
		t.Fatalf("RecordDisposition() error: %v", err)
	}
	if id != "sub-1" || remaining != 4 {
		t.Fatalf("RecordDisposition() = (%q, %d)", id, remaining)
	}
	if sub.ID != "sub-1" {
		t.Fatalf("submission ID not backfilled: %q", sub.ID)
	}
	if len(gotArgs) != 4 || gotArgs[3] != "Submitted" {
		t.Fatalf("unexpected query args: %#v", gotArgs)
	}
}

func TestListSubmittedScansJoinedRows(t *testing.T) {
	now := time.Now()
	r := NewSubmissionRepository(stubExecutor{
		query: func(string, ...any) (pgx.Rows, error) {
			return &stubRows{rows: [][]any{
				{"s1", "u1", "A sunset", "img://a", "Submitted", now, "Warrior1"},
				{"s2", "u2", "A city", "img://b", "Submitted", now.Add(-time.Minute), "Warrior2"},
			}}, nil
		},
	})

	subs, err := r.ListSubmitted(context.Background(), 0, 100)
	if err != nil {
		t.Fatalf("ListSubmitted() error: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("ListSubmitted() returned %d rows", len(subs))
	}
	if subs[0].Username != "Warrior1" || subs[0].Status != domain.StatusSubmitted {
		t.Fatalf("first row mismatch: %#v", subs[0])
	}
}
