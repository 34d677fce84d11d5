package repo

import (
	"context"
	"encoding/json"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// AuditRepositoryPG implements domain.AuditRepository backed by PostgreSQL.
type AuditRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewAuditRepository creates a new AuditRepositoryPG.
func NewAuditRepository(sql infra.SQLExecutor) *AuditRepositoryPG {
	return &AuditRepositoryPG{sql: sql}
}

// Insert records an audit event. A nil Properties map is stored as an empty
// JSON object; an empty UserID is stored as NULL.
func (r *AuditRepositoryPG) Insert(ctx context.Context, event *domain.AuditEvent) error {
	var userID any
	if event.UserID != "" {
		userID = event.UserID
	}
	props := event.Properties
	if props == nil {
		props = map[string]any{}
	}
	raw, err := json.Marshal(props)
	if err != nil {
		return err
	}
	_, err = r.sql.Exec(ctx, sqlinline.QInsertAuditEvent, userID, event.EventType, event.Country, raw)
	return err
}

var _ domain.AuditRepository = (*AuditRepositoryPG)(nil)
