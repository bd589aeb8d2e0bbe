package repo

import (
	"context"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// AuditRepositoryPG records request audit entries.
type AuditRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewAuditRepository creates a new audit repo.
func NewAuditRepository(sql infra.SQLExecutor) *AuditRepositoryPG {
	return &AuditRepositoryPG{sql: sql}
}

// Record writes one audit entry.
func (r *AuditRepositoryPG) Record(ctx context.Context, entry *domain.AuditEntry) error {
	_, err := r.sql.Exec(ctx, sqlinline.QInsertAuditLog,
		entry.RequestID, entry.Method, entry.Path, entry.Status, entry.IP, entry.Country, entry.CreatedAt)
	return err
}

var _ domain.AuditRepository = (*AuditRepositoryPG)(nil)
