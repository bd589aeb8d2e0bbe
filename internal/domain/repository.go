package domain

import (
	"context"
	"time"
)

// SnapshotRepository persists assembled snapshots and serves historical
// queries. Insert is atomic: the parent row and all child rows commit in one
// transaction or not at all.
type SnapshotRepository interface {
	Insert(ctx context.Context, snap *Snapshot) (int64, error)
	Latest(ctx context.Context) (*Snapshot, error)
	Recent(ctx context.Context, limit int) ([]*Snapshot, error)
	Range(ctx context.Context, from, to time.Time) ([]*Snapshot, error)
	GameSeries(ctx context.Context, universeID int64, from, to time.Time) ([]GamePoint, error)
	GroupSeries(ctx context.Context, groupID int64, from, to time.Time) ([]GroupPoint, error)
	RevenueSeries(ctx context.Context, universeID int64, from, to time.Time) ([]RevenuePoint, error)
}

// ConfigRepository reads the CMS-managed active game and group lists.
type ConfigRepository interface {
	ActiveGames(ctx context.Context) ([]ActiveGame, error)
	ActiveGroups(ctx context.Context) ([]ActiveGroup, error)
}

// AuditRepository records request audit entries. Implementations must be
// best-effort: audit failures never propagate to the request path.
type AuditRepository interface {
	Record(ctx context.Context, entry *AuditEntry) error
}

// AuditEntry is one audited request.
type AuditEntry struct {
	Method    string
	Path      string
	Status    int
	IP        string
	Country   string
	RequestID string
	CreatedAt time.Time
}
