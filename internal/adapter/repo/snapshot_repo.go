package repo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// revenueCurrency is the reporting currency of the derived revenue series.
const revenueCurrency = "CAD"

// SnapshotRepositoryPG implements SnapshotRepository using PostgreSQL. Insert
// writes the parent log row and every child row in one transaction.
type SnapshotRepositoryPG struct {
	sql infra.TxSQLExecutor
}

// NewSnapshotRepository creates a new snapshot repo.
func NewSnapshotRepository(sql infra.TxSQLExecutor) *SnapshotRepositoryPG {
	return &SnapshotRepositoryPG{sql: sql}
}

// Insert persists a snapshot and its derived revenue samples atomically,
// returning the new log id.
func (r *SnapshotRepositoryPG) Insert(ctx context.Context, snap *domain.Snapshot) (int64, error) {
	var logID int64
	err := r.sql.WithTx(ctx, func(q infra.SQLExecutor) error {
		row := q.QueryRow(ctx, sqlinline.QInsertLog,
			snap.CapturedAt, snap.Totals.Playing, snap.Totals.Visits, snap.Totals.Members)
		if err := row.Scan(&logID); err != nil {
			return err
		}

		for _, g := range snap.Games {
			if _, err := q.Exec(ctx, sqlinline.QInsertGameLog,
				logID, g.UniverseID, g.Name, g.Playing, g.Visits, g.Favorites, g.Likes,
				g.MaxPlayers, g.Created, g.Updated, g.IsActive, g.IsPlayable); err != nil {
				return err
			}
			rev, err := r.revenueFor(ctx, q, g, snap.CapturedAt)
			if err != nil {
				return err
			}
			if _, err := q.Exec(ctx, sqlinline.QInsertRevenueLog,
				logID, g.UniverseID, rev.Daily, rev.Hourly, rev.Cumulative, rev.Currency, snap.CapturedAt); err != nil {
				return err
			}
		}

		for _, g := range snap.Groups {
			if _, err := q.Exec(ctx, sqlinline.QInsertGroupLog,
				logID, g.GroupID, g.Name, g.MemberCount, g.Description); err != nil {
				return err
			}
		}

		for universeID, media := range snap.Images {
			for _, m := range media {
				if _, err := q.Exec(ctx, sqlinline.QInsertGameImage,
					logID, universeID, m.ImageURL, m.State); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return logID, nil
}

// revenueFor derives one revenue sample from a game's live numbers and the
// samples already recorded today. The hourly figure is the concurrent player
// count; the daily figure is the running average of today's hourly figures;
// the cumulative figure adds today's daily figure to the sum of prior days.
func (r *SnapshotRepositoryPG) revenueFor(ctx context.Context, q infra.SQLExecutor, g domain.GameStat, at time.Time) (domain.RevenuePoint, error) {
	hourly := float64(g.Playing)

	var todayAvg float64
	var todayCount int64
	row := q.QueryRow(ctx, sqlinline.QSelectTodayHourlyAvg, g.UniverseID, at)
	if err := row.Scan(&todayAvg, &todayCount); err != nil {
		return domain.RevenuePoint{}, err
	}
	daily := (todayAvg*float64(todayCount) + hourly) / float64(todayCount+1)

	startOfDay := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
	var priorDays float64
	row = q.QueryRow(ctx, sqlinline.QSelectCumulativeRevenue, g.UniverseID, startOfDay)
	if err := row.Scan(&priorDays); err != nil {
		return domain.RevenuePoint{}, err
	}

	return domain.RevenuePoint{
		Timestamp:  at,
		Daily:      daily,
		Hourly:     hourly,
		Cumulative: priorDays + daily,
		Currency:   revenueCurrency,
	}, nil
}

// Latest returns the most recently persisted snapshot.
func (r *SnapshotRepositoryPG) Latest(ctx context.Context) (*domain.Snapshot, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectLatestLog)
	snap, logID, err := scanLog(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadChildren(ctx, logID, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// Recent returns up to limit persisted snapshots, newest first.
func (r *SnapshotRepositoryPG) Recent(ctx context.Context, limit int) ([]*domain.Snapshot, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QSelectRecentLogs, limit)
	if err != nil {
		return nil, err
	}
	return r.collectLogs(ctx, rows)
}

// Range returns persisted snapshots captured inside [from, to], newest first.
func (r *SnapshotRepositoryPG) Range(ctx context.Context, from, to time.Time) ([]*domain.Snapshot, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QSelectLogsByRange, from, to)
	if err != nil {
		return nil, err
	}
	return r.collectLogs(ctx, rows)
}

func (r *SnapshotRepositoryPG) collectLogs(ctx context.Context, rows pgx.Rows) ([]*domain.Snapshot, error) {
	defer rows.Close()

	var snaps []*domain.Snapshot
	var ids []int64
	for rows.Next() {
		snap, logID, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
		ids = append(ids, logID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i, snap := range snaps {
		if err := r.loadChildren(ctx, ids[i], snap); err != nil {
			return nil, err
		}
	}
	return snaps, nil
}

func scanLog(row pgx.Row) (*domain.Snapshot, int64, error) {
	var snap domain.Snapshot
	var logID int64
	if err := row.Scan(&logID, &snap.CapturedAt, &snap.Totals.Playing, &snap.Totals.Visits, &snap.Totals.Members); err != nil {
		return nil, 0, err
	}
	return &snap, logID, nil
}

func (r *SnapshotRepositoryPG) loadChildren(ctx context.Context, logID int64, snap *domain.Snapshot) error {
	rows, err := r.sql.Query(ctx, sqlinline.QSelectGameLogsByLog, logID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var g domain.GameStat
		if err := rows.Scan(&g.UniverseID, &g.Name, &g.Playing, &g.Visits, &g.Favorites,
			&g.Likes, &g.MaxPlayers, &g.Created, &g.Updated, &g.IsActive, &g.IsPlayable); err != nil {
			return err
		}
		snap.Games = append(snap.Games, g)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	rows, err = r.sql.Query(ctx, sqlinline.QSelectGroupLogsByLog, logID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var g domain.GroupStat
		if err := rows.Scan(&g.GroupID, &g.Name, &g.MemberCount, &g.Description); err != nil {
			return err
		}
		snap.Groups = append(snap.Groups, g)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	rows, err = r.sql.Query(ctx, sqlinline.QSelectGameImagesByLog, logID)
	if err != nil {
		return err
	}
	defer rows.Close()
	snap.Images = make(map[int64][]domain.GameMedia)
	for rows.Next() {
		var universeID int64
		var m domain.GameMedia
		if err := rows.Scan(&universeID, &m.ImageURL, &m.State); err != nil {
			return err
		}
		snap.Images[universeID] = append(snap.Images[universeID], m)
	}
	return rows.Err()
}

// GameSeries returns one game's samples inside [from, to], oldest first.
func (r *SnapshotRepositoryPG) GameSeries(ctx context.Context, universeID int64, from, to time.Time) ([]domain.GamePoint, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QSelectGameSeries, universeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []domain.GamePoint
	for rows.Next() {
		var p domain.GamePoint
		if err := rows.Scan(&p.Timestamp, &p.Playing, &p.Visits, &p.MaxPlayers, &p.IsPlayable); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// GroupSeries returns one group's samples inside [from, to], oldest first.
func (r *SnapshotRepositoryPG) GroupSeries(ctx context.Context, groupID int64, from, to time.Time) ([]domain.GroupPoint, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QSelectGroupSeries, groupID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []domain.GroupPoint
	for rows.Next() {
		var p domain.GroupPoint
		if err := rows.Scan(&p.Timestamp, &p.MemberCount, &p.Name); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// RevenueSeries returns one game's derived revenue samples, oldest first.
func (r *SnapshotRepositoryPG) RevenueSeries(ctx context.Context, universeID int64, from, to time.Time) ([]domain.RevenuePoint, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QSelectRevenueSeries, universeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []domain.RevenuePoint
	for rows.Next() {
		var p domain.RevenuePoint
		if err := rows.Scan(&p.Timestamp, &p.Daily, &p.Hourly, &p.Cumulative, &p.Currency); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

var _ domain.SnapshotRepository = (*SnapshotRepositoryPG)(nil)
