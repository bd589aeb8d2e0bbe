package repo

import (
	"context"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// ConfigRepositoryPG reads the CMS-managed game and group lists.
type ConfigRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewConfigRepository creates a new config repo.
func NewConfigRepository(sql infra.SQLExecutor) *ConfigRepositoryPG {
	return &ConfigRepositoryPG{sql: sql}
}

// ActiveGames returns the tracked games ordered by display position.
func (r *ConfigRepositoryPG) ActiveGames(ctx context.Context) ([]domain.ActiveGame, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QSelectActiveGames)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []domain.ActiveGame
	for rows.Next() {
		var g domain.ActiveGame
		if err := rows.Scan(&g.UniverseID, &g.Name, &g.Description, &g.ThumbnailURL, &g.IsFeatured, &g.DisplayOrder); err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// ActiveGroups returns the tracked community groups.
func (r *ConfigRepositoryPG) ActiveGroups(ctx context.Context) ([]domain.ActiveGroup, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QSelectActiveGroups)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []domain.ActiveGroup
	for rows.Next() {
		var g domain.ActiveGroup
		if err := rows.Scan(&g.GroupID, &g.Name); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// CountGames reports how many games the CMS tables hold, active or not.
func (r *ConfigRepositoryPG) CountGames(ctx context.Context) (int, error) {
	var n int
	if err := r.sql.QueryRow(ctx, sqlinline.QCountGames).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// SeedGame inserts a game row unless its universe is already configured.
func (r *ConfigRepositoryPG) SeedGame(ctx context.Context, g domain.ActiveGame) error {
	_, err := r.sql.Exec(ctx, sqlinline.QSeedGame,
		g.UniverseID, g.Name, g.Description, g.ThumbnailURL, g.IsFeatured, g.DisplayOrder)
	return err
}

// SeedGroup inserts a group row unless its group is already configured.
func (r *ConfigRepositoryPG) SeedGroup(ctx context.Context, g domain.ActiveGroup) error {
	_, err := r.sql.Exec(ctx, sqlinline.QSeedGroup, g.GroupID, g.Name)
	return err
}

var _ domain.ConfigRepository = (*ConfigRepositoryPG)(nil)
