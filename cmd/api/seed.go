package main

import (
	"context"

	"server/internal/adapter/repo"
	"server/internal/domain"
	"server/internal/infra"
)

// Starter configuration for a fresh database. Rows are inserted only when the
// CMS tables are empty; an operator-managed catalog is never touched.
var defaultGames = []domain.ActiveGame{
	{UniverseID: 4884123806, Name: "Frontier Tycoon", IsFeatured: true, DisplayOrder: 1},
	{UniverseID: 5166285269, Name: "Midnight Racers", DisplayOrder: 2},
	{UniverseID: 3619858835, Name: "Castle Siege", DisplayOrder: 3},
}

var defaultGroups = []domain.ActiveGroup{
	{GroupID: 11479629, Name: "Studio Community"},
}

func seedDefaults(ctx context.Context, cfg *repo.ConfigRepositoryPG, logger infra.Logger) error {
	count, err := cfg.CountGames(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, g := range defaultGames {
		if err := cfg.SeedGame(ctx, g); err != nil {
			return err
		}
	}
	for _, g := range defaultGroups {
		if err := cfg.SeedGroup(ctx, g); err != nil {
			return err
		}
	}
	logger.Info().Int("games", len(defaultGames)).Int("groups", len(defaultGroups)).Msg("seeded starter configuration")
	return nil
}
