package handlers

import (
	"errors"
	"net/http"

	"server/internal/domain"
)

// PublicLandingData merges the CMS presentation rows with the latest live
// totals into the payload the landing page renders above the fold.
func (a *App) PublicLandingData(w http.ResponseWriter, r *http.Request) {
	games, err := a.Config.ActiveGames(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("active games lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load landing data")
		return
	}
	groups, err := a.Config.ActiveGroups(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("active groups lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load landing data")
		return
	}

	var featured []domain.ActiveGame
	for _, g := range games {
		if g.IsFeatured {
			featured = append(featured, g)
		}
	}

	payload := map[string]any{
		"games":    games,
		"featured": featured,
		"groups":   groups,
	}
	if snap, err := a.Service.Latest(r.Context()); err == nil {
		// The snapshot may predate a config change, so stats are narrowed
		// to the currently active set and totals summed over that subset.
		activeGames := make(map[int64]bool, len(games))
		for _, g := range games {
			activeGames[g.UniverseID] = true
		}
		activeGroups := make(map[int64]bool, len(groups))
		for _, g := range groups {
			activeGroups[g.GroupID] = true
		}
		var liveGames []domain.GameStat
		for _, g := range snap.Games {
			if activeGames[g.UniverseID] {
				liveGames = append(liveGames, g)
			}
		}
		var liveGroups []domain.GroupStat
		for _, g := range snap.Groups {
			if activeGroups[g.GroupID] {
				liveGroups = append(liveGroups, g)
			}
		}
		payload["stats"] = liveGames
		payload["groupStats"] = liveGroups
		payload["totals"] = domain.ComputeTotals(liveGames, liveGroups)
		payload["capturedAt"] = snap.CapturedAt
	} else if !errors.Is(err, domain.ErrNoData) {
		a.Logger.Warn().Err(err).Msg("landing totals unavailable")
	}
	a.json(w, http.StatusOK, payload)
}

func (a *App) PublicGames(w http.ResponseWriter, r *http.Request) {
	games, err := a.Config.ActiveGames(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("active games lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load games")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"games": games})
}

func (a *App) PublicGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := a.Config.ActiveGroups(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("active groups lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load groups")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"groups": groups})
}
