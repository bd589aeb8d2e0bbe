package handlers

import (
	"errors"
	"net/http"

	"server/internal/domain"
)

const proxyCacheControl = "public, max-age=900"

// currentSnapshot resolves the freshest snapshot or writes the no-data
// response. The bool reports whether the caller may proceed.
func (a *App) currentSnapshot(w http.ResponseWriter, r *http.Request) (*domain.Snapshot, bool) {
	snap, err := a.Service.Latest(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNoData) {
			a.error(w, http.StatusServiceUnavailable, "no_data", "no snapshot data available yet")
			return nil, false
		}
		a.Logger.Error().Err(err).Msg("latest snapshot lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load snapshot")
		return nil, false
	}
	return snap, true
}

func (a *App) ProxyLatest(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.currentSnapshot(w, r)
	if !ok {
		return
	}
	w.Header().Set("Cache-Control", proxyCacheControl)
	a.json(w, http.StatusOK, snap)
}

func (a *App) ProxyGroups(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.currentSnapshot(w, r)
	if !ok {
		return
	}
	w.Header().Set("Cache-Control", proxyCacheControl)
	a.json(w, http.StatusOK, map[string]any{
		"capturedAt": snap.CapturedAt,
		"groups":     snap.Groups,
	})
}

func (a *App) ProxyImages(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.currentSnapshot(w, r)
	if !ok {
		return
	}
	w.Header().Set("Cache-Control", proxyCacheControl)
	a.json(w, http.StatusOK, map[string]any{
		"capturedAt": snap.CapturedAt,
		"images":     snap.Images,
	})
}

func (a *App) ProxyTotal(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.currentSnapshot(w, r)
	if !ok {
		return
	}
	w.Header().Set("Cache-Control", proxyCacheControl)
	a.json(w, http.StatusOK, map[string]any{
		"capturedAt": snap.CapturedAt,
		"totals":     snap.Totals,
		"isFallback": snap.IsFallback,
	})
}

// ProxyAll bundles every section into the envelope the landing page consumes
// in one request.
func (a *App) ProxyAll(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.currentSnapshot(w, r)
	if !ok {
		return
	}
	w.Header().Set("Cache-Control", proxyCacheControl)
	a.json(w, http.StatusOK, map[string]any{
		"capturedAt": snap.CapturedAt,
		"gameData":   snap.Games,
		"groupData":  snap.Groups,
		"gameImages": snap.Images,
		"totalData":  snap.Totals,
		"isFallback": snap.IsFallback,
	})
}

// ProxyRefresh forces a capture cycle outside the schedule. A cycle already
// in flight is joined, so hammering this endpoint cannot stack fetches.
func (a *App) ProxyRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := a.Service.ForceRefresh(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("forced refresh failed")
		a.error(w, http.StatusBadGateway, "refresh_failed", "refresh failed")
		return
	}
	a.json(w, http.StatusOK, snap)
}
