package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"server/internal/domain"
)

const defaultRangeWindow = 7 * 24 * time.Hour

// parseTimeRange reads optional from/to query parameters in RFC 3339. The
// default window is the last seven days.
func parseTimeRange(r *http.Request) (time.Time, time.Time, error) {
	to := time.Now().UTC()
	from := to.Add(-defaultRangeWindow)

	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid to: %w", err)
		}
		to = parsed
		from = to.Add(-defaultRangeWindow)
	}
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid from: %w", err)
		}
		from = parsed
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("from is after to")
	}
	return from, to, nil
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("%s required", name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// AnalyticsOverview summarizes the current snapshot against the persisted
// state of roughly a day ago.
func (a *App) AnalyticsOverview(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.currentSnapshot(w, r)
	if !ok {
		return
	}

	now := time.Now().UTC()
	var dayAgo *domain.Snapshot
	if history, err := a.Service.Range(r.Context(), now.Add(-24*time.Hour), now); err == nil && len(history) > 0 {
		dayAgo = history[len(history)-1] // range is newest first
	}

	overview := map[string]any{
		"capturedAt": snap.CapturedAt,
		"totals":     snap.Totals,
		"gameCount":  len(snap.Games),
		"groupCount": len(snap.Groups),
		"isFallback": snap.IsFallback,
		"topGames":   topGamesByPlaying(snap.Games, 5),
	}
	if dayAgo != nil {
		overview["change24h"] = map[string]any{
			"playing": snap.Totals.Playing - dayAgo.Totals.Playing,
			"visits":  snap.Totals.Visits - dayAgo.Totals.Visits,
			"members": snap.Totals.Members - dayAgo.Totals.Members,
		}
	}
	a.json(w, http.StatusOK, overview)
}

func topGamesByPlaying(games []domain.GameStat, n int) []domain.GameStat {
	top := make([]domain.GameStat, len(games))
	copy(top, games)
	sort.SliceStable(top, func(i, j int) bool { return top[i].Playing > top[j].Playing })
	if len(top) > n {
		top = top[:n]
	}
	return top
}

func (a *App) AnalyticsGameSeries(w http.ResponseWriter, r *http.Request) {
	universeID, err := parseIDParam(r, "universeId")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	from, to, err := parseTimeRange(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	points, err := a.Service.GameSeries(r.Context(), universeID, from, to)
	if err != nil {
		a.Logger.Error().Err(err).Int64("universe_id", universeID).Msg("game series query failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load game series")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"universeId": universeID, "points": points})
}

func (a *App) AnalyticsGroupSeries(w http.ResponseWriter, r *http.Request) {
	groupID, err := parseIDParam(r, "groupId")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	from, to, err := parseTimeRange(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	points, err := a.Service.GroupSeries(r.Context(), groupID, from, to)
	if err != nil {
		a.Logger.Error().Err(err).Int64("group_id", groupID).Msg("group series query failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load group series")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"groupId": groupID, "points": points})
}

func (a *App) AnalyticsRevenueSeries(w http.ResponseWriter, r *http.Request) {
	universeID, err := parseIDParam(r, "universeId")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	from, to, err := parseTimeRange(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	points, err := a.Service.RevenueSeries(r.Context(), universeID, from, to)
	if err != nil {
		a.Logger.Error().Err(err).Int64("universe_id", universeID).Msg("revenue series query failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load revenue series")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"universeId": universeID, "points": points})
}

// AnalyticsHistory lists persisted snapshots oldest first. The window is
// selected either by hours (a lookback from now) or by limit (a row cap);
// hours wins when both are present.
func (a *App) AnalyticsHistory(w http.ResponseWriter, r *http.Request) {
	var (
		snaps []*domain.Snapshot
		err   error
	)
	if raw := r.URL.Query().Get("hours"); raw != "" {
		hours, perr := strconv.Atoi(raw)
		if perr != nil || hours <= 0 || hours > 24*90 {
			a.error(w, http.StatusBadRequest, "bad_request", "hours must be between 1 and 2160")
			return
		}
		now := time.Now().UTC()
		snaps, err = a.Service.Range(r.Context(), now.Add(-time.Duration(hours)*time.Hour), now)
	} else {
		limit := 50
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, perr := strconv.Atoi(raw)
			if perr != nil || parsed <= 0 || parsed > 500 {
				a.error(w, http.StatusBadRequest, "bad_request", "limit must be between 1 and 500")
				return
			}
			limit = parsed
		}
		snaps, err = a.Service.Recent(r.Context(), limit)
	}
	if err != nil {
		a.Logger.Error().Err(err).Msg("history query failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load history")
		return
	}
	for i, j := 0, len(snaps)-1; i < j; i, j = i+1, j-1 {
		snaps[i], snaps[j] = snaps[j], snaps[i]
	}
	a.json(w, http.StatusOK, map[string]any{"history": snaps})
}

// AnalyticsExport streams the selected range as CSV. type=overview writes
// one row per persisted snapshot; type=games and type=groups write one row
// per entity per snapshot.
func (a *App) AnalyticsExport(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("type")
	if kind == "" {
		kind = "overview"
	}
	if kind != "overview" && kind != "games" && kind != "groups" {
		a.error(w, http.StatusBadRequest, "bad_request", "type must be overview, games or groups")
		return
	}
	from, to, err := parseTimeRange(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	snaps, err := a.Service.Range(r.Context(), from, to)
	if err != nil {
		a.Logger.Error().Err(err).Msg("export query failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to export snapshots")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", kind+"-"+from.Format("2006-01-02")+"-"+to.Format("2006-01-02")+".csv"))

	cw := csv.NewWriter(w)
	switch kind {
	case "games":
		_ = cw.Write([]string{"captured_at", "universe_id", "name", "playing", "visits", "favorites", "likes"})
		for i := len(snaps) - 1; i >= 0; i-- {
			s := snaps[i]
			for _, g := range s.Games {
				_ = cw.Write([]string{
					s.CapturedAt.Format(time.RFC3339),
					strconv.FormatInt(g.UniverseID, 10),
					g.Name,
					strconv.Itoa(g.Playing),
					strconv.FormatInt(g.Visits, 10),
					strconv.Itoa(g.Favorites),
					strconv.Itoa(g.Likes),
				})
			}
		}
	case "groups":
		_ = cw.Write([]string{"captured_at", "group_id", "name", "members"})
		for i := len(snaps) - 1; i >= 0; i-- {
			s := snaps[i]
			for _, g := range s.Groups {
				_ = cw.Write([]string{
					s.CapturedAt.Format(time.RFC3339),
					strconv.FormatInt(g.GroupID, 10),
					g.Name,
					strconv.Itoa(g.MemberCount),
				})
			}
		}
	default:
		_ = cw.Write([]string{"captured_at", "total_playing", "total_visits", "total_members", "game_count", "group_count"})
		for i := len(snaps) - 1; i >= 0; i-- {
			s := snaps[i]
			_ = cw.Write([]string{
				s.CapturedAt.Format(time.RFC3339),
				strconv.Itoa(s.Totals.Playing),
				strconv.FormatInt(s.Totals.Visits, 10),
				strconv.Itoa(s.Totals.Members),
				strconv.Itoa(len(s.Games)),
				strconv.Itoa(len(s.Groups)),
			})
		}
	}
	cw.Flush()
}
