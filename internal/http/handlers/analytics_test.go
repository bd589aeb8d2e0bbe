package handlers

import (
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"server/internal/domain"
)

func TestAnalyticsOverviewWithChange(t *testing.T) {
	current := liveSnapshot()
	dayAgo := &domain.Snapshot{
		CapturedAt: current.CapturedAt.Add(-24 * time.Hour),
		Totals:     domain.Totals{Playing: 100, Visits: 6000, Members: 290},
	}
	app := testApp(&fakeService{latest: current, ranged: []*domain.Snapshot{current, dayAgo}}, nil)

	rec := httptest.NewRecorder()
	app.AnalyticsOverview(rec, httptest.NewRequest(http.MethodGet, "/api/admin/analytics/overview", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	change := body["change24h"].(map[string]any)
	if change["playing"].(float64) != 50 {
		t.Errorf("change24h.playing = %v, want 50", change["playing"])
	}
	if change["visits"].(float64) != 1000 {
		t.Errorf("change24h.visits = %v, want 1000", change["visits"])
	}
	top := body["topGames"].([]any)
	first := top[0].(map[string]any)
	if first["name"] != "One" {
		t.Errorf("topGames[0] = %v", first["name"])
	}
}

func TestAnalyticsOverviewWithoutHistory(t *testing.T) {
	app := testApp(&fakeService{latest: liveSnapshot()}, nil)

	rec := httptest.NewRecorder()
	app.AnalyticsOverview(rec, httptest.NewRequest(http.MethodGet, "/api/admin/analytics/overview", nil))

	body := decodeBody(t, rec)
	if _, ok := body["change24h"]; ok {
		t.Error("change24h should be absent without persisted history")
	}
}

func TestAnalyticsGameSeriesRequiresUniverseID(t *testing.T) {
	app := testApp(&fakeService{}, nil)

	rec := httptest.NewRecorder()
	app.AnalyticsGameSeries(rec, httptest.NewRequest(http.MethodGet, "/api/admin/analytics/games", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyticsGameSeries(t *testing.T) {
	pts := []domain.GamePoint{
		{Timestamp: time.Now().Add(-2 * time.Hour), Playing: 90},
		{Timestamp: time.Now().Add(-time.Hour), Playing: 110},
	}
	app := testApp(&fakeService{gamePts: pts}, nil)

	rec := httptest.NewRecorder()
	app.AnalyticsGameSeries(rec, httptest.NewRequest(http.MethodGet, "/api/admin/analytics/games?universeId=11", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["universeId"].(float64) != 11 {
		t.Errorf("universeId = %v", body["universeId"])
	}
	if points := body["points"].([]any); len(points) != 2 {
		t.Errorf("points = %d, want 2", len(points))
	}
}

func TestAnalyticsGameSeriesRejectsBadRange(t *testing.T) {
	app := testApp(&fakeService{}, nil)

	rec := httptest.NewRecorder()
	app.AnalyticsGameSeries(rec, httptest.NewRequest(http.MethodGet,
		"/api/admin/analytics/games?universeId=11&from=not-a-time", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyticsHistoryOldestFirst(t *testing.T) {
	newest := &domain.Snapshot{CapturedAt: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)}
	oldest := &domain.Snapshot{CapturedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)}
	app := testApp(&fakeService{recent: []*domain.Snapshot{newest, oldest}}, nil)

	rec := httptest.NewRecorder()
	app.AnalyticsHistory(rec, httptest.NewRequest(http.MethodGet, "/api/admin/analytics/history", nil))

	body := decodeBody(t, rec)
	history := body["history"].([]any)
	first := history[0].(map[string]any)
	if !strings.HasPrefix(first["capturedAt"].(string), "2026-08-30") {
		t.Errorf("history[0].capturedAt = %v, want the oldest entry first", first["capturedAt"])
	}
}

func TestAnalyticsHistoryLimitValidation(t *testing.T) {
	app := testApp(&fakeService{}, nil)

	rec := httptest.NewRecorder()
	app.AnalyticsHistory(rec, httptest.NewRequest(http.MethodGet, "/api/admin/analytics/history?limit=0", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyticsHistoryHoursWindow(t *testing.T) {
	newest := &domain.Snapshot{CapturedAt: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)}
	oldest := &domain.Snapshot{CapturedAt: time.Date(2026, 8, 31, 2, 0, 0, 0, time.UTC)}
	svc := &fakeService{ranged: []*domain.Snapshot{newest, oldest}}
	app := testApp(svc, nil)

	rec := httptest.NewRecorder()
	app.AnalyticsHistory(rec, httptest.NewRequest(http.MethodGet, "/api/admin/analytics/history?hours=24", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	history := body["history"].([]any)
	if len(history) != 2 {
		t.Fatalf("history = %d entries, want 2", len(history))
	}
	first := history[0].(map[string]any)
	if !strings.HasPrefix(first["capturedAt"].(string), "2026-08-31T02") {
		t.Errorf("history[0].capturedAt = %v, want the oldest entry first", first["capturedAt"])
	}
}

func TestAnalyticsExportCSV(t *testing.T) {
	app := testApp(&fakeService{ranged: []*domain.Snapshot{liveSnapshot()}}, nil)

	rec := httptest.NewRecorder()
	app.AnalyticsExport(rec, httptest.NewRequest(http.MethodGet, "/api/admin/analytics/export", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/csv" {
		t.Errorf("Content-Type = %q", got)
	}
	records, err := csv.NewReader(rec.Body).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("rows = %d, want header plus one", len(records))
	}
	if records[0][0] != "captured_at" {
		t.Errorf("header = %v", records[0])
	}
	if records[1][1] != "150" || records[1][2] != "7000" {
		t.Errorf("row = %v", records[1])
	}
}

func TestAnalyticsExportGames(t *testing.T) {
	app := testApp(&fakeService{ranged: []*domain.Snapshot{liveSnapshot()}}, nil)

	rec := httptest.NewRecorder()
	app.AnalyticsExport(rec, httptest.NewRequest(http.MethodGet, "/api/admin/analytics/export?type=games", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	records, err := csv.NewReader(rec.Body).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("rows = %d, want header plus one per game", len(records))
	}
	if records[0][1] != "universe_id" {
		t.Errorf("header = %v", records[0])
	}
	if records[1][2] != "One" || records[1][3] != "100" {
		t.Errorf("row = %v", records[1])
	}
}

func TestAnalyticsExportRejectsUnknownType(t *testing.T) {
	app := testApp(&fakeService{}, nil)

	rec := httptest.NewRecorder()
	app.AnalyticsExport(rec, httptest.NewRequest(http.MethodGet, "/api/admin/analytics/export?type=everything", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
