package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"server/internal/domain"
	"server/internal/infra"
)

// StatsService is the snapshot pipeline surface the handlers consume.
type StatsService interface {
	Latest(ctx context.Context) (*domain.Snapshot, error)
	ForceRefresh(ctx context.Context) (*domain.Snapshot, error)
	Recent(ctx context.Context, limit int) ([]*domain.Snapshot, error)
	Range(ctx context.Context, from, to time.Time) ([]*domain.Snapshot, error)
	GameSeries(ctx context.Context, universeID int64, from, to time.Time) ([]domain.GamePoint, error)
	GroupSeries(ctx context.Context, groupID int64, from, to time.Time) ([]domain.GroupPoint, error)
	RevenueSeries(ctx context.Context, universeID int64, from, to time.Time) ([]domain.RevenuePoint, error)
	CacheStatus() (time.Duration, bool)
}

type App struct {
	Service StatsService
	Config  domain.ConfigRepository
	Logger  infra.Logger
}

func NewApp(service StatsService, config domain.ConfigRepository, logger infra.Logger) *App {
	return &App{Service: service, Config: config, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]any{
		"error": map[string]string{"code": errCode, "message": message},
	})
}
