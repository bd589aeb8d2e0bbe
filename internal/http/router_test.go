package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/http/handlers"
)

type stubService struct {
	snap *domain.Snapshot
}

func (s *stubService) Latest(context.Context) (*domain.Snapshot, error)       { return s.snap, nil }
func (s *stubService) ForceRefresh(context.Context) (*domain.Snapshot, error) { return s.snap, nil }

func (s *stubService) Recent(context.Context, int) ([]*domain.Snapshot, error) {
	return []*domain.Snapshot{s.snap}, nil
}

func (s *stubService) Range(context.Context, time.Time, time.Time) ([]*domain.Snapshot, error) {
	return []*domain.Snapshot{s.snap}, nil
}

func (s *stubService) GameSeries(context.Context, int64, time.Time, time.Time) ([]domain.GamePoint, error) {
	return nil, nil
}

func (s *stubService) GroupSeries(context.Context, int64, time.Time, time.Time) ([]domain.GroupPoint, error) {
	return nil, nil
}

func (s *stubService) RevenueSeries(context.Context, int64, time.Time, time.Time) ([]domain.RevenuePoint, error) {
	return nil, nil
}

func (s *stubService) CacheStatus() (time.Duration, bool) { return 0, false }

type stubConfig struct{}

func (stubConfig) ActiveGames(context.Context) ([]domain.ActiveGame, error)   { return nil, nil }
func (stubConfig) ActiveGroups(context.Context) ([]domain.ActiveGroup, error) { return nil, nil }

func testRouter() http.Handler {
	svc := &stubService{snap: &domain.Snapshot{CapturedAt: time.Now()}}
	app := handlers.NewApp(svc, stubConfig{}, zerolog.Nop())
	return NewRouter(app, RouterOptions{
		Logger:     zerolog.Nop(),
		AdminToken: "admin-token",
	})
}

func TestRouterPublicRoutes(t *testing.T) {
	router := testRouter()

	for _, path := range []string{"/health", "/proxy/latest", "/proxy/all", "/api/public/games"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, rec.Code)
		}
	}
}

func TestRouterAdminRoutesRequireToken(t *testing.T) {
	router := testRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/analytics/overview", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/analytics/overview", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated status = %d, want 200", rec.Code)
	}
}

func TestRouterRefreshRequiresToken(t *testing.T) {
	router := testRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/proxy/refresh", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/proxy/refresh", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated status = %d, want 200", rec.Code)
	}
}

func TestRouterRateLimitScopedToProxy(t *testing.T) {
	svc := &stubService{snap: &domain.Snapshot{CapturedAt: time.Now()}}
	app := handlers.NewApp(svc, stubConfig{}, zerolog.Nop())
	router := NewRouter(app, RouterOptions{
		Logger:     zerolog.Nop(),
		AdminToken: "admin-token",
		RateLimit:  2,
		RateWindow: time.Minute,
	})

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET /health request %d status = %d, limiter must not cover health", i+1, rec.Code)
		}

		rec = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/admin/analytics/overview", nil)
		req.Header.Set("Authorization", "Bearer admin-token")
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("admin request %d status = %d, limiter must not cover admin routes", i+1, rec.Code)
		}
	}

	var limited bool
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/proxy/latest", nil))
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Fatal("proxy routes never hit the rate limit")
	}
}
