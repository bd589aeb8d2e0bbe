package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/http/handlers"
	"server/internal/infra/geoip"
	"server/internal/middleware"
)

// RouterOptions carries everything the route tree needs beyond the handlers.
type RouterOptions struct {
	Logger         zerolog.Logger
	AllowedOrigins []string
	AdminToken     string
	RateLimit      int
	RateWindow     time.Duration
	Audit          domain.AuditRepository
	GeoIP          geoip.CountryResolver
}

func NewRouter(app *handlers.App, opts RouterOptions) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(opts.Logger))
	r.Use(middleware.CORS(opts.AllowedOrigins))
	if opts.Audit != nil {
		r.Use(middleware.Audit(opts.Audit, opts.GeoIP, opts.Logger))
	}

	r.Get("/health", app.Health)

	// Only the public aggregation surface is rate limited; health probes
	// and the authenticated admin routes never draw from the budget.
	r.Route("/proxy", func(r chi.Router) {
		if opts.RateLimit > 0 {
			r.Use(middleware.RateLimit(opts.RateLimit, opts.RateWindow))
		}
		r.Get("/latest", app.ProxyLatest)
		r.Get("/groups", app.ProxyGroups)
		r.Get("/images", app.ProxyImages)
		r.Get("/total", app.ProxyTotal)
		r.Get("/all", app.ProxyAll)
		r.With(middleware.AuthToken(opts.AdminToken)).Post("/refresh", app.ProxyRefresh)
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/landing-data", app.PublicLandingData)
		r.Get("/games", app.PublicGames)
		r.Get("/groups", app.PublicGroups)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.AuthToken(opts.AdminToken))
		r.Route("/analytics", func(r chi.Router) {
			r.Get("/overview", app.AnalyticsOverview)
			r.Get("/games", app.AnalyticsGameSeries)
			r.Get("/groups", app.AnalyticsGroupSeries)
			r.Get("/revenue", app.AnalyticsRevenueSeries)
			r.Get("/history", app.AnalyticsHistory)
			r.Get("/export", app.AnalyticsExport)
		})
	})

	return r
}
