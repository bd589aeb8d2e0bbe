package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra/geoip"
)

const auditWriteTimeout = 5 * time.Second

// Audit records each completed request in the audit trail, enriched with the
// caller's country when a GeoIP database is available. Writes happen off the
// request path and failures are only logged; auditing never affects the
// response.
func Audit(repo domain.AuditRepository, resolver geoip.CountryResolver, l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)

			entry := &domain.AuditEntry{
				Method:    r.Method,
				Path:      r.URL.Path,
				Status:    rw.status,
				IP:        ClientIP(r),
				RequestID: RequestIDFromContext(r.Context()),
				CreatedAt: time.Now().UTC(),
			}
			if resolver != nil {
				if code, err := resolver.CountryCode(entry.IP); err == nil {
					entry.Country = code
				}
			}

			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
				defer cancel()
				if err := repo.Record(ctx, entry); err != nil {
					l.Warn().Err(err).Str("path", entry.Path).Msg("audit write failed")
				}
			}()
		})
	}
}
