package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

type chanAuditRepo struct {
	entries chan *domain.AuditEntry
}

func (r *chanAuditRepo) Record(_ context.Context, entry *domain.AuditEntry) error {
	r.entries <- entry
	return nil
}

type staticResolver struct{ code string }

func (s staticResolver) CountryCode(string) (string, error) { return s.code, nil }

func TestAuditRecordsCompletedRequest(t *testing.T) {
	repo := &chanAuditRepo{entries: make(chan *domain.AuditEntry, 1)}
	handler := Audit(repo, staticResolver{code: "CA"}, zerolog.Nop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/proxy/latest", nil)
	req.RemoteAddr = "203.0.113.9:4444"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	select {
	case entry := <-repo.entries:
		if entry.Method != http.MethodGet || entry.Path != "/proxy/latest" {
			t.Errorf("entry = %+v", entry)
		}
		if entry.Status != http.StatusTeapot {
			t.Errorf("status = %d, want %d", entry.Status, http.StatusTeapot)
		}
		if entry.IP != "203.0.113.9" {
			t.Errorf("ip = %q", entry.IP)
		}
		if entry.Country != "CA" {
			t.Errorf("country = %q, want CA", entry.Country)
		}
	case <-time.After(time.Second):
		t.Fatal("audit entry never recorded")
	}

	if rec.Code != http.StatusTeapot {
		t.Errorf("response status = %d", rec.Code)
	}
}

func TestAuditWithoutResolver(t *testing.T) {
	repo := &chanAuditRepo{entries: make(chan *domain.AuditEntry, 1)}
	handler := Audit(repo, nil, zerolog.Nop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
	)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	select {
	case entry := <-repo.entries:
		if entry.Country != "" {
			t.Errorf("country = %q, want empty without a resolver", entry.Country)
		}
	case <-time.After(time.Second):
		t.Fatal("audit entry never recorded")
	}
}
