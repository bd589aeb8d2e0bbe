package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestIDPropagation(t *testing.T) {
	tests := []struct {
		name    string
		inbound string
		kept    bool
	}{
		{"minted when absent", "", false},
		{"valid id kept", "abc-123.DEF_456", true},
		{"overlong id replaced", strings.Repeat("a", 65), false},
		{"control characters replaced", "abc\ndef", false},
		{"spaces replaced", "abc def", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fromCtx string
			handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fromCtx = RequestIDFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.inbound != "" {
				req.Header.Set("X-Request-ID", tt.inbound)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			echoed := rec.Header().Get("X-Request-ID")
			if echoed == "" || echoed != fromCtx {
				t.Fatalf("header %q and context %q must carry the same id", echoed, fromCtx)
			}
			if tt.kept && echoed != tt.inbound {
				t.Errorf("valid inbound id %q was replaced with %q", tt.inbound, echoed)
			}
			if !tt.kept && echoed == tt.inbound {
				t.Errorf("invalid inbound id %q must be replaced", tt.inbound)
			}
		})
	}
}
