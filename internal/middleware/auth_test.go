package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"server/internal/domain"
)

func TestAuthToken(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name   string
		token  string
		header string
		want   int
	}{
		{
			name:   "valid token",
			token:  "secret-token",
			header: "Bearer secret-token",
			want:   http.StatusOK,
		},
		{
			name:   "missing header",
			token:  "secret-token",
			header: "",
			want:   http.StatusUnauthorized,
		},
		{
			name:   "wrong token",
			token:  "secret-token",
			header: "Bearer wrong",
			want:   http.StatusUnauthorized,
		},
		{
			name:   "wrong scheme",
			token:  "secret-token",
			header: "Basic secret-token",
			want:   http.StatusUnauthorized,
		},
		{
			name:   "case insensitive scheme",
			token:  "secret-token",
			header: "bearer secret-token",
			want:   http.StatusOK,
		},
		{
			name:   "empty configured token rejects everything",
			token:  "",
			header: "Bearer anything",
			want:   http.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := AuthToken(tc.token)(next)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
			if tc.want == http.StatusUnauthorized {
				var body struct {
					Error struct {
						Code    string `json:"code"`
						Message string `json:"message"`
					} `json:"error"`
				}
				if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
					t.Fatalf("decode rejection body: %v", err)
				}
				if body.Error.Code != "unauthorized" || body.Error.Message != domain.ErrUnauthorized.Error() {
					t.Errorf("rejection body = %+v", body.Error)
				}
			}
		})
	}
}
