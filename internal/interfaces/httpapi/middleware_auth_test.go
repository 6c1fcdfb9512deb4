package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/riskibarqy/pickem-league/internal/domain/user"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_RejectsMalformedHeader(t *testing.T) {
	handler := RequireAuth(staticVerifier{"t": {UserID: "u"}}, okHandler())

	for _, header := range []string{"Basic dXNlcjpwYXNz", "Bearer", "Bearer   "} {
		req := httptest.NewRequest(http.MethodGet, "/v1/picks/me", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, rec.Code)
		}
	}
}

func TestRequireAuth_PassesPrincipal(t *testing.T) {
	var got user.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = principalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAuth(staticVerifier{"t": {UserID: "u-1", Email: "u@example.com"}}, next)

	req := httptest.NewRequest(http.MethodGet, "/v1/picks/me", nil)
	req.Header.Set("Authorization", "bearer t")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || got.UserID != "u-1" {
		t.Fatalf("expected principal u-1, got status=%d principal=%+v", rec.Code, got)
	}
}

func TestRequireAdmin_WithoutPrincipal(t *testing.T) {
	handler := RequireAdmin([]string{"admin"}, okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/admin/gameweeks/advance", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireInternalJobToken(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		provided string
		want     int
	}{
		{name: "not configured", expected: "", provided: "x", want: http.StatusServiceUnavailable},
		{name: "missing", expected: "secret", provided: "", want: http.StatusUnauthorized},
		{name: "wrong", expected: "secret", provided: "secreT", want: http.StatusUnauthorized},
		{name: "match", expected: "secret", provided: " secret ", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireInternalJobToken(tt.expected, okHandler())
			req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/score", nil)
			if tt.provided != "" {
				req.Header.Set("X-Internal-Job-Token", tt.provided)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}
