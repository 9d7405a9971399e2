package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSecurityHeadersApplied(t *testing.T) {
	h := Security("/api-docs")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/profile/1", nil))

	want := map[string]string{
		"Cache-Control":          "no-store",
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	for k, v := range want {
		if got := resp.Header().Get(k); got != v {
			t.Errorf("expected %s %q, got %q", k, v, got)
		}
	}
}

func TestSecurityHeadersSkippedForDocs(t *testing.T) {
	h := Security("/api-docs")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api-docs", nil))

	if got := resp.Header().Get("X-Frame-Options"); got != "" {
		t.Fatalf("expected no X-Frame-Options on docs, got %q", got)
	}
}
