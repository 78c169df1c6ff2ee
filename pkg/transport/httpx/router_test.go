package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func text(s string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(s)) })
}

func TestChiRouter_Fallback(t *testing.T) {
	r := NewChi()
	r.Get("/metrics", text("metrics"))
	r.Post("/_admin/reload", text("reload"))
	r.Fallback(text("fallback"))

	for _, tc := range []struct{ method, path, want string }{
		{http.MethodGet, "/metrics", "metrics"},
		{http.MethodPost, "/_admin/reload", "reload"},
		{http.MethodPost, "/metrics", "fallback"},
		{http.MethodGet, "/_admin/reload", "fallback"},
		{http.MethodGet, "/", "fallback"},
		{"PATCH", "/a/b/c", "fallback"},
	} {
		rec := httptest.NewRecorder()
		r.Mux().ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, "%s %s", tc.method, tc.path)
		assert.Equal(t, tc.want, rec.Body.String(), "%s %s", tc.method, tc.path)
	}
}
