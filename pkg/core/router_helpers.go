package core

import (
	"context"
	"net/http"
	"time"

	"github.com/joeydtaylor/steeze-fn/pkg/codec"
)

func writeJSON(w http.ResponseWriter, v any, status int) {
	payload, err := codec.JSON.Marshal(v)
	if err != nil {
		payload = []byte(`{}`)
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

func writeText(w http.ResponseWriter, body string, status int) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// withDeadline bounds the request context. d <= 0 leaves it untouched.
func withDeadline(next http.HandlerFunc, d time.Duration) http.HandlerFunc {
	if d <= 0 {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), d)
		defer cancel()
		next(w, r.WithContext(ctx))
	}
}
