package logger

import (
	"net/http"
	"time"

	chimd "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-fn/pkg/middleware/auth"
)

// CallIDHeader carries the engine call ID on responses that reached the engine.
const CallIDHeader = "X-Call-Id"

// Middleware writes one access log line per request.
type Middleware struct {
	access *zap.Logger
}

func New(access *zap.Logger) *Middleware {
	if access == nil {
		access = zap.NewNop()
	}
	return &Middleware{access: access}
}

func (m *Middleware) Middleware(ca *auth.Middleware) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimd.NewWrapResponseWriter(w, r.ProtoMajor)

			scheme := "http"
			if r.TLS != nil {
				scheme = "https"
			}

			start := time.Now()
			defer func() {
				// nil-safe auth lookups
				username, role := "", ""
				if ca != nil {
					u := ca.GetUser(r.Context())
					username = u.Username
					role = u.Role.Name
				}

				m.access.Info("http request",
					zap.String("requestId", chimd.GetReqID(r.Context())),
					zap.String("callId", ww.Header().Get(CallIDHeader)),
					zap.String("httpScheme", scheme),
					zap.String("httpProto", r.Proto),
					zap.String("httpMethod", r.Method),
					zap.String("remoteAddr", r.RemoteAddr),
					zap.String("uri", r.URL.Path),
					zap.String("username", username),
					zap.String("role", role),
					zap.Duration("lat", time.Since(start)),
					zap.Int("responseSize", ww.BytesWritten()),
					zap.Int("status", ww.Status()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
