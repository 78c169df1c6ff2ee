package auth

import (
	"time"

	"go.uber.org/zap"
)

type contextKey struct{ name string }

var userCtxKey = &contextKey{"user"}

// Middleware authenticates bearer tokens signed with a shared HS256 secret and
// places the resulting User on the request context.
type Middleware struct {
	secret    []byte
	issuer    string
	adminRole string
	devBypass bool
	leeway    time.Duration
	log       *zap.Logger
}

// Enabled reports whether a signing secret is configured. Without one every
// token is rejected and only the dev bypass can authenticate.
func (m *Middleware) Enabled() bool { return len(m.secret) > 0 }
