package auth

import (
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-fn/pkg/manifest"
)

const defaultLeeway = 30 * time.Second

// New builds the middleware from the admin manifest section. The secret is
// read from the environment variable the section names.
func New(cfg manifest.Admin, log *zap.Logger) *Middleware {
	if log == nil {
		log = zap.NewNop()
	}
	role := cfg.Role
	if role == "" {
		role = manifest.DefaultAdminRole
	}
	m := &Middleware{
		secret:    []byte(strings.TrimSpace(os.Getenv(cfg.SecretEnv))),
		issuer:    cfg.Issuer,
		adminRole: role,
		devBypass: cfg.DevBypass || os.Getenv("AUTH_DEV_BYPASS") == "true",
		leeway:    defaultLeeway,
		log:       log,
	}
	if cfg.Enabled && !m.Enabled() {
		log.Warn("admin surface enabled but no signing secret set; admin calls will be rejected",
			zap.String("env", cfg.SecretEnv))
	}
	if m.devBypass {
		log.Warn("auth dev bypass enabled; X-Dev-User headers are trusted")
	}
	return m
}

// ProvideAuthentication is the fx constructor.
func ProvideAuthentication(cfg manifest.Config, log *zap.Logger) *Middleware {
	return New(cfg.Admin, log)
}
