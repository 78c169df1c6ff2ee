package logger

import (
	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-fn/pkg/manifest"
)

// ProvideLogger is the application logger (system.log).
func ProvideLogger(cfg manifest.Config) *zap.Logger {
	return NewLog(cfg.Log.Dir, "system.log", cfg.Log.Level)
}

// ProvideLoggerMiddleware is the access logger (http-access.log). Access lines
// are always written at info.
func ProvideLoggerMiddleware(cfg manifest.Config) *Middleware {
	return New(NewLog(cfg.Log.Dir, "http-access.log", "info"))
}
