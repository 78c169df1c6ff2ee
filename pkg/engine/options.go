package engine

import (
	"time"

	"go.uber.org/zap"
)

// DefaultQueueSize is the call queue buffer when none is configured.
const DefaultQueueSize = 1024

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.obs = o
		}
	}
}

// WithCallTimeout arms a watchdog per handler invocation. Zero disables it.
func WithCallTimeout(d time.Duration) Option {
	return func(e *Engine) { e.callTimeout = d }
}

// WithQueueSize sets the number of messages that may wait without blocking
// producers.
func WithQueueSize(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.queueSize = n
		}
	}
}

// WithCallIDs overrides call ID generation.
func WithCallIDs(g CallIDGenerator) Option {
	return func(e *Engine) {
		if g != nil {
			e.ids = g
		}
	}
}
