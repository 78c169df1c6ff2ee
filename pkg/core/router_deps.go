package core

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-fn/pkg/engine"
	"github.com/joeydtaylor/steeze-fn/pkg/journal"
	"github.com/joeydtaylor/steeze-fn/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-fn/pkg/middleware/logger"
	httpx "github.com/joeydtaylor/steeze-fn/pkg/transport/httpx"
)

// Dispatcher is the engine surface the front door needs.
type Dispatcher interface {
	Call(ctx context.Context, req engine.Request) (engine.Response, error)
	Reload(ctx context.Context) (int, error)
	Healthy() bool
	QueueDepth() int
	Routes() int
}

// Recorder journals completed calls. Optional.
type Recorder interface {
	Record(ctx context.Context, e journal.Entry) error
}

type BuildDeps struct {
	Auth    *auth.Middleware
	LogMW   *logger.Middleware
	Metrics http.Handler
	Router  httpx.Router
	Engine  Dispatcher
	Journal Recorder
	Log     *zap.Logger
}
