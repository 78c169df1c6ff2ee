package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"github.com/joeydtaylor/steeze-fn/pkg/engine"
)

// NewPromHttpHandler returns the /metrics handler.
func NewPromHttpHandler() http.Handler { return promhttp.Handler() }

// ProvideMetrics is the Fx provider for the /metrics handler.
func ProvideMetrics() http.Handler { return NewPromHttpHandler() }

// ProvideEngineObserver is the Fx provider for engine instrumentation.
func ProvideEngineObserver() engine.Observer { return EngineObserver{} }

// Module provides the handler as name:"metrics" and the engine observer.
var Module = fx.Options(
	fx.Provide(fx.Annotate(ProvideMetrics, fx.ResultTags(`name:"metrics"`))),
	fx.Provide(ProvideEngineObserver),
)
