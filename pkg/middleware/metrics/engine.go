package metrics

import (
	"time"

	"github.com/joeydtaylor/steeze-fn/pkg/engine"
)

// EngineObserver feeds engine events into the engine_* collectors.
type EngineObserver struct{}

var _ engine.Observer = EngineObserver{}

func (EngineObserver) CallFinished(route string, kind engine.Kind, d time.Duration) {
	engineCalls.WithLabelValues(kind.String()).Inc()
	if route != "" && kind != engine.KindUnavailable {
		engineHandlerSeconds.WithLabelValues(route).Observe(d.Seconds())
	}
}

func (EngineObserver) QueueDepth(n int) { engineQueueDepth.Set(float64(n)) }

func (EngineObserver) Reloaded(routes int, err error) {
	if err != nil {
		engineReloads.WithLabelValues("error").Inc()
		return
	}
	engineReloads.WithLabelValues("ok").Inc()
	engineRoutes.Set(float64(routes))
}

func (EngineObserver) HealthChanged(healthy bool) {
	if healthy {
		engineHealthy.Set(1)
		return
	}
	engineHealthy.Set(0)
}
