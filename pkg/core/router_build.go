package core

import (
	"net/http"

	chimd "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-fn/pkg/manifest"
	hmetrics "github.com/joeydtaylor/steeze-fn/pkg/middleware/metrics"
)

const (
	HealthPath = "/healthz"
	ReloadPath = "/_admin/reload"
)

// BuildRouter mounts the reserved endpoints and sends every other request to
// the engine.
func BuildRouter(cfg manifest.Config, d BuildDeps) http.Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	r := d.Router
	r.Use(chimd.RequestID, chimd.RealIP, chimd.Recoverer, chimd.Heartbeat("/ping"))

	if d.Auth != nil {
		r.Use(d.Auth.Middleware())
		if d.LogMW != nil {
			r.Use(d.LogMW.Middleware(d.Auth))
		}
		// metrics collector that references auth state without copying it
		r.Use(hmetrics.Collect(d.Auth))
	} else {
		if d.LogMW != nil {
			r.Use(d.LogMW.Middleware(nil))
		}
		r.Use(hmetrics.Collect(nil))
	}

	if d.Metrics != nil {
		r.Get("/metrics", d.Metrics)
	}
	// probes would drown real traffic in the request counters
	hmetrics.AddMetricsSkipPaths(HealthPath)
	r.Get(HealthPath, health(d.Engine))

	if cfg.Admin.Enabled {
		reload := withDeadline(reloadHandler(d), cfg.ReplyTimeout())
		r.Post(ReloadPath, withGuard(reload, d.Auth, cfg.Admin.Role))
	}

	r.Fallback(dispatch(d, cfg.ReplyTimeout()))
	return r.Mux()
}
