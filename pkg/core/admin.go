package core

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-fn/pkg/engine"
)

type reloadReply struct {
	Routes int    `json:"routes"`
	Error  string `json:"error,omitempty"`
}

type healthReply struct {
	Healthy    bool `json:"healthy"`
	Routes     int  `json:"routes"`
	QueueDepth int  `json:"queueDepth"`
}

func reloadHandler(d BuildDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ""
		if d.Auth != nil {
			user = d.Auth.GetUser(r.Context()).Username
		}

		n, err := d.Engine.Reload(r.Context())
		if err != nil {
			d.Log.Warn("admin reload failed", zap.String("user", user), zap.Error(err))
			status := http.StatusUnprocessableEntity
			switch {
			case errors.Is(err, engine.ErrUnhealthy), errors.Is(err, engine.ErrStopped):
				status = http.StatusServiceUnavailable
			case r.Context().Err() != nil:
				status = http.StatusGatewayTimeout
			}
			writeJSON(w, reloadReply{Routes: n, Error: err.Error()}, status)
			return
		}
		d.Log.Info("admin reload", zap.String("user", user), zap.Int("routes", n))
		writeJSON(w, reloadReply{Routes: n}, http.StatusOK)
	}
}

func health(e Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep := healthReply{Healthy: e.Healthy(), Routes: e.Routes(), QueueDepth: e.QueueDepth()}
		status := http.StatusOK
		if !rep.Healthy {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, rep, status)
	}
}
