package core

import (
	"context"
	"errors"
	"net/http"
	"time"

	chimd "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-fn/pkg/engine"
	"github.com/joeydtaylor/steeze-fn/pkg/journal"
	"github.com/joeydtaylor/steeze-fn/pkg/middleware/logger"
)

// InternalErrorBody replaces any failure that produced no engine response.
const InternalErrorBody = "Internal error"

const journalTimeout = time.Second

// statusFor maps an engine response onto HTTP.
func statusFor(k engine.Kind) int {
	switch k {
	case engine.KindOK:
		return http.StatusOK
	case engine.KindNotFound:
		return http.StatusNotFound
	case engine.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// dispatch forwards a request to the engine and waits at most replyTimeout
// for the answer.
func dispatch(d BuildDeps, replyTimeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := engine.NewRequest(r.Method, r.URL.Path, ParseQuery(r.URL.RawQuery))

		ctx := r.Context()
		if replyTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, replyTimeout)
			defer cancel()
		}

		resp, err := d.Engine.Call(ctx, req)
		if resp.CallID != "" {
			w.Header().Set(logger.CallIDHeader, resp.CallID)
		}

		status, body, outcome := statusFor(resp.Kind), resp.Body, resp.Kind.String()
		if err != nil {
			outcome = "internal"
			status, body = http.StatusInternalServerError, InternalErrorBody
			lvl := zap.WarnLevel
			if errors.Is(err, engine.ErrStopped) {
				lvl = zap.ErrorLevel
			}
			d.Log.Log(lvl, "engine call failed",
				zap.String("call_id", resp.CallID),
				zap.String("method", req.Method),
				zap.String("path", req.Path),
				zap.Error(err),
			)
		}
		writeText(w, body, status)

		if d.Journal != nil {
			record(r, d, journal.Entry{
				ID:        resp.CallID,
				RequestID: chimd.GetReqID(r.Context()),
				Method:    req.Method,
				Path:      req.Path,
				Route:     resp.Route,
				Outcome:   outcome,
				Status:    status,
				Duration:  resp.Duration,
			})
		}
	}
}

func record(r *http.Request, d BuildDeps, e journal.Entry) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), journalTimeout)
	defer cancel()
	if err := d.Journal.Record(ctx, e); err != nil {
		d.Log.Warn("journal write failed", zap.String("call_id", e.ID), zap.Error(err))
	}
}
