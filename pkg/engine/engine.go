package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-fn/pkg/codec"
	"github.com/joeydtaylor/steeze-fn/pkg/routes"
	"github.com/joeydtaylor/steeze-fn/pkg/script"
)

// TableLoader builds a route table against a runtime. It is only ever called
// on the engine goroutine.
type TableLoader interface {
	Load(rt script.Runtime) (*routes.Table, error)
}

// Engine owns the script runtime and serializes every call against it.
type Engine struct {
	factory script.Factory
	loader  TableLoader
	log     *zap.Logger
	obs     Observer
	ids     CallIDGenerator

	callTimeout time.Duration
	queueSize   int

	queue chan message
	stop  chan struct{}
	done  chan struct{}

	started  atomic.Bool
	stopOnce sync.Once
	healthy  atomic.Bool
	depth    atomic.Int64
	routes   atomic.Int64

	// engine goroutine only
	rt    script.Runtime
	table *routes.Table
}

func New(factory script.Factory, loader TableLoader, opts ...Option) *Engine {
	e := &Engine{
		factory:   factory,
		loader:    loader,
		log:       zap.NewNop(),
		obs:       nopObserver{},
		ids:       UUIDv7Generator{},
		queueSize: DefaultQueueSize,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, o := range opts {
		o(e)
	}
	e.queue = make(chan message, e.queueSize)
	return e
}

// Start launches the engine goroutine and blocks until the initial route load
// finishes. A load error is returned as is and the engine is left stopped.
func (e *Engine) Start(ctx context.Context) error {
	if !e.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	loaded := make(chan error, 1)
	go e.run(loaded)

	select {
	case err := <-loaded:
		return err
	case <-ctx.Done():
		e.Stop()
		return ctx.Err()
	}
}

// Stop asks the engine goroutine to exit after the message in flight. Queued
// callers are answered with ErrStopped. Stop does not wait; use Done.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stop) })
}

// Done is closed once the engine goroutine has exited and the runtime is closed.
func (e *Engine) Done() <-chan struct{} { return e.done }

// Healthy reports false once a handler has been interrupted by the watchdog,
// or before the initial load has succeeded.
func (e *Engine) Healthy() bool { return e.healthy.Load() }

// QueueDepth is the number of submitted messages not yet picked up.
func (e *Engine) QueueDepth() int { return int(e.depth.Load()) }

// Routes is the size of the current table.
func (e *Engine) Routes() int { return int(e.routes.Load()) }

// Call submits req and waits for its response. The returned error is non-nil
// only when no response was produced: the engine is stopped or ctx ended
// first. Handler failures are responses, not errors.
func (e *Engine) Call(ctx context.Context, req Request) (Response, error) {
	pc := newPendingCall(e.ids.Generate(), req)
	if err := e.submit(ctx, message{call: pc}); err != nil {
		return Response{CallID: pc.ID}, err
	}

	select {
	case resp := <-pc.reply:
		return resp, nil
	case <-ctx.Done():
		return Response{CallID: pc.ID}, ctx.Err()
	case <-e.done:
		select {
		case resp := <-pc.reply:
			return resp, nil
		default:
		}
		return Response{CallID: pc.ID}, ErrStopped
	}
}

// Reload rebuilds the route table through the queue and returns the new route
// count. On failure the previous table stays in effect.
func (e *Engine) Reload(ctx context.Context) (int, error) {
	reply := make(chan reloadResult, 1)
	if err := e.submit(ctx, message{reload: reply}); err != nil {
		return 0, err
	}

	select {
	case res := <-reply:
		return res.routes, res.err
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-e.done:
		select {
		case res := <-reply:
			return res.routes, res.err
		default:
		}
		return 0, ErrStopped
	}
}

func (e *Engine) submit(ctx context.Context, m message) error {
	select {
	case <-e.stop:
		return ErrStopped
	case <-e.done:
		return ErrStopped
	default:
	}

	e.obs.QueueDepth(int(e.depth.Add(1)))
	select {
	case e.queue <- m:
		return nil
	case <-ctx.Done():
		e.obs.QueueDepth(int(e.depth.Add(-1)))
		return ctx.Err()
	case <-e.stop:
		e.obs.QueueDepth(int(e.depth.Add(-1)))
		return ErrStopped
	}
}

func (e *Engine) run(loaded chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(e.done)

	rt, err := e.factory()
	if err != nil {
		loaded <- fmt.Errorf("create runtime: %w", err)
		return
	}
	e.rt = rt
	defer func() {
		if err := rt.Close(); err != nil {
			e.log.Warn("runtime close failed", zap.Error(err))
		}
		e.log.Info("engine stopped")
	}()

	tbl, err := e.loader.Load(rt)
	if err != nil {
		loaded <- err
		return
	}
	e.install(tbl)
	e.setHealthy(true, "initial load")
	e.obs.Reloaded(tbl.Len(), nil)
	loaded <- nil

	for {
		select {
		case <-e.stop:
			e.drain()
			return
		case m := <-e.queue:
			e.obs.QueueDepth(int(e.depth.Add(-1)))
			switch {
			case m.call != nil:
				e.serve(m.call)
			case m.reload != nil:
				e.reload(m.reload)
			}
		}
	}
}

// drain releases messages that were queued when stop was requested. Their
// callers are waiting on done as well, so this only keeps the depth gauge
// honest.
func (e *Engine) drain() {
	for {
		select {
		case <-e.queue:
			e.obs.QueueDepth(int(e.depth.Add(-1)))
		default:
			return
		}
	}
}

func (e *Engine) install(tbl *routes.Table) {
	e.table = tbl
	e.routes.Store(int64(tbl.Len()))
}

func (e *Engine) setHealthy(ok bool, reason string) {
	if e.healthy.Swap(ok) == ok {
		return
	}
	if ok {
		e.log.Info("engine healthy", zap.String("reason", reason))
	} else {
		e.log.Error("engine unhealthy; restart required", zap.String("reason", reason))
	}
	e.obs.HealthChanged(ok)
}

func (e *Engine) serve(pc *PendingCall) {
	start := time.Now()
	resp := e.dispatch(pc)
	resp.CallID = pc.ID
	resp.Duration = time.Since(start)

	pc.reply <- resp
	e.obs.CallFinished(resp.Route, resp.Kind, resp.Duration)
	e.log.Debug("call finished",
		zap.String("call_id", pc.ID),
		zap.String("method", pc.Request.Method),
		zap.String("path", pc.Request.Path),
		zap.Stringer("kind", resp.Kind),
		zap.Duration("duration", resp.Duration),
	)
}

func (e *Engine) dispatch(pc *PendingCall) Response {
	if !e.healthy.Load() {
		return Response{Kind: KindUnavailable, Body: "engine unavailable: restart required"}
	}

	req := pc.Request
	route, ok := e.table.Lookup(req.Method, req.Path)
	if !ok {
		return Response{Kind: KindNotFound, Body: NotFoundBody}
	}

	if req.Query == nil {
		req.Query = map[string]string{}
	}
	arg, err := codec.JSON.Marshal(req)
	if err != nil {
		return Response{Kind: KindError, Body: "encode request: " + err.Error(), Route: route.Key.String()}
	}

	body, err := e.invoke(route, arg)
	if err != nil {
		e.log.Warn("handler failed",
			zap.String("call_id", pc.ID),
			zap.String("route", route.Key.String()),
			zap.Error(err),
		)
		return Response{Kind: KindError, Body: diagnostic(err), Route: route.Key.String()}
	}
	return Response{Kind: KindOK, Body: body, Route: route.Key.String()}
}

// callState is claimed exactly once, either by the handler returning or by the
// watchdog firing.
type callState struct{ v atomic.Int32 }

const (
	callRunning int32 = iota
	callReturned
	callTimedOut
)

func (c *callState) finish() bool { return c.v.CompareAndSwap(callRunning, callReturned) }

// invoke runs one handler under the watchdog. Panics from the runtime binding
// are converted into errors.
func (e *Engine) invoke(route routes.Route, arg []byte) (body string, err error) {
	var state callState
	if e.callTimeout > 0 {
		rt, key := e.rt, route.Key.String()
		timer := time.AfterFunc(e.callTimeout, func() { e.expire(&state, rt, key) })
		defer timer.Stop()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
		if !state.finish() {
			err = &TimeoutError{Route: route.Key.String(), After: e.callTimeout, Err: err}
		}
	}()

	return e.rt.Call(route.Handler, arg)
}

// expire is the watchdog. It does nothing once the call has returned, so an
// idle isolate is never left with a pending termination.
func (e *Engine) expire(c *callState, rt script.Runtime, key string) {
	if !c.v.CompareAndSwap(callRunning, callTimedOut) {
		return
	}
	e.setHealthy(false, "handler "+key+" timed out")
	rt.Interrupt()
}

func (e *Engine) reload(reply chan<- reloadResult) {
	if !e.healthy.Load() {
		reply <- reloadResult{err: ErrUnhealthy}
		return
	}

	tbl, err := e.safeLoad()
	if err != nil {
		e.log.Error("reload failed; keeping previous routes", zap.Error(err))
		e.obs.Reloaded(e.table.Len(), err)
		reply <- reloadResult{routes: e.table.Len(), err: err}
		return
	}
	old := e.table
	e.install(tbl)
	old.Release(e.rt)
	e.log.Info("routes reloaded", zap.Int("routes", tbl.Len()))
	e.obs.Reloaded(tbl.Len(), nil)
	reply <- reloadResult{routes: tbl.Len()}
}

func (e *Engine) safeLoad() (tbl *routes.Table, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("load panic: %v", r)
		}
	}()
	return e.loader.Load(e.rt)
}

func diagnostic(err error) string {
	if IsTimeout(err) {
		return "Handler error: " + err.Error()
	}
	var se *script.Error
	if errors.As(err, &se) && se.Stack != "" {
		return "Handler error: " + se.Message + "\n" + se.Stack
	}
	return "Handler error: " + err.Error()
}
