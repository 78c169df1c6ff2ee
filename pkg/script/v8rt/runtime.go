// Package v8rt implements script.Runtime on a single V8 isolate and context.
package v8rt

import (
	"errors"
	"fmt"

	v8 "github.com/tommie/v8go"
	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-fn/pkg/script"
)

// Runtime owns one isolate and one context. Not safe for concurrent use; only
// Interrupt may be called from another goroutine.
//
// Every *v8.Value stays tracked by the context until it is released, and the
// context lives as long as the process, so values are released as soon as
// their Go side is done with them.
type Runtime struct {
	iso    *v8.Isolate
	ctx    *v8.Context
	global *v8.Object
	log    *zap.Logger

	lastLabel string // label of the most recent Compile
}

type Option func(*Runtime)

// WithLogger routes the script-visible log() global to l.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runtime) { r.log = l }
}

// handler wraps a captured function. Valid only for the Runtime that created it.
type handler struct {
	fn    *v8.Function
	owner *Runtime
	label string
}

func (h *handler) Label() string { return h.label }

// New creates the isolate and context with host globals installed.
func New(opts ...Option) (*Runtime, error) {
	r := &Runtime{log: zap.NewNop()}
	for _, o := range opts {
		o(r)
	}

	r.iso = v8.NewIsolate()
	global := v8.NewObjectTemplate(r.iso)
	if err := global.Set("log", r.logTemplate()); err != nil {
		r.iso.Dispose()
		return nil, fmt.Errorf("install log global: %w", err)
	}
	r.ctx = v8.NewContext(r.iso, global)
	r.global = r.ctx.Global()
	return r, nil
}

// Factory adapts New to script.Factory.
func Factory(opts ...Option) script.Factory {
	return func() (script.Runtime, error) {
		return New(opts...)
	}
}

func (r *Runtime) Compile(label, source string) error {
	r.lastLabel = label
	v, err := r.ctx.RunScript(source, label)
	if err != nil {
		return scriptError(label, err)
	}
	release(v)
	return nil
}

// Unset resets the global name to undefined. Declared globals are not
// configurable, so it overwrites rather than deletes.
func (r *Runtime) Unset(name string) error {
	if err := r.global.Set(name, v8.Undefined(r.iso)); err != nil {
		return scriptError(r.lastLabel, err)
	}
	return nil
}

func (r *Runtime) Export(name string) (script.Handler, bool) {
	val, err := r.global.Get(name)
	if err != nil || val == nil {
		return nil, false
	}
	if !val.IsFunction() {
		release(val)
		return nil, false
	}
	fn, err := val.AsFunction()
	if err != nil {
		release(val)
		return nil, false
	}
	// The next file must not see this export.
	if err := r.Unset(name); err != nil {
		release(val)
		return nil, false
	}
	return &handler{fn: fn, owner: r, label: r.lastLabel}, true
}

// Release drops a handler returned by Export. Calling it afterwards fails.
func (r *Runtime) Release(h script.Handler) {
	hd, ok := h.(*handler)
	if !ok || hd.owner != r || hd.fn == nil {
		return
	}
	hd.fn.Release()
	hd.fn = nil
}

func (r *Runtime) Call(h script.Handler, arg []byte) (string, error) {
	hd, ok := h.(*handler)
	if !ok || hd.owner != r {
		return "", fmt.Errorf("handler %q does not belong to this runtime", labelOf(h))
	}
	if hd.fn == nil {
		return "", fmt.Errorf("handler %q was released", hd.label)
	}

	in, err := v8.JSONParse(r.ctx, string(arg))
	if err != nil {
		return "", scriptError(hd.label, err)
	}
	defer release(in)

	out, err := hd.fn.Call(r.global, in)
	if err != nil {
		return "", scriptError(hd.label, err)
	}
	defer release(out)
	if !out.IsPromise() {
		return out.String(), nil
	}

	res, err := r.settle(hd.label, out)
	if err != nil {
		return "", err
	}
	defer release(res)
	return res.String(), nil
}

// settle drains microtasks once and unwraps an already-settled promise. The
// caller owns both v and the returned value.
func (r *Runtime) settle(label string, v *v8.Value) (*v8.Value, error) {
	p, err := v.AsPromise()
	if err != nil {
		return nil, scriptError(label, err)
	}
	r.ctx.PerformMicrotaskCheckpoint()
	switch p.State() {
	case v8.Fulfilled:
		return p.Result(), nil
	case v8.Rejected:
		reason := p.Result()
		defer release(reason)
		return nil, &script.Error{Label: label, Message: "promise rejected: " + reason.String()}
	default:
		return nil, &script.Error{Label: label, Message: "promise still pending after microtask checkpoint"}
	}
}

func (r *Runtime) Interrupt() {
	r.iso.TerminateExecution()
}

func (r *Runtime) Close() error {
	r.ctx.Close()
	r.iso.Dispose()
	return nil
}

func scriptError(label string, err error) error {
	var jsErr *v8.JSError
	if errors.As(err, &jsErr) {
		return &script.Error{Label: label, Message: jsErr.Message, Stack: jsErr.StackTrace}
	}
	return &script.Error{Label: label, Message: err.Error()}
}

func release(v *v8.Value) {
	if v != nil {
		v.Release()
	}
}

func labelOf(h script.Handler) string {
	if h == nil {
		return "<nil>"
	}
	return h.Label()
}
