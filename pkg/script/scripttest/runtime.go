// Package scripttest provides an in-memory script.Runtime for tests.
//
// Sources are not parsed. A test registers the exact source text of each file
// with Handle or Fail; compiling a registered source defines (or fails) the
// export, and compiling any other source behaves like a helper file.
package scripttest

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/joeydtaylor/steeze-fn/pkg/codec"
	"github.com/joeydtaylor/steeze-fn/pkg/script"
)

// Request mirrors the document the engine passes to handlers.
type Request struct {
	Method string            `json:"method"`
	Path   string            `json:"path"`
	Query  map[string]string `json:"query"`
	Body   string            `json:"body"`
}

// Func is a handler body.
type Func func(req Request) (string, error)

type program struct {
	fn         Func
	compileErr error
}

type handler struct {
	label    string
	fn       Func
	owner    *Runtime
	released bool
}

func (h *handler) Label() string { return h.label }

// Runtime records compiles and calls and detects overlapping use.
type Runtime struct {
	mu       sync.Mutex
	programs map[string]program
	globals  map[string]*handler
	compiled []string
	released []string
	calls    int

	active   atomic.Int32
	overlaps atomic.Int32
	closed   atomic.Bool

	interruptOnce sync.Once
	interrupted   chan struct{}
}

// New returns an empty runtime.
func New() *Runtime {
	return &Runtime{
		programs:    make(map[string]program),
		globals:     make(map[string]*handler),
		interrupted: make(chan struct{}),
	}
}

// Factory returns a script.Factory that always yields rt.
func Factory(rt *Runtime) script.Factory {
	return func() (script.Runtime, error) { return rt, nil }
}

// Handle registers source as a file that exports fn as "handler".
func (r *Runtime) Handle(source string, fn Func) *Runtime {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.programs[source] = program{fn: fn}
	return r
}

// Fail registers source as a file that does not compile.
func (r *Runtime) Fail(source string, err error) *Runtime {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.programs[source] = program{compileErr: err}
	return r
}

func (r *Runtime) Compile(label, source string) error {
	r.enter()
	defer r.leave()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.compiled = append(r.compiled, label)
	p, ok := r.programs[source]
	if !ok {
		return nil
	}
	if p.compileErr != nil {
		return &script.Error{Label: label, Message: p.compileErr.Error()}
	}
	r.globals["handler"] = &handler{label: label, fn: p.fn, owner: r}
	return nil
}

func (r *Runtime) Unset(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.globals, name)
	return nil
}

func (r *Runtime) Export(name string) (script.Handler, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.globals[name]
	if !ok || h.fn == nil {
		return nil, false
	}
	delete(r.globals, name)
	return h, true
}

func (r *Runtime) Release(h script.Handler) {
	hd, ok := h.(*handler)
	if !ok || hd.owner != r {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if hd.released {
		return
	}
	hd.released = true
	r.released = append(r.released, hd.label)
}

func (r *Runtime) Call(h script.Handler, arg []byte) (string, error) {
	r.enter()
	defer r.leave()

	hd, ok := h.(*handler)
	if !ok || hd.owner != r {
		return "", errors.New("scripttest: foreign handler")
	}
	r.mu.Lock()
	released := hd.released
	r.mu.Unlock()
	if released {
		return "", fmt.Errorf("scripttest: handler %s was released", hd.label)
	}

	var req Request
	if err := codec.JSON.Unmarshal(arg, &req); err != nil {
		return "", fmt.Errorf("scripttest: %w", err)
	}

	r.mu.Lock()
	r.calls++
	r.mu.Unlock()

	out, err := hd.fn(req)
	if err != nil {
		return "", &script.Error{Label: hd.label, Message: err.Error()}
	}
	return out, nil
}

func (r *Runtime) Interrupt() {
	r.interruptOnce.Do(func() { close(r.interrupted) })
}

func (r *Runtime) Close() error {
	r.closed.Store(true)
	return nil
}

// Interrupted is closed once Interrupt has been called.
func (r *Runtime) Interrupted() <-chan struct{} { return r.interrupted }

// Compiled returns compile labels in order.
func (r *Runtime) Compiled() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.compiled...)
}

// Released returns the labels of released handlers in order.
func (r *Runtime) Released() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.released...)
}

// Calls is the number of handler invocations.
func (r *Runtime) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// Overlaps counts compiles or calls that started while another was running.
func (r *Runtime) Overlaps() int { return int(r.overlaps.Load()) }

// Closed reports whether Close was called.
func (r *Runtime) Closed() bool { return r.closed.Load() }

func (r *Runtime) enter() {
	if r.active.Add(1) > 1 {
		r.overlaps.Add(1)
	}
}

func (r *Runtime) leave() { r.active.Add(-1) }
