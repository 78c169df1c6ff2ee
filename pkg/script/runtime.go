// Package script defines the contract between the engine and a single-threaded
// script execution context.
//
// A Runtime is not safe for concurrent use. Every method except Interrupt must be
// called from the goroutine that owns the runtime.
package script

import "fmt"

// Handler is an opaque reference to a callable compiled into a Runtime. It is only
// meaningful to the Runtime that produced it and only for that runtime's lifetime.
type Handler interface {
	Label() string
}

// Runtime is one long-lived script execution context with a shared global scope.
type Runtime interface {
	// Compile evaluates source in the global scope under a diagnostic label.
	Compile(label, source string) error
	// Unset resets the global named name to undefined.
	Unset(name string) error
	// Export captures the global named name if it is callable, then resets the
	// global to undefined. ok is false when the global is absent or not callable.
	Export(name string) (h Handler, ok bool)
	// Release frees a handler returned by Export. h must not be called again.
	Release(h Handler)
	// Call invokes h with a single argument decoded from the JSON document arg and
	// returns the result coerced to a string.
	Call(h Handler, arg []byte) (string, error)
	// Interrupt aborts the script currently running, if any. Safe from any goroutine.
	Interrupt()
	// Close releases the context. Handlers become invalid.
	Close() error
}

// Factory builds a Runtime on the calling goroutine.
type Factory func() (Runtime, error)

// Error is a script-level failure raised while compiling or calling.
type Error struct {
	Label   string
	Message string
	Stack   string
}

func (e *Error) Error() string {
	if e.Label == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Label, e.Message)
}
