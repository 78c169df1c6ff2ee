// Package engine runs route handlers on a single script runtime.
//
// The engine is an actor. One goroutine, locked to its OS thread, creates the
// runtime, loads the route table, and then consumes a FIFO queue of messages
// until stopped. Callers on any goroutine submit work with Call or Reload and
// wait on a one-shot reply channel; nothing outside the engine goroutine ever
// touches the runtime or a handler reference.
//
// Ordering: messages are processed strictly in the order they were enqueued,
// one at a time. A reload is just another message, so calls enqueued before it
// see the old table and calls enqueued after it see the new one.
//
// Failure model:
//   - a missing route is answered NotFound without touching the runtime
//   - a script error or panic at the invocation boundary is answered Error and
//     the loop continues
//   - a handler that outlives the call timeout is interrupted, answered Error,
//     and the engine becomes unhealthy: every later call is answered
//     Unavailable until the process is restarted
//
// Throughput is bounded by single-threaded script execution.
package engine
