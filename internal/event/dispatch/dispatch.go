package dispatch

import (
	"runtime/debug"
	"sync/atomic"
	"time"
)

// Handler is the interface for event handlers.
type Handler interface {
	Handle(event any)
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(event any)

// Handle calls the wrapped function.
func (f HandlerFunc) Handle(event any) {
	f(event)
}

// Result represents the outcome of a handler execution.
type Result struct {
	// Panicked is true if the handler panicked.
	Panicked bool

	// PanicValue is the value passed to panic(), if Panicked is true.
	PanicValue any

	// PanicStack is the stack trace at the point of panic.
	PanicStack []byte

	// Duration is how long the handler took to execute.
	Duration time.Duration
}

// PanicHandler is called when a handler panics during execution.
// It receives the event being processed, the panic value, and the
// stack trace.
type PanicHandler func(event any, panicValue any, stack []byte)

// SyncDispatcher executes handlers synchronously in the caller's
// goroutine with panic recovery. Handlers are free to dispatch again
// from inside a running handler; nested dispatches complete in full
// before control returns, which is exactly the serialization the
// document model relies on for reentrant listeners.
type SyncDispatcher struct {
	panicHandler PanicHandler

	// Stats
	dispatched atomic.Uint64
	panicked   atomic.Uint64
}

// SyncOption configures a SyncDispatcher.
type SyncOption func(*SyncDispatcher)

// WithPanicHandler sets the panic handler for the dispatcher.
func WithPanicHandler(h PanicHandler) SyncOption {
	return func(d *SyncDispatcher) {
		d.panicHandler = h
	}
}

// NewSyncDispatcher creates a new synchronous dispatcher.
func NewSyncDispatcher(opts ...SyncOption) *SyncDispatcher {
	d := &SyncDispatcher{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch executes a handler synchronously with the given event.
// A panicking handler is recovered, reported through the panic
// handler, and reflected in the result; it never unwinds the caller.
func (d *SyncDispatcher) Dispatch(event any, handler Handler) (result Result) {
	d.dispatched.Add(1)
	start := time.Now()

	defer func() {
		result.Duration = time.Since(start)
		if r := recover(); r != nil {
			result.Panicked = true
			result.PanicValue = r
			result.PanicStack = debug.Stack()
			d.panicked.Add(1)
			if d.panicHandler != nil {
				d.panicHandler(event, r, result.PanicStack)
			}
		}
	}()

	handler.Handle(event)
	return result
}

// SyncDispatcherStats summarizes dispatcher activity.
type SyncDispatcherStats struct {
	Dispatched uint64
	Panicked   uint64
}

// Stats returns dispatch statistics.
func (d *SyncDispatcher) Stats() SyncDispatcherStats {
	return SyncDispatcherStats{
		Dispatched: d.dispatched.Load(),
		Panicked:   d.panicked.Load(),
	}
}
