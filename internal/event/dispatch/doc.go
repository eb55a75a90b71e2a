// Package dispatch provides synchronous handler execution with panic
// recovery for the document model's change notifications.
//
// Dispatch is strictly call-stack serialized: a handler that triggers
// another dispatch (for example, a content-change listener submitting
// a new edit batch) runs that nested dispatch to completion before its
// own dispatch returns. Panics in handlers are recovered and reported
// rather than unwinding the mutating call.
package dispatch
