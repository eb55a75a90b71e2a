// Package model provides the mutable, observable text document: a
// versioned wrapper around the line buffer that validates edit
// batches, maintains conservative character-class flags, manages the
// end-of-line policy, and emits exactly one content-changed event per
// successful mutation.
//
// Concurrency model: single writer, cooperative, single goroutine per
// document. The only concurrency concern is reentrancy — a listener
// submitting a new edit batch from inside its notification — and it is
// handled by strict call-stack serialization rather than locking: the
// nested call completes in full, buffer mutation, version bump and its
// own fan-out included, before the outer fan-out resumes. Partial
// application is never observable; batches are all-or-nothing.
package model
