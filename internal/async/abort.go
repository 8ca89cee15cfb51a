package async

import (
	"context"

	ragerrors "github.com/aman-cerp/ragterm/internal/errors"
)

// AbortSignal is an explicit cancel token threaded through awaited work.
// Per the design notes, cancellation is raced against a cancellation future
// at every orchestrator-level operation (init, add_paths, search) rather than
// at every individual I/O call.
type AbortSignal struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewAbortSignal derives an AbortSignal from a parent context. Cancelling the
// parent also aborts the signal.
func NewAbortSignal(parent context.Context) *AbortSignal {
	ctx, cancel := context.WithCancel(parent)
	return &AbortSignal{ctx: ctx, cancel: cancel}
}

// Abort requests cancellation.
func (s *AbortSignal) Abort() {
	s.cancel()
}

// Done returns a channel closed once Abort is called or the parent is cancelled.
func (s *AbortSignal) Done() <-chan struct{} {
	return s.ctx.Done()
}

// Aborted reports whether the signal has fired.
func (s *AbortSignal) Aborted() bool {
	select {
	case <-s.ctx.Done():
		return true
	default:
		return false
	}
}

// Context returns the underlying context, for plumbing into library calls
// that accept one directly (HTTP embedding requests, file reads).
func (s *AbortSignal) Context() context.Context {
	return s.ctx
}

// Race runs fn in a goroutine and races it against the abort signal. If the
// signal fires first, Race returns an Aborted RagError immediately and fn's
// eventual result (if any) is discarded; the store is left in its
// pre-operation state since fn has not yet returned.
func Race(signal *AbortSignal, fn func() error) error {
	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case <-signal.Done():
		return ragerrors.Abort()
	case err := <-done:
		return err
	}
}
