// File: future/future.go
// Author: momentics <momentics@gmail.com>
//
// One-shot completion handle for asynchronous socket operations.
// Every async operation produces exactly one Future, and exactly one
// terminal transition settles it.

package future

import (
	"context"
	"fmt"
	"sync"

	"github.com/momentics/msgloop/api"
)

// State is the lifecycle position of a Future.
type State int32

const (
	// Pending means no terminal transition has happened yet.
	Pending State = iota

	// Fulfilled means the operation produced a value.
	Fulfilled

	// Failed means the operation produced an error.
	Failed

	// Cancelled means the caller abandoned the operation.
	Cancelled
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Fulfilled:
		return "fulfilled"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Future is a settable completion handle. Settle operations are terminal:
// Fulfill and Fail panic when the future is already settled, Cancel reports
// false. Futures are settled on the loop thread but may be observed from any
// goroutine through Done, Wait or OnSettle.
type Future[T any] struct {
	mu    sync.Mutex
	state State
	value T
	err   error
	done  chan struct{}
	subs  []func(T, error)
}

// New returns a pending future.
func New[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Fulfill settles the future with a value. Panics if already settled.
func (f *Future[T]) Fulfill(v T) {
	f.settle(Fulfilled, v, nil)
}

// Fail settles the future with an error. Panics if already settled or if
// err is nil.
func (f *Future[T]) Fail(err error) {
	if err == nil {
		panic("future: Fail with nil error")
	}
	var zero T
	f.settle(Failed, zero, err)
}

// Cancel abandons a pending future, settling it with api.ErrCancelled.
// Reports false when the future was already settled.
func (f *Future[T]) Cancel() bool {
	var zero T
	f.mu.Lock()
	if f.state != Pending {
		f.mu.Unlock()
		return false
	}
	f.state = Cancelled
	f.err = api.ErrCancelled
	subs := f.subs
	f.subs = nil
	close(f.done)
	f.mu.Unlock()

	for _, fn := range subs {
		fn(zero, api.ErrCancelled)
	}
	return true
}

func (f *Future[T]) settle(st State, v T, err error) {
	f.mu.Lock()
	if f.state != Pending {
		prev := f.state
		f.mu.Unlock()
		panic(fmt.Sprintf("future: settle on %s future", prev))
	}
	f.state = st
	f.value = v
	f.err = err
	subs := f.subs
	f.subs = nil
	close(f.done)
	f.mu.Unlock()

	for _, fn := range subs {
		fn(v, err)
	}
}

// State returns the current lifecycle state.
func (f *Future[T]) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Cancelled reports whether the future was cancelled.
func (f *Future[T]) Cancelled() bool {
	return f.State() == Cancelled
}

// Done is closed on settle, whichever terminal state was reached.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Result returns the settled value and error. Only meaningful once Done is
// closed; on a pending future both are zero.
func (f *Future[T]) Result() (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.err
}

// Err returns the terminal error, nil when fulfilled or still pending.
func (f *Future[T]) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// OnSettle runs fn when the future settles, with the value and terminal
// error (api.ErrCancelled for cancellation). If the future is already
// settled, fn runs immediately on the calling goroutine; otherwise it runs
// on the goroutine performing the settle.
func (f *Future[T]) OnSettle(fn func(value T, err error)) {
	f.mu.Lock()
	if f.state == Pending {
		f.subs = append(f.subs, fn)
		f.mu.Unlock()
		return
	}
	v, err := f.value, f.err
	f.mu.Unlock()
	fn(v, err)
}

// Wait blocks the calling goroutine until the future settles or ctx is done.
// Intended for goroutines outside the loop thread; calling it from a loop
// callback deadlocks the loop.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case <-f.done:
		return f.Result()
	}
}
