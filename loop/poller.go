// File: loop/poller.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral poller contract backing the loop.

package loop

import "time"

// event is one readiness notification from the OS poller.
type event struct {
	fd       uintptr
	readable bool
	writable bool
	// failed covers the error/hangup class; the loop dispatches it to both
	// directions so the retry surfaces the transport error.
	failed bool
}

// poller abstracts the platform readiness backend.
type poller interface {
	// modify sets the interest set for fd. Removing all interest deletes
	// the descriptor from the backend.
	modify(fd uintptr, read, write bool) error

	// wait blocks up to timeout for events and fills the output slice.
	// A negative timeout blocks indefinitely.
	wait(events []event, timeout time.Duration) (int, error)

	// wake forces a pending or future wait call to return early.
	wake() error

	close() error
}
