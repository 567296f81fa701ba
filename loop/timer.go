// File: loop/timer.go
// Author: momentics <momentics@gmail.com>
//
// Deferred callbacks ordered on a priority queue by deadline.

package loop

import (
	"sync/atomic"
	"time"

	qds "github.com/Workiva/go-datastructures/queue"
)

// Timer is a deferred callback scheduled with Loop.CallLater.
type Timer struct {
	when      time.Time
	seq       uint64
	fn        func()
	cancelled atomic.Bool
}

// Cancel prevents the callback from firing. Safe from any goroutine;
// a no-op once the timer has fired.
func (t *Timer) Cancel() {
	t.cancelled.Store(true)
}

// When returns the scheduled deadline.
func (t *Timer) When() time.Time {
	return t.when
}

// Compare orders timers by deadline, submission order breaking ties.
func (t *Timer) Compare(other qds.Item) int {
	o := other.(*Timer)
	switch {
	case t.when.Before(o.when):
		return -1
	case t.when.After(o.when):
		return 1
	case t.seq < o.seq:
		return -1
	case t.seq > o.seq:
		return 1
	default:
		return 0
	}
}
