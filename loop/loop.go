// File: loop/loop.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Single-threaded readiness event loop. Descriptor callbacks, queued tasks
// and timers all run on the goroutine that called Run; CallSoon is the one
// entry point safe from other goroutines.

package loop

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	qds "github.com/Workiva/go-datastructures/queue"

	"github.com/momentics/msgloop/control"
)

const maxEventsPerPoll = 128

// Loop implements api.EventLoop over an OS readiness poller.
//
// RegisterRead, RegisterWrite, UnregisterRead, UnregisterWrite and CallLater
// must run on the loop thread (inside a callback, a task or a timer, or
// before Run starts). CallSoon and Stop are safe from any goroutine.
type Loop struct {
	poller   poller
	readCBs  map[uintptr]func()
	writeCBs map[uintptr]func()
	tasks    *qds.Queue
	timers   *qds.PriorityQueue
	timerSeq uint64
	metrics  *control.MetricsRegistry
	stopped  atomic.Bool
	running  atomic.Bool
}

// New creates a loop backed by the platform poller.
func New() (*Loop, error) {
	p, err := newPoller()
	if err != nil {
		return nil, err
	}
	return &Loop{
		poller:   p,
		readCBs:  make(map[uintptr]func()),
		writeCBs: make(map[uintptr]func()),
		tasks:    qds.New(16),
		timers:   qds.NewPriorityQueue(16, true),
		metrics:  control.NewMetricsRegistry(),
	}, nil
}

// Metrics returns the loop's counter registry.
func (l *Loop) Metrics() *control.MetricsRegistry {
	return l.metrics
}

// RegisterRead implements api.EventLoop.
func (l *Loop) RegisterRead(fd uintptr, cb func()) error {
	if cb == nil {
		return errors.New("loop: nil callback")
	}
	if _, dup := l.readCBs[fd]; dup {
		return fmt.Errorf("loop: read callback already registered for fd %d", fd)
	}
	if err := l.poller.modify(fd, true, l.writeCBs[fd] != nil); err != nil {
		return err
	}
	l.readCBs[fd] = cb
	return nil
}

// RegisterWrite implements api.EventLoop.
func (l *Loop) RegisterWrite(fd uintptr, cb func()) error {
	if cb == nil {
		return errors.New("loop: nil callback")
	}
	if _, dup := l.writeCBs[fd]; dup {
		return fmt.Errorf("loop: write callback already registered for fd %d", fd)
	}
	if err := l.poller.modify(fd, l.readCBs[fd] != nil, true); err != nil {
		return err
	}
	l.writeCBs[fd] = cb
	return nil
}

// UnregisterRead implements api.EventLoop. Unregistering a descriptor with
// no read callback is a no-op.
func (l *Loop) UnregisterRead(fd uintptr) error {
	if _, ok := l.readCBs[fd]; !ok {
		return nil
	}
	delete(l.readCBs, fd)
	return l.poller.modify(fd, false, l.writeCBs[fd] != nil)
}

// UnregisterWrite implements api.EventLoop.
func (l *Loop) UnregisterWrite(fd uintptr) error {
	if _, ok := l.writeCBs[fd]; !ok {
		return nil
	}
	delete(l.writeCBs, fd)
	return l.poller.modify(fd, l.readCBs[fd] != nil, false)
}

// CallSoon schedules fn to run on the loop thread during the next iteration.
// Safe from any goroutine.
func (l *Loop) CallSoon(fn func()) error {
	if fn == nil {
		return errors.New("loop: nil task")
	}
	if err := l.tasks.Put(fn); err != nil {
		return fmt.Errorf("loop: task queue: %w", err)
	}
	return l.poller.wake()
}

// CallLater schedules fn to run on the loop thread no earlier than d from
// now. Loop-thread only.
func (l *Loop) CallLater(d time.Duration, fn func()) (*Timer, error) {
	if fn == nil {
		return nil, errors.New("loop: nil timer callback")
	}
	t := &Timer{when: time.Now().Add(d), seq: l.timerSeq, fn: fn}
	l.timerSeq++
	if err := l.timers.Put(t); err != nil {
		return nil, fmt.Errorf("loop: timer queue: %w", err)
	}
	return t, nil
}

// Run polls and dispatches until Stop is called or the poller fails.
func (l *Loop) Run() error {
	if !l.running.CompareAndSwap(false, true) {
		return errors.New("loop: already running")
	}
	defer l.running.Store(false)

	events := make([]event, maxEventsPerPoll)
	for !l.stopped.Load() {
		n, err := l.poller.wait(events, l.nextTimeout())
		if err != nil {
			return err
		}
		l.metrics.Inc("loop.polls")

		for i := 0; i < n; i++ {
			ev := events[i]
			if ev.readable || ev.failed {
				if cb := l.readCBs[ev.fd]; cb != nil {
					l.metrics.Inc("loop.dispatches")
					cb()
				}
			}
			if ev.writable || ev.failed {
				if cb := l.writeCBs[ev.fd]; cb != nil {
					l.metrics.Inc("loop.dispatches")
					cb()
				}
			}
		}

		l.runTasks()
		l.fireTimers()
	}
	return nil
}

// Stop asks Run to return after the current iteration. Safe from any
// goroutine; idempotent.
func (l *Loop) Stop() {
	l.stopped.Store(true)
	_ = l.poller.wake()
}

// Close releases the poller and both scheduling queues. Call only after Run
// has returned.
func (l *Loop) Close() error {
	l.tasks.Dispose()
	l.timers.Dispose()
	return l.poller.close()
}

// nextTimeout picks the poll timeout from the nearest timer deadline.
func (l *Loop) nextTimeout() time.Duration {
	if l.timers.Empty() {
		return -1
	}
	next := l.timers.Peek().(*Timer)
	if d := time.Until(next.when); d > 0 {
		return d
	}
	return 0
}

// runTasks drains one snapshot of the task queue. Tasks scheduled by tasks
// run on the next iteration; the CallSoon wakeup guarantees it happens
// promptly.
func (l *Loop) runTasks() {
	n := l.tasks.Len()
	if n == 0 {
		return
	}
	items, err := l.tasks.Get(n)
	if err != nil {
		return
	}
	for _, it := range items {
		l.metrics.Inc("loop.tasks")
		it.(func())()
	}
}

// fireTimers runs every timer whose deadline has passed, skipping
// cancelled ones.
func (l *Loop) fireTimers() {
	now := time.Now()
	for !l.timers.Empty() {
		next := l.timers.Peek().(*Timer)
		if next.when.After(now) {
			return
		}
		items, err := l.timers.Get(1)
		if err != nil || len(items) == 0 {
			return
		}
		t := items[0].(*Timer)
		if t.cancelled.Load() {
			continue
		}
		l.metrics.Inc("loop.timers")
		t.fn()
	}
}
