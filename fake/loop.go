// File: fake/loop.go
// Author: momentics <momentics@gmail.com>
//
// Fake implementations for testing and development.
// Loop is a fake api.EventLoop: registrations are recorded, never polled;
// tests fire readiness by hand.

package fake

import (
	"fmt"
	"sync"
)

// Loop records readiness registrations and lets tests trigger callbacks
// with FireRead and FireWrite.
type Loop struct {
	mu        sync.Mutex
	readCBs   map[uintptr]func()
	writeCBs  map[uintptr]func()
	readRegs  int
	writeRegs int
	regErr    error
}

// NewLoop creates a fake loop with no registrations.
func NewLoop() *Loop {
	return &Loop{
		readCBs:  make(map[uintptr]func()),
		writeCBs: make(map[uintptr]func()),
	}
}

// RegisterRead implements api.EventLoop.
func (l *Loop) RegisterRead(fd uintptr, cb func()) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.regErr != nil {
		return l.regErr
	}
	if _, dup := l.readCBs[fd]; dup {
		return fmt.Errorf("fake: read callback already registered for fd %d", fd)
	}
	l.readCBs[fd] = cb
	l.readRegs++
	return nil
}

// RegisterWrite implements api.EventLoop.
func (l *Loop) RegisterWrite(fd uintptr, cb func()) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.regErr != nil {
		return l.regErr
	}
	if _, dup := l.writeCBs[fd]; dup {
		return fmt.Errorf("fake: write callback already registered for fd %d", fd)
	}
	l.writeCBs[fd] = cb
	l.writeRegs++
	return nil
}

// UnregisterRead implements api.EventLoop.
func (l *Loop) UnregisterRead(fd uintptr) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.readCBs, fd)
	return nil
}

// UnregisterWrite implements api.EventLoop.
func (l *Loop) UnregisterWrite(fd uintptr) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.writeCBs, fd)
	return nil
}

// FireRead invokes the read callback armed for fd, simulating readiness.
// Reports whether a callback was armed. The callback runs without the loop
// lock held, so it may re-register.
func (l *Loop) FireRead(fd uintptr) bool {
	l.mu.Lock()
	cb := l.readCBs[fd]
	l.mu.Unlock()
	if cb == nil {
		return false
	}
	cb()
	return true
}

// FireWrite invokes the write callback armed for fd.
func (l *Loop) FireWrite(fd uintptr) bool {
	l.mu.Lock()
	cb := l.writeCBs[fd]
	l.mu.Unlock()
	if cb == nil {
		return false
	}
	cb()
	return true
}

// ReadArmed reports whether a read callback is currently registered for fd.
func (l *Loop) ReadArmed(fd uintptr) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readCBs[fd] != nil
}

// WriteArmed reports whether a write callback is currently registered for fd.
func (l *Loop) WriteArmed(fd uintptr) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.writeCBs[fd] != nil
}

// ReadRegistrations returns the cumulative RegisterRead call count.
func (l *Loop) ReadRegistrations() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readRegs
}

// WriteRegistrations returns the cumulative RegisterWrite call count.
func (l *Loop) WriteRegistrations() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.writeRegs
}

// SetRegisterError configures Register calls to fail with err.
func (l *Loop) SetRegisterError(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.regErr = err
}
