// File: sock/bridge.go
// Author: momentics <momentics@gmail.com>
//
// Thin façade over the loop's readiness registration, keyed by the socket's
// wait descriptor. Keeps at most one registration per direction alive and
// makes disarm idempotent.

package sock

import (
	"fmt"

	"github.com/momentics/msgloop/api"
)

type readinessBridge struct {
	loop       api.EventLoop
	fd         uintptr
	readArmed  bool
	writeArmed bool
}

func (b *readinessBridge) armRead(cb func()) error {
	if b.readArmed {
		return fmt.Errorf("sock: read readiness already armed for fd %d", b.fd)
	}
	if err := b.loop.RegisterRead(b.fd, cb); err != nil {
		return err
	}
	b.readArmed = true
	return nil
}

func (b *readinessBridge) disarmRead() {
	if !b.readArmed {
		return
	}
	b.readArmed = false
	_ = b.loop.UnregisterRead(b.fd)
}

func (b *readinessBridge) armWrite(cb func()) error {
	if b.writeArmed {
		return fmt.Errorf("sock: write readiness already armed for fd %d", b.fd)
	}
	if err := b.loop.RegisterWrite(b.fd, cb); err != nil {
		return err
	}
	b.writeArmed = true
	return nil
}

func (b *readinessBridge) disarmWrite() {
	if !b.writeArmed {
		return
	}
	b.writeArmed = false
	_ = b.loop.UnregisterWrite(b.fd)
}
