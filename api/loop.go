// File: api/loop.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Readiness contract between the event loop and anything that waits on a
// file descriptor.

package api

// EventLoop is the readiness surface a socket adapter needs from an event
// loop. Registrations are persistent: a registered callback fires on every
// readiness event for its descriptor and direction until unregistered. At
// most one callback may be registered per descriptor per direction.
//
// Unless an implementation states otherwise, all methods must be called
// from the loop goroutine.
type EventLoop interface {
	// RegisterRead arms cb for read readiness of fd. Registering a second
	// read callback for the same descriptor is an error.
	RegisterRead(fd uintptr, cb func()) error

	// RegisterWrite arms cb for write readiness of fd. Registering a second
	// write callback for the same descriptor is an error.
	RegisterWrite(fd uintptr, cb func()) error

	// UnregisterRead removes the read callback for fd. Removing a callback
	// that was never registered is a no-op.
	UnregisterRead(fd uintptr) error

	// UnregisterWrite removes the write callback for fd. Removing a
	// callback that was never registered is a no-op.
	UnregisterWrite(fd uintptr) error
}
