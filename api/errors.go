// File: api/errors.go
// Author: momentics <momentics@gmail.com>
//
// Common error values used across the library.

package api

import "errors"

var (
	// ErrWouldBlock is the transient signal a non-blocking operation returns
	// when it cannot complete right now. Never surfaced to callers on
	// suspendable paths; the adapter re-arms readiness and retries instead.
	ErrWouldBlock = errors.New("operation would block")

	// ErrSocketClosed terminates every operation outstanding when a socket
	// is closed, and every operation issued afterwards.
	ErrSocketClosed = errors.New("socket is closed")

	// ErrCancelled is the terminal error of a cancelled completion handle.
	ErrCancelled = errors.New("operation cancelled")

	// ErrRecvBusy rejects a receive issued while another receive on the
	// same socket is still waiting for readiness.
	ErrRecvBusy = errors.New("receive already in progress")

	// ErrNotSupported rejects configuration the transport does not expose.
	ErrNotSupported = errors.New("operation not supported")
)

// IsWouldBlock reports whether err carries the transient would-block signal.
func IsWouldBlock(err error) bool {
	return errors.Is(err, ErrWouldBlock)
}
