// File: api/socket.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Non-blocking message socket contract. Transports implement this; the
// adapter in sock drives it through loop readiness.

package api

// Flag modifies a single send or receive attempt.
type Flag int

const (
	// FlagDontWait makes the operation attempt once and report would-block
	// instead of suspending.
	FlagDontWait Flag = 1 << iota

	// FlagMore marks the message as part of a multi-part sequence.
	FlagMore
)

// Options carries per-operation knobs that are not flags.
type Options struct {
	// Copy asks the transport to hand out payloads the caller owns.
	Copy bool

	// Track asks the transport to report delivery events where supported.
	Track bool
}

// DefaultOptions returns the options used when a caller passes none.
func DefaultOptions() Options {
	return Options{Copy: true}
}

// MessageSocket is a non-blocking socket with message boundaries. Every
// attempt either completes immediately or returns ErrWouldBlock; nothing
// here ever suspends the caller.
type MessageSocket interface {
	// TryRecv attempts to receive one complete message.
	TryRecv(flags Flag, opts Options) ([]byte, error)

	// TrySend attempts to send one complete message and reports how many
	// bytes the transport accepted.
	TrySend(p []byte, flags Flag, opts Options) (int, error)

	// WaitFD returns the descriptor the event loop should watch for
	// readiness of this socket. Stable for the socket's lifetime.
	WaitFD() uintptr

	// Close releases the socket. Idempotent.
	Close() error
}

// ConfigurableSocket is the optional configuration surface of a transport.
// Adapters probe for it with a type assertion and report ErrNotSupported
// when the transport does not implement it.
type ConfigurableSocket interface {
	// SetOption assigns a named transport option.
	SetOption(name string, value any) error

	// Option reads a named transport option back.
	Option(name string) (any, error)
}
