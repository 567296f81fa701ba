// File: sock/socket.go
// Author: momentics <momentics@gmail.com>
//
// Socket adapter aggregate: owns the transport endpoint, shares the loop,
// and carries the pending-write queue and readiness registrations.

package sock

import (
	"errors"

	"github.com/eapache/queue"

	"github.com/momentics/msgloop/api"
	"github.com/momentics/msgloop/future"
)

// Stats are per-socket counters. Mutated on the loop thread only; Stats()
// returns a copy, safe to read anywhere.
type Stats struct {
	RecvWouldBlock uint64 // receive attempts deferred on would-block
	RecvRetries    uint64 // readiness-driven receive retries
	SendWouldBlock uint64 // send attempts that hit would-block
	SendsQueued    uint64 // send requests that entered the pending queue
	SendsDrained   uint64 // queued sends completed by readiness drains
}

// Socket drives one api.MessageSocket through one api.EventLoop.
// The underlying socket is exclusively owned; the loop is shared and the
// adapter never mutates it beyond registering callbacks for its own
// descriptor. Not safe for use from multiple threads: every method except
// the constructor must run on the loop thread.
type Socket struct {
	loop    api.EventLoop
	ms      api.MessageSocket
	bridge  readinessBridge
	pending *queue.Queue // FIFO of *pendingWrite

	// armed receive, nil when none outstanding
	recv *future.Future[[]byte]

	closed bool
	stats  Stats
}

// New binds a message socket to an event loop. The wait descriptor is
// derived once and never changes for the life of the adapter.
func New(loop api.EventLoop, ms api.MessageSocket) (*Socket, error) {
	if loop == nil {
		return nil, errors.New("sock: nil event loop")
	}
	if ms == nil {
		return nil, errors.New("sock: nil message socket")
	}
	return &Socket{
		loop:    loop,
		ms:      ms,
		bridge:  readinessBridge{loop: loop, fd: ms.WaitFD()},
		pending: queue.New(),
	}, nil
}

// WaitFD returns the descriptor the adapter polls for readiness.
func (s *Socket) WaitFD() uintptr {
	return s.bridge.fd
}

// Stats returns a snapshot of the adapter counters.
func (s *Socket) Stats() Stats {
	return s.stats
}

// SetOption forwards a configuration change to the underlying transport.
// Returns api.ErrNotSupported when the transport is not configurable.
func (s *Socket) SetOption(name string, value any) error {
	if s.closed {
		return api.ErrSocketClosed
	}
	if cs, ok := s.ms.(api.ConfigurableSocket); ok {
		return cs.SetOption(name, value)
	}
	return api.ErrNotSupported
}

// Option reads a configuration value from the underlying transport.
func (s *Socket) Option(name string) (any, error) {
	if s.closed {
		return nil, api.ErrSocketClosed
	}
	if cs, ok := s.ms.(api.ConfigurableSocket); ok {
		return cs.Option(name)
	}
	return nil, api.ErrNotSupported
}

// Close releases both readiness registrations, settles every outstanding
// completion handle with api.ErrSocketClosed and closes the underlying
// socket. Idempotent.
func (s *Socket) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	s.bridge.disarmRead()
	s.bridge.disarmWrite()

	if r := s.recv; r != nil {
		s.recv = nil
		if r.State() == future.Pending {
			r.Fail(api.ErrSocketClosed)
		}
	}
	for s.pending.Length() > 0 {
		entry := s.pending.Remove().(*pendingWrite)
		if entry.fut.State() == future.Pending {
			entry.fut.Fail(api.ErrSocketClosed)
		}
	}

	return s.ms.Close()
}
