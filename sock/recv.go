// File: sock/recv.go
// Author: momentics <momentics@gmail.com>
//
// Receive operation: one immediate non-blocking attempt, then a read-
// readiness callback retrying until the message arrives, the transport
// fails, or the handle is cancelled.

package sock

import (
	"github.com/momentics/msgloop/api"
	"github.com/momentics/msgloop/future"
)

// Recv receives one message with default transport hints.
func (s *Socket) Recv(flags api.Flag) *future.Future[[]byte] {
	return s.RecvWith(flags, api.DefaultOptions())
}

// RecvWith receives one message.
//
// With FlagDontWait set by the caller the underlying receive is attempted
// exactly once and its outcome, would-block included, settles the future
// immediately; no readiness registration happens. Otherwise the attempt is
// forced non-blocking and a would-block result suspends the operation until
// the loop reports the descriptor readable.
func (s *Socket) RecvWith(flags api.Flag, opts api.Options) *future.Future[[]byte] {
	fut := future.New[[]byte]()
	if s.closed {
		fut.Fail(api.ErrSocketClosed)
		return fut
	}

	if flags&api.FlagDontWait != 0 {
		data, err := s.ms.TryRecv(flags, opts)
		if err != nil {
			fut.Fail(err)
		} else {
			fut.Fulfill(data)
		}
		return fut
	}

	// one logical reader per adapter
	if s.recv != nil {
		fut.Fail(api.ErrRecvBusy)
		return fut
	}

	// a blocking underlying call must never run on the loop thread
	flags |= api.FlagDontWait

	data, err := s.ms.TryRecv(flags, opts)
	if err == nil {
		fut.Fulfill(data)
		return fut
	}
	if !api.IsWouldBlock(err) {
		fut.Fail(err)
		return fut
	}

	s.stats.RecvWouldBlock++
	s.recv = fut
	if aerr := s.bridge.armRead(func() { s.recvReady(fut, flags, opts) }); aerr != nil {
		s.recv = nil
		fut.Fail(aerr)
	}
	return fut
}

// recvReady runs on the loop thread when the descriptor reports readable.
// Readiness may be spurious; a would-block outcome re-arms and waits again.
func (s *Socket) recvReady(fut *future.Future[[]byte], flags api.Flag, opts api.Options) {
	s.bridge.disarmRead()

	if fut.Cancelled() {
		s.recv = nil
		return
	}

	s.stats.RecvRetries++
	data, err := s.ms.TryRecv(flags, opts)
	switch {
	case err == nil:
		s.recv = nil
		fut.Fulfill(data)
	case api.IsWouldBlock(err):
		s.stats.RecvWouldBlock++
		if aerr := s.bridge.armRead(func() { s.recvReady(fut, flags, opts) }); aerr != nil {
			s.recv = nil
			fut.Fail(aerr)
		}
	default:
		s.recv = nil
		fut.Fail(err)
	}
}
