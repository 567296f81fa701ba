// File: sock/sendq.go
// Author: momentics <momentics@gmail.com>
//
// Pending-write queue: send requests that cannot complete synchronously are
// queued in submission order and drained on write readiness. The head entry
// is peeked, not popped, so a would-block retry never reorders the queue.

package sock

import (
	"github.com/momentics/msgloop/api"
	"github.com/momentics/msgloop/future"
)

type pendingWrite struct {
	fut     *future.Future[int]
	payload []byte
	flags   api.Flag
	opts    api.Options
}

// Send sends one message with default transport hints.
func (s *Socket) Send(p []byte, flags api.Flag) *future.Future[int] {
	return s.SendWith(p, flags, api.DefaultOptions())
}

// SendWith sends one message. An empty payload is a no-op success.
//
// When nothing is queued the underlying send is attempted inline; a caller
// FlagDontWait is honored verbatim on that fast path, letting would-block
// surface. Otherwise the attempt is forced non-blocking and a would-block
// result arms write readiness and queues the request. Queued requests
// complete on the wire strictly in submission order.
func (s *Socket) SendWith(p []byte, flags api.Flag, opts api.Options) *future.Future[int] {
	fut := future.New[int]()
	if s.closed {
		fut.Fail(api.ErrSocketClosed)
		return fut
	}
	if len(p) == 0 {
		fut.Fulfill(0)
		return fut
	}

	// Fast path. Skipped while write readiness is armed: that means a drain
	// is either pending or running, and attempting inline would overtake the
	// queued entries.
	if s.pending.Length() == 0 && !s.bridge.writeArmed {
		if flags&api.FlagDontWait != 0 {
			n, err := s.ms.TrySend(p, flags, opts)
			if err != nil {
				fut.Fail(err)
			} else {
				fut.Fulfill(n)
			}
			return fut
		}

		flags |= api.FlagDontWait

		n, err := s.ms.TrySend(p, flags, opts)
		if err == nil {
			fut.Fulfill(n)
			return fut
		}
		if !api.IsWouldBlock(err) {
			fut.Fail(err)
			return fut
		}

		s.stats.SendWouldBlock++
		if aerr := s.bridge.armWrite(s.drainPending); aerr != nil {
			fut.Fail(aerr)
			return fut
		}
	}

	s.pending.Add(&pendingWrite{fut: fut, payload: p, flags: flags, opts: opts})
	s.stats.SendsQueued++
	return fut
}

// drainPending runs on the loop thread when the descriptor reports writable.
// One firing completes as many queued entries as the transport will take,
// stopping at the first would-block or transport failure.
func (s *Socket) drainPending() {
	for !s.closed && s.pending.Length() > 0 {
		entry := s.pending.Peek().(*pendingWrite)

		if entry.fut.Cancelled() {
			s.pending.Remove()
			continue
		}

		n, err := s.ms.TrySend(entry.payload, entry.flags|api.FlagDontWait, entry.opts)
		if err == nil {
			s.pending.Remove()
			s.stats.SendsDrained++
			entry.fut.Fulfill(n)
			continue
		}
		if api.IsWouldBlock(err) {
			// head entry stays put; registration stays armed for the next firing
			s.stats.SendWouldBlock++
			return
		}

		// fail this entry alone; siblings get their own attempts later
		s.pending.Remove()
		entry.fut.Fail(err)
		return
	}

	if !s.closed {
		s.bridge.disarmWrite()
	}
}
