//go:build linux
// +build linux

// File: transport/pair_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Connected message-socket pair over AF_UNIX SOCK_SEQPACKET.

package transport

import (
	"fmt"
	"io"

	"github.com/valyala/bytebufferpool"
	"golang.org/x/sys/unix"

	"github.com/momentics/msgloop/api"
)

const defaultMaxMessage = 64 * 1024

// Conn is one endpoint of a connected, non-blocking, message-preserving
// socket pair. Implements api.MessageSocket and api.ConfigurableSocket.
// Like the adapter that drives it, a Conn belongs to one loop thread.
type Conn struct {
	fd     int
	maxMsg int
	closed bool
}

// Pair returns two connected message sockets. Message boundaries are
// preserved end to end by SOCK_SEQPACKET.
func Pair() (*Conn, *Conn, error) {
	fds, err := unix.Socketpair(unix.AF_UNIX,
		unix.SOCK_SEQPACKET|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("socketpair: %w", err)
	}
	a := &Conn{fd: fds[0], maxMsg: defaultMaxMessage}
	b := &Conn{fd: fds[1], maxMsg: defaultMaxMessage}
	return a, b, nil
}

// TryRecv implements api.MessageSocket. The scratch buffer comes from a
// shared pool; the returned payload is an exact-size copy the caller owns.
func (c *Conn) TryRecv(_ api.Flag, _ api.Options) ([]byte, error) {
	if c.closed {
		return nil, api.ErrSocketClosed
	}

	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)
	if cap(bb.B) < c.maxMsg {
		bb.B = make([]byte, c.maxMsg)
	} else {
		bb.B = bb.B[:c.maxMsg]
	}

	n, _, err := unix.Recvfrom(c.fd, bb.B, unix.MSG_DONTWAIT)
	if err != nil {
		if err == unix.EAGAIN {
			return nil, api.ErrWouldBlock
		}
		return nil, fmt.Errorf("recv: %w", err)
	}
	if n == 0 {
		// SEQPACKET read of zero means the peer closed
		return nil, io.EOF
	}

	out := make([]byte, n)
	copy(out, bb.B[:n])
	return out, nil
}

// TrySend implements api.MessageSocket. SEQPACKET accepts the whole message
// or nothing, so the reported count is always len(p) on success.
func (c *Conn) TrySend(p []byte, _ api.Flag, _ api.Options) (int, error) {
	if c.closed {
		return 0, api.ErrSocketClosed
	}
	if len(p) > c.maxMsg {
		return 0, fmt.Errorf("send: message of %d bytes exceeds limit of %d", len(p), c.maxMsg)
	}

	err := unix.Sendto(c.fd, p, unix.MSG_DONTWAIT|unix.MSG_NOSIGNAL, nil)
	if err != nil {
		if err == unix.EAGAIN || err == unix.ENOBUFS {
			return 0, api.ErrWouldBlock
		}
		return 0, fmt.Errorf("send: %w", err)
	}
	return len(p), nil
}

// WaitFD implements api.MessageSocket.
func (c *Conn) WaitFD() uintptr {
	return uintptr(c.fd)
}

// Close implements api.MessageSocket. Idempotent.
func (c *Conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return unix.Close(c.fd)
}

// SetOption implements api.ConfigurableSocket.
func (c *Conn) SetOption(name string, value any) error {
	if c.closed {
		return api.ErrSocketClosed
	}
	v, ok := value.(int)
	if !ok || v <= 0 {
		return fmt.Errorf("transport: option %q wants a positive int", name)
	}
	switch name {
	case OptMaxMessageSize:
		c.maxMsg = v
		return nil
	case OptSendBuffer:
		return unix.SetsockoptInt(c.fd, unix.SOL_SOCKET, unix.SO_SNDBUF, v)
	case OptRecvBuffer:
		return unix.SetsockoptInt(c.fd, unix.SOL_SOCKET, unix.SO_RCVBUF, v)
	default:
		return api.ErrNotSupported
	}
}

// Option implements api.ConfigurableSocket.
func (c *Conn) Option(name string) (any, error) {
	if c.closed {
		return nil, api.ErrSocketClosed
	}
	switch name {
	case OptMaxMessageSize:
		return c.maxMsg, nil
	case OptSendBuffer:
		return unix.GetsockoptInt(c.fd, unix.SOL_SOCKET, unix.SO_SNDBUF)
	case OptRecvBuffer:
		return unix.GetsockoptInt(c.fd, unix.SOL_SOCKET, unix.SO_RCVBUF)
	default:
		return nil, api.ErrNotSupported
	}
}
