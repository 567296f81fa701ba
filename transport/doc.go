// File: transport/doc.go
// Package transport
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// In-process message transport for msgloop. A Pair is two connected
// endpoints over an AF_UNIX SOCK_SEQPACKET socketpair: non-blocking,
// message-boundary preserving, reporting api.ErrWouldBlock on EAGAIN.
// Linux only; other platforms get a stub.

package transport
