// File: transport/options.go
// Author: momentics <momentics@gmail.com>
//
// Option names accepted by Conn.SetOption and Conn.Option.

package transport

const (
	// OptMaxMessageSize bounds a single message, send and receive (int).
	OptMaxMessageSize = "maxmsgsize"

	// OptSendBuffer is the kernel send buffer size, SO_SNDBUF (int).
	OptSendBuffer = "sndbuf"

	// OptRecvBuffer is the kernel receive buffer size, SO_RCVBUF (int).
	OptRecvBuffer = "rcvbuf"
)
