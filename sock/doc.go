// File: sock/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package sock adapts a non-blocking, message-oriented socket to a
// single-threaded event loop. A Socket owns its underlying transport
// endpoint, shares an api.EventLoop, and turns the transport's would-block
// signal into deferred, resumable operations: receives arm a read-readiness
// callback and retry, sends queue in strict FIFO order and drain on write
// readiness. Results are delivered through future.Future completion handles.
//
// All Socket methods except the constructor must run on the loop thread.
// The adapter holds no locks; correctness follows from the loop never
// running two callbacks concurrently.
package sock
