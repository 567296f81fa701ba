//go:build !linux
// +build !linux

// File: transport/pair_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub for unsupported platforms.

package transport

import (
	"errors"

	"github.com/momentics/msgloop/api"
)

// Conn is unavailable on this platform.
type Conn struct{}

// Pair returns an error on unsupported platforms.
func Pair() (*Conn, *Conn, error) {
	return nil, nil, errors.New("transport: this platform is not supported")
}

// TryRecv implements api.MessageSocket.
func (c *Conn) TryRecv(_ api.Flag, _ api.Options) ([]byte, error) {
	return nil, api.ErrNotSupported
}

// TrySend implements api.MessageSocket.
func (c *Conn) TrySend(_ []byte, _ api.Flag, _ api.Options) (int, error) {
	return 0, api.ErrNotSupported
}

// WaitFD implements api.MessageSocket.
func (c *Conn) WaitFD() uintptr { return 0 }

// Close implements api.MessageSocket.
func (c *Conn) Close() error { return nil }
