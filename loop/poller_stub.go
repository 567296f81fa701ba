//go:build !linux
// +build !linux

// File: loop/poller_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub for unsupported platforms.

package loop

import "errors"

func newPoller() (poller, error) {
	return nil, errors.New("loop: this platform is not supported")
}
