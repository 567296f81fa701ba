//go:build linux
// +build linux

// File: transport/pair_linux_test.go
// Author: momentics <momentics@gmail.com>
//
// Socketpair transport tests: boundaries, readiness errors, options.

package transport_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/momentics/msgloop/api"
	"github.com/momentics/msgloop/transport"
)

func newPair(t *testing.T) (*transport.Conn, *transport.Conn) {
	t.Helper()
	a, b, err := transport.Pair()
	if err != nil {
		t.Fatalf("Pair() error: %v", err)
	}
	t.Cleanup(func() {
		_ = a.Close()
		_ = b.Close()
	})
	return a, b
}

func TestPairRoundTrip(t *testing.T) {
	a, b := newPair(t)

	msg := []byte("hello")
	n, err := a.TrySend(msg, 0, api.DefaultOptions())
	if err != nil {
		t.Fatalf("TrySend() error: %v", err)
	}
	if n != len(msg) {
		t.Errorf("TrySend() = %d, want %d", n, len(msg))
	}

	got, err := b.TryRecv(0, api.DefaultOptions())
	if err != nil {
		t.Fatalf("TryRecv() error: %v", err)
	}
	if !bytes.Equal(got, msg) {
		t.Errorf("TryRecv() = %q, want %q", got, msg)
	}
}

func TestMessageBoundariesPreserved(t *testing.T) {
	a, b := newPair(t)

	for _, m := range []string{"first", "second", "third"} {
		if _, err := a.TrySend([]byte(m), 0, api.DefaultOptions()); err != nil {
			t.Fatalf("TrySend(%q) error: %v", m, err)
		}
	}
	for _, want := range []string{"first", "second", "third"} {
		got, err := b.TryRecv(0, api.DefaultOptions())
		if err != nil {
			t.Fatalf("TryRecv() error: %v", err)
		}
		if string(got) != want {
			t.Errorf("TryRecv() = %q, want %q", got, want)
		}
	}
}

func TestRecvEmptyWouldBlock(t *testing.T) {
	_, b := newPair(t)

	if _, err := b.TryRecv(0, api.DefaultOptions()); !api.IsWouldBlock(err) {
		t.Errorf("TryRecv() err = %v, want would-block", err)
	}
}

func TestSendFillsKernelBuffer(t *testing.T) {
	a, _ := newPair(t)

	if err := a.SetOption(transport.OptSendBuffer, 4096); err != nil {
		t.Fatalf("SetOption(sndbuf) error: %v", err)
	}

	msg := make([]byte, 2048)
	blocked := false
	for i := 0; i < 1024; i++ {
		if _, err := a.TrySend(msg, 0, api.DefaultOptions()); err != nil {
			if !api.IsWouldBlock(err) {
				t.Fatalf("TrySend() error: %v", err)
			}
			blocked = true
			break
		}
	}
	if !blocked {
		t.Fatal("TrySend never reported would-block on a full buffer")
	}
}

func TestRecvPeerClosed(t *testing.T) {
	a, b := newPair(t)

	if err := a.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if _, err := b.TryRecv(0, api.DefaultOptions()); !errors.Is(err, io.EOF) {
		t.Errorf("TryRecv() err = %v, want %v", err, io.EOF)
	}
}

func TestOversizeMessageRejected(t *testing.T) {
	a, _ := newPair(t)

	if err := a.SetOption(transport.OptMaxMessageSize, 16); err != nil {
		t.Fatalf("SetOption(maxmsgsize) error: %v", err)
	}
	_, err := a.TrySend(make([]byte, 17), 0, api.DefaultOptions())
	if err == nil {
		t.Fatal("oversize TrySend did not fail")
	}
	if api.IsWouldBlock(err) {
		t.Errorf("oversize TrySend err = %v, want a hard error", err)
	}
}

func TestOptionRoundTrip(t *testing.T) {
	a, _ := newPair(t)

	if err := a.SetOption(transport.OptMaxMessageSize, 4096); err != nil {
		t.Fatalf("SetOption() error: %v", err)
	}
	v, err := a.Option(transport.OptMaxMessageSize)
	if err != nil {
		t.Fatalf("Option() error: %v", err)
	}
	if v != 4096 {
		t.Errorf("Option(maxmsgsize) = %v, want 4096", v)
	}

	// the kernel adjusts buffer sizes, so only check that a value comes back
	if err := a.SetOption(transport.OptSendBuffer, 8192); err != nil {
		t.Fatalf("SetOption(sndbuf) error: %v", err)
	}
	bv, err := a.Option(transport.OptSendBuffer)
	if err != nil {
		t.Fatalf("Option(sndbuf) error: %v", err)
	}
	if n, ok := bv.(int); !ok || n <= 0 {
		t.Errorf("Option(sndbuf) = %v, want a positive int", bv)
	}

	if err := a.SetOption("bogus", 1); !errors.Is(err, api.ErrNotSupported) {
		t.Errorf("SetOption(bogus) err = %v, want %v", err, api.ErrNotSupported)
	}
	if err := a.SetOption(transport.OptMaxMessageSize, -1); err == nil {
		t.Error("SetOption(maxmsgsize, -1) did not fail")
	}
}

func TestCloseIdempotentAndTerminal(t *testing.T) {
	a, _ := newPair(t)

	if err := a.Close(); err != nil {
		t.Fatalf("first Close() error: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}
	if _, err := a.TryRecv(0, api.DefaultOptions()); !errors.Is(err, api.ErrSocketClosed) {
		t.Errorf("TryRecv after Close err = %v, want %v", err, api.ErrSocketClosed)
	}
	if _, err := a.TrySend([]byte("x"), 0, api.DefaultOptions()); !errors.Is(err, api.ErrSocketClosed) {
		t.Errorf("TrySend after Close err = %v, want %v", err, api.ErrSocketClosed)
	}
	if err := a.SetOption(transport.OptMaxMessageSize, 1024); !errors.Is(err, api.ErrSocketClosed) {
		t.Errorf("SetOption after Close err = %v, want %v", err, api.ErrSocketClosed)
	}
}
