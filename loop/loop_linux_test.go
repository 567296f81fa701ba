//go:build linux
// +build linux

// File: loop/loop_linux_test.go
// Author: momentics <momentics@gmail.com>
//
// Loop behavior tests over the epoll backend.

package loop_test

import (
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/momentics/msgloop/loop"
)

func newLoop(t *testing.T) *loop.Loop {
	t.Helper()
	lp, err := loop.New()
	if err != nil {
		t.Fatalf("loop.New() error: %v", err)
	}
	return lp
}

func testSocketpair(t *testing.T) (int, int) {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX,
		unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		t.Fatalf("socketpair: %v", err)
	}
	t.Cleanup(func() {
		_ = unix.Close(fds[0])
		_ = unix.Close(fds[1])
	})
	return fds[0], fds[1]
}

func TestCallSoonRunsOnLoop(t *testing.T) {
	lp := newLoop(t)
	ran := make(chan struct{})

	if err := lp.CallSoon(func() {
		close(ran)
		lp.Stop()
	}); err != nil {
		t.Fatalf("CallSoon() error: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- lp.Run() }()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("task never ran")
	}
	if err := <-done; err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if err := lp.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func TestCallLaterOrderAndCancel(t *testing.T) {
	lp := newLoop(t)
	fired := make(chan string, 4)

	if err := lp.CallSoon(func() {
		if _, err := lp.CallLater(60*time.Millisecond, func() { fired <- "late" }); err != nil {
			t.Errorf("CallLater: %v", err)
		}
		if _, err := lp.CallLater(20*time.Millisecond, func() { fired <- "early" }); err != nil {
			t.Errorf("CallLater: %v", err)
		}
		tc, err := lp.CallLater(40*time.Millisecond, func() { fired <- "cancelled" })
		if err != nil {
			t.Errorf("CallLater: %v", err)
		} else {
			tc.Cancel()
		}
		if _, err := lp.CallLater(120*time.Millisecond, lp.Stop); err != nil {
			t.Errorf("CallLater: %v", err)
		}
	}); err != nil {
		t.Fatalf("CallSoon() error: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- lp.Run() }()
	if err := <-done; err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	close(fired)
	var got []string
	for s := range fired {
		got = append(got, s)
	}
	want := []string{"early", "late"}
	if len(got) != len(want) {
		t.Fatalf("fired = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("fired[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	_ = lp.Close()
}

func TestReadinessDispatch(t *testing.T) {
	lp := newLoop(t)
	rfd, wfd := testSocketpair(t)

	readable := make(chan struct{})
	if err := lp.CallSoon(func() {
		err := lp.RegisterRead(uintptr(rfd), func() {
			if uerr := lp.UnregisterRead(uintptr(rfd)); uerr != nil {
				t.Errorf("UnregisterRead: %v", uerr)
			}
			close(readable)
			lp.Stop()
		})
		if err != nil {
			t.Errorf("RegisterRead: %v", err)
			lp.Stop()
		}
	}); err != nil {
		t.Fatalf("CallSoon() error: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- lp.Run() }()

	if _, err := unix.Write(wfd, []byte("x")); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case <-readable:
	case <-time.After(2 * time.Second):
		t.Fatal("read callback never fired")
	}
	if err := <-done; err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	_ = lp.Close()
}

func TestWriteReadinessDispatch(t *testing.T) {
	lp := newLoop(t)
	fd, _ := testSocketpair(t)

	writable := make(chan struct{})
	if err := lp.CallSoon(func() {
		// an idle stream socket is immediately writable
		err := lp.RegisterWrite(uintptr(fd), func() {
			if uerr := lp.UnregisterWrite(uintptr(fd)); uerr != nil {
				t.Errorf("UnregisterWrite: %v", uerr)
			}
			close(writable)
			lp.Stop()
		})
		if err != nil {
			t.Errorf("RegisterWrite: %v", err)
			lp.Stop()
		}
	}); err != nil {
		t.Fatalf("CallSoon() error: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- lp.Run() }()

	select {
	case <-writable:
	case <-time.After(2 * time.Second):
		t.Fatal("write callback never fired")
	}
	if err := <-done; err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	_ = lp.Close()
}

func TestRegisterDuplicateRejected(t *testing.T) {
	lp := newLoop(t)
	fd, _ := testSocketpair(t)

	cb := func() {}
	if err := lp.RegisterRead(uintptr(fd), cb); err != nil {
		t.Fatalf("RegisterRead: %v", err)
	}
	if err := lp.RegisterRead(uintptr(fd), cb); err == nil {
		t.Error("duplicate RegisterRead did not fail")
	}
	if err := lp.UnregisterRead(uintptr(fd)); err != nil {
		t.Fatalf("UnregisterRead: %v", err)
	}
	// unregistering an absent callback is a no-op
	if err := lp.UnregisterRead(uintptr(fd)); err != nil {
		t.Errorf("idempotent UnregisterRead error: %v", err)
	}
	if err := lp.RegisterRead(uintptr(fd), cb); err != nil {
		t.Errorf("re-register after unregister: %v", err)
	}
	_ = lp.UnregisterRead(uintptr(fd))
	_ = lp.Close()
}

func TestMetricsAccumulate(t *testing.T) {
	lp := newLoop(t)
	if err := lp.CallSoon(lp.Stop); err != nil {
		t.Fatalf("CallSoon() error: %v", err)
	}
	if err := lp.Run(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	m := lp.Metrics()
	if got := m.Get("loop.polls"); got == 0 {
		t.Error("loop.polls = 0, want > 0")
	}
	if got := m.Get("loop.tasks"); got != 1 {
		t.Errorf("loop.tasks = %d, want 1", got)
	}
	_ = lp.Close()
}

func TestStopBeforeRun(t *testing.T) {
	lp := newLoop(t)
	lp.Stop()

	done := make(chan error, 1)
	go func() { done <- lp.Run() }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
	_ = lp.Close()
}
