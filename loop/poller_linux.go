//go:build linux
// +build linux

// File: loop/poller_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux epoll(7) poller with an eventfd wakeup channel.

package loop

import (
	"encoding/binary"
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

type epollPoller struct {
	epfd     int
	wakefd   int
	interest map[uintptr]uint32 // current epoll event mask per fd
}

func newPoller() (poller, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll create: %w", err)
	}
	wakefd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		_ = unix.Close(epfd)
		return nil, fmt.Errorf("eventfd: %w", err)
	}
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(wakefd)}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, wakefd, &ev); err != nil {
		_ = unix.Close(wakefd)
		_ = unix.Close(epfd)
		return nil, fmt.Errorf("epoll ctl add wake: %w", err)
	}
	return &epollPoller{
		epfd:     epfd,
		wakefd:   wakefd,
		interest: make(map[uintptr]uint32),
	}, nil
}

func (p *epollPoller) modify(fd uintptr, read, write bool) error {
	var mask uint32
	if read {
		mask |= unix.EPOLLIN
	}
	if write {
		mask |= unix.EPOLLOUT
	}

	prev, known := p.interest[fd]
	switch {
	case mask == 0 && !known:
		return nil
	case mask == 0:
		delete(p.interest, fd)
		if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, int(fd), nil); err != nil {
			return fmt.Errorf("epoll ctl del: %w", err)
		}
		return nil
	case !known:
		ev := unix.EpollEvent{Events: mask, Fd: int32(fd)}
		if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, int(fd), &ev); err != nil {
			return fmt.Errorf("epoll ctl add: %w", err)
		}
	case prev != mask:
		ev := unix.EpollEvent{Events: mask, Fd: int32(fd)}
		if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_MOD, int(fd), &ev); err != nil {
			return fmt.Errorf("epoll ctl mod: %w", err)
		}
	}
	p.interest[fd] = mask
	return nil
}

func (p *epollPoller) wait(events []event, timeout time.Duration) (int, error) {
	ms := -1
	if timeout >= 0 {
		ms = int(timeout / time.Millisecond)
		// never spin a sub-millisecond timeout down to a busy loop
		if ms == 0 && timeout > 0 {
			ms = 1
		}
	}

	raw := make([]unix.EpollEvent, len(events))
	n, err := unix.EpollWait(p.epfd, raw, ms)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, fmt.Errorf("epoll wait: %w", err)
	}

	out := 0
	for i := 0; i < n; i++ {
		ev := raw[i]
		if int(ev.Fd) == p.wakefd {
			p.drainWake()
			continue
		}
		events[out] = event{
			fd:       uintptr(ev.Fd),
			readable: ev.Events&unix.EPOLLIN != 0,
			writable: ev.Events&unix.EPOLLOUT != 0,
			failed:   ev.Events&(unix.EPOLLERR|unix.EPOLLHUP) != 0,
		}
		out++
	}
	return out, nil
}

func (p *epollPoller) wake() error {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], 1)
	_, err := unix.Write(p.wakefd, buf[:])
	if err == unix.EAGAIN {
		// counter saturated; the pending wakeup is already visible
		return nil
	}
	if err != nil {
		return fmt.Errorf("eventfd write: %w", err)
	}
	return nil
}

func (p *epollPoller) drainWake() {
	var buf [8]byte
	for {
		if _, err := unix.Read(p.wakefd, buf[:]); err != nil {
			return
		}
	}
}

func (p *epollPoller) close() error {
	_ = unix.Close(p.wakefd)
	return unix.Close(p.epfd)
}
