// File: fake/socket.go
// Author: momentics <momentics@gmail.com>
//
// Socket is a fake api.MessageSocket with scripted receive results,
// a controllable send gate and error injection.

package fake

import (
	"sync"

	"github.com/momentics/msgloop/api"
)

// RecvStep is one scripted TryRecv outcome.
type RecvStep struct {
	Data []byte
	Err  error
}

// Socket implements api.MessageSocket and api.ConfigurableSocket with
// fully controllable behavior. An empty receive script would-blocks.
type Socket struct {
	mu         sync.Mutex
	fd         uintptr
	recvScript []RecvStep
	writable   bool
	budget     int // successful sends remaining; -1 means unlimited
	sendErr    error
	sent       [][]byte
	recvCalls  int
	sendCalls  int
	closed     bool
	options    map[string]any
}

// NewSocket creates a writable fake socket with the given wait descriptor.
func NewSocket(fd uintptr) *Socket {
	return &Socket{
		fd:       fd,
		writable: true,
		budget:   -1,
		options:  make(map[string]any),
	}
}

// TryRecv implements api.MessageSocket. It consumes the receive script
// front to back and would-blocks once the script is exhausted.
func (s *Socket) TryRecv(_ api.Flag, _ api.Options) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recvCalls++
	if s.closed {
		return nil, api.ErrSocketClosed
	}
	if len(s.recvScript) == 0 {
		return nil, api.ErrWouldBlock
	}
	step := s.recvScript[0]
	s.recvScript = s.recvScript[1:]
	if step.Err != nil {
		return nil, step.Err
	}
	return step.Data, nil
}

// TrySend implements api.MessageSocket. A one-shot injected error fires
// first, then the writable gate and the send budget are consulted.
func (s *Socket) TrySend(p []byte, _ api.Flag, _ api.Options) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendCalls++
	if s.closed {
		return 0, api.ErrSocketClosed
	}
	if s.sendErr != nil {
		err := s.sendErr
		s.sendErr = nil
		return 0, err
	}
	if !s.writable || s.budget == 0 {
		return 0, api.ErrWouldBlock
	}
	if s.budget > 0 {
		s.budget--
	}
	cp := make([]byte, len(p))
	copy(cp, p)
	s.sent = append(s.sent, cp)
	return len(p), nil
}

// WaitFD implements api.MessageSocket.
func (s *Socket) WaitFD() uintptr {
	return s.fd
}

// Close implements api.MessageSocket.
func (s *Socket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// SetOption implements api.ConfigurableSocket.
func (s *Socket) SetOption(name string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options[name] = value
	return nil
}

// Option implements api.ConfigurableSocket.
func (s *Socket) Option(name string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.options[name]
	if !ok {
		return nil, api.ErrNotSupported
	}
	return v, nil
}

// QueueRecv appends a successful receive outcome to the script.
func (s *Socket) QueueRecv(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.recvScript = append(s.recvScript, RecvStep{Data: cp})
}

// QueueRecvErr appends a failing receive outcome to the script.
func (s *Socket) QueueRecvErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recvScript = append(s.recvScript, RecvStep{Err: err})
}

// SetWritable opens or closes the send gate.
func (s *Socket) SetWritable(writable bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writable = writable
}

// SetSendBudget limits how many further sends succeed before the socket
// would-blocks again. Negative means unlimited.
func (s *Socket) SetSendBudget(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budget = n
}

// FailNextSend injects a one-shot error into the next TrySend.
func (s *Socket) FailNextSend(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendErr = err
}

// Sent returns a copy of every payload accepted so far, in order.
func (s *Socket) Sent() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.sent))
	copy(out, s.sent)
	return out
}

// RecvCalls returns the cumulative TryRecv call count.
func (s *Socket) RecvCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recvCalls
}

// SendCalls returns the cumulative TrySend call count.
func (s *Socket) SendCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sendCalls
}

// Closed reports whether Close was called.
func (s *Socket) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
