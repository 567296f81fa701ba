// File: sock/factory.go
// Author: momentics <momentics@gmail.com>
//
// Socket factory bound to one explicit event loop. There is no process-wide
// default loop to fall back on.

package sock

import (
	"errors"

	"github.com/momentics/msgloop/api"
)

// Factory creates Sockets bound to a single loop and closes them together.
// Loop-thread only, like the sockets it produces.
type Factory struct {
	loop   api.EventLoop
	socks  []*Socket
	closed bool
}

// NewFactory returns a factory bound to loop.
func NewFactory(loop api.EventLoop) (*Factory, error) {
	if loop == nil {
		return nil, errors.New("sock: nil event loop")
	}
	return &Factory{loop: loop}, nil
}

// Adapt wraps a message socket in an adapter bound to the factory's loop.
func (f *Factory) Adapt(ms api.MessageSocket) (*Socket, error) {
	if f.closed {
		return nil, api.ErrSocketClosed
	}
	s, err := New(f.loop, ms)
	if err != nil {
		return nil, err
	}
	f.socks = append(f.socks, s)
	return s, nil
}

// Close closes every socket the factory created. Idempotent; returns the
// first close error encountered.
func (f *Factory) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	var first error
	for _, s := range f.socks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	f.socks = nil
	return first
}
