// File: codec/json.go
// Author: momentics <momentics@gmail.com>
//
// JSON convenience layer over sock.Socket: send and receive application
// values instead of raw payloads. Optional; not part of the adapter core.

package codec

import (
	"encoding/json"
	"fmt"

	"github.com/valyala/bytebufferpool"

	"github.com/momentics/msgloop/api"
	"github.com/momentics/msgloop/future"
	"github.com/momentics/msgloop/sock"
)

// SendValue encodes v as JSON and sends it on s. Encoding happens before
// the send is issued; an encode failure settles the returned future
// immediately and never touches the transport. Loop-thread only.
func SendValue(s *sock.Socket, v any, flags api.Flag) *future.Future[int] {
	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)

	enc := json.NewEncoder(bb)
	if err := enc.Encode(v); err != nil {
		fut := future.New[int]()
		fut.Fail(fmt.Errorf("codec: encode: %w", err))
		return fut
	}

	payload := make([]byte, bb.Len())
	copy(payload, bb.B)
	return s.Send(payload, flags)
}

// RecvValue receives one message from s and decodes it as JSON into T.
// Receive and decode failures both settle the returned future. Cancelling
// the returned future drops the decode but leaves the underlying receive
// running; close the socket to abandon that too. Loop-thread only.
func RecvValue[T any](s *sock.Socket, flags api.Flag) *future.Future[T] {
	out := future.New[T]()
	s.Recv(flags).OnSettle(func(data []byte, err error) {
		if out.Cancelled() {
			return
		}
		if err != nil {
			out.Fail(err)
			return
		}
		var v T
		if uerr := json.Unmarshal(data, &v); uerr != nil {
			out.Fail(fmt.Errorf("codec: decode: %w", uerr))
			return
		}
		out.Fulfill(v)
	})
	return out
}
