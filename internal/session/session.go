package session

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/conduit-lang/lspdrive/internal/wire"
)

// Session sends requests and notifications over a server's byte streams and
// decodes the frames coming back.
//
// Responses are matched by arrival order, not by id: a Call returns the next
// decoded frame, whatever its id. That mirrors the strictly sequential
// script this harness runs; a server that interleaves notifications or
// reorders responses breaks the assumption, so a mismatched id is logged as
// a warning rather than trusted silently.
//
// Calls block until a full frame arrives or the stream ends. There is no
// timeout: a non-responding server stalls the session.
type Session struct {
	enc    *wire.Encoder
	dec    *wire.Decoder
	nextID int64
	logger *zap.Logger
}

// New returns a Session reading server output from r and writing server
// input to w.
func New(r io.Reader, w io.Writer, logger *zap.Logger) *Session {
	return &Session{
		enc:    wire.NewEncoder(w),
		dec:    wire.NewDecoder(r),
		logger: logger,
	}
}

// Call sends a request and blocks for the next decoded frame, returning it
// as the response.
func (s *Session) Call(method string, params any) (*wire.Message, error) {
	s.nextID++
	id := s.nextID

	req := wire.Request{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  params,
	}

	s.logger.Debug("sending request", zap.String("method", method), zap.Int64("id", id))
	if err := s.enc.Encode(req); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	msg, err := s.dec.DecodeMessage()
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case msg.ID == nil:
		s.logger.Warn("expected response, got server message",
			zap.String("method", method),
			zap.String("server_method", msg.Method))
	case *msg.ID != id:
		s.logger.Warn("response id does not match request",
			zap.String("method", method),
			zap.Int64("sent_id", id),
			zap.Int64("received_id", *msg.ID))
	}

	return msg, nil
}

// Notify sends a notification. No response is expected or awaited.
func (s *Session) Notify(method string, params any) error {
	req := wire.Request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
	}

	s.logger.Debug("sending notification", zap.String("method", method))
	if err := s.enc.Encode(req); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}
