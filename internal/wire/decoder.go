package wire

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// contentLengthHeader is matched case-sensitively: this decoder speaks to
// conforming LSP servers and treats anything else as a protocol desync.
const contentLengthHeader = "Content-Length:"

// Decoder reads one frame at a time from a byte stream. The stream may
// deliver bytes incrementally; a decode blocks until a full frame arrives
// and consumes exactly that frame, never bytes of the next one.
type Decoder struct {
	r *bufio.Reader
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReaderSize(r, 64*1024)}
}

// Decode reads the next frame and returns its body.
//
// It returns io.EOF when the stream ends cleanly before a header byte
// arrives, a *FramingError when the header is malformed or the frame is
// truncated, and a *DecodeError when the body is not valid JSON.
func (d *Decoder) Decode() (json.RawMessage, error) {
	line, err := d.r.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			if line == "" {
				return nil, io.EOF
			}
			return nil, &FramingError{Line: line, Err: io.ErrUnexpectedEOF}
		}
		return nil, fmt.Errorf("wire: read header: %w", err)
	}

	if !strings.HasPrefix(line, contentLengthHeader) {
		return nil, &FramingError{Line: strings.TrimRight(line, "\r\n"), Err: errMissingContentLength}
	}

	length, err := strconv.Atoi(strings.TrimSpace(line[len(contentLengthHeader):]))
	if err != nil {
		return nil, &FramingError{Line: strings.TrimRight(line, "\r\n"), Err: fmt.Errorf("invalid content length: %w", err)}
	}
	if length < 0 {
		return nil, &FramingError{Line: strings.TrimRight(line, "\r\n"), Err: fmt.Errorf("negative content length %d", length)}
	}

	// Skip the remaining header lines (Content-Type and friends) so the
	// body read starts at the byte after the blank separator.
	for {
		header, err := d.r.ReadString('\n')
		if err != nil {
			return nil, &FramingError{Line: header, Err: io.ErrUnexpectedEOF}
		}
		if strings.TrimSpace(header) == "" {
			break
		}
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(d.r, body); err != nil {
		return nil, &FramingError{Err: fmt.Errorf("body truncated: %w", err)}
	}

	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &DecodeError{Body: body, Err: err}
	}
	return raw, nil
}

// DecodeMessage reads the next frame and unmarshals it as a JSON-RPC
// message.
func (d *Decoder) DecodeMessage() (*Message, error) {
	body, err := d.Decode()
	if err != nil {
		return nil, err
	}
	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, &DecodeError{Body: body, Err: err}
	}
	return &msg, nil
}
