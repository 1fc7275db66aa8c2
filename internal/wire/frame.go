// Package wire implements the LSP base-protocol framing: JSON-RPC messages
// carried as Content-Length prefixed frames over a byte stream.
//
// A frame is a header section of "key: value" lines terminated by an empty
// line, followed by exactly Content-Length bytes of UTF-8 JSON. The length
// counts bytes of the serialized body, never characters.
package wire

import (
	"encoding/json"
	"fmt"
	"io"
)

// Encode serializes msg to compact JSON and wraps it in a Content-Length
// frame. Feeding the result to a Decoder yields a message structurally equal
// to msg.
func Encode(msg any) ([]byte, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("wire: marshal message: %w", err)
	}

	frame := make([]byte, 0, len(body)+32)
	frame = fmt.Appendf(frame, "Content-Length: %d\r\n\r\n", len(body))
	return append(frame, body...), nil
}

// Encoder writes frames to an underlying writer.
type Encoder struct {
	w io.Writer
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode frames msg and writes it in a single Write call, so frames from
// one encoder are never interleaved mid-frame.
func (e *Encoder) Encode(msg any) error {
	frame, err := Encode(msg)
	if err != nil {
		return err
	}
	if _, err := e.w.Write(frame); err != nil {
		return fmt.Errorf("wire: write frame: %w", err)
	}
	return nil
}
