package wire

import (
	"errors"
	"fmt"
)

// errMissingContentLength is the cause recorded on a FramingError when the
// first header line does not carry a Content-Length field.
var errMissingContentLength = errors.New("missing Content-Length header")

// FramingError indicates the byte stream is not positioned at a valid frame:
// the header is malformed, the length field is not an integer, or the frame
// was cut short. The session cannot safely continue reading past one of
// these without resynchronizing.
type FramingError struct {
	// Line is the offending header line, if one was read.
	Line string
	Err  error
}

// Error implements the error interface.
func (e *FramingError) Error() string {
	if e.Line != "" {
		return fmt.Sprintf("wire: framing error on line %q: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("wire: framing error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *FramingError) Unwrap() error {
	return e.Err
}

// DecodeError indicates a frame was read intact but its body is not valid
// JSON. Body holds the raw bytes for diagnosis.
type DecodeError struct {
	Body []byte
	Err  error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("wire: invalid JSON body (%d bytes): %v", len(e.Body), e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
