package frame

import (
	"bufio"
	"fmt"

	"qqr-hq/qqr/pkg/dispatch"
)

// Frame is one complete protocol unit plus transport-level metadata.
type Frame struct {
	// Payload is the frame body.
	Payload []byte

	// Meta carries protocol fields the dispatcher may need (method,
	// target, content type for the HTTP codec). May be nil.
	Meta map[string]string

	// Close is set when the protocol requires the connection to be closed
	// after this frame's response has been written.
	Close bool
}

// Decoder extracts complete frames from a connection's byte stream. A
// Decoder is bound to exactly one connection and is never shared.
type Decoder interface {
	// Decode blocks until one complete frame has been read. It returns
	// io.EOF when the peer closes cleanly between frames and a
	// *DecodeError when the input is malformed or over limits.
	Decode() (*Frame, error)
}

// Encoder writes responses in the protocol's wire representation. Encoders
// must represent failed responses (Response.Err != nil) in whatever error
// form the protocol has, and must flush before returning.
type Encoder interface {
	Encode(resp *dispatch.Response) error
}

// Codec builds the decoder/encoder pair for one connection.
type Codec interface {
	NewDecoder(r *bufio.Reader) Decoder
	NewEncoder(w *bufio.Writer) Encoder
}

// DecodeError reports malformed or over-limit input. The connection it
// occurred on is closed; the process and all other connections are
// unaffected.
type DecodeError struct {
	// Code is a dispatch error code describing the failure class.
	Code string

	// Reason is a human-readable description.
	Reason string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("frame: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("frame: %s", e.Reason)
}

// Unwrap returns the underlying cause.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Malformed builds a DecodeError for input that cannot be parsed.
func Malformed(reason string, err error) *DecodeError {
	return &DecodeError{Code: dispatch.CodeMalformedFrame, Reason: reason, Err: err}
}

// TooLarge builds a DecodeError for input exceeding a size limit.
func TooLarge(reason string) *DecodeError {
	return &DecodeError{Code: dispatch.CodePayloadTooLarge, Reason: reason}
}
