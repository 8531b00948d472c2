package dispatch

import (
	"time"

	"github.com/google/uuid"
)

// Request is one unit of work extracted from a connection's byte stream.
// It is immutable after creation and consumed exactly once by a Dispatcher.
type Request struct {
	// ID uniquely identifies the request.
	ID string

	// ConnID identifies the originating connection.
	ConnID string

	// ReceivedAt is the time framing completed.
	ReceivedAt time.Time

	// Payload is the opaque frame body. Dispatchers must not mutate it.
	Payload []byte

	// Meta carries protocol-specific fields set by the frame decoder
	// (for the HTTP codec: method, target, content type).
	Meta map[string]string
}

// NewRequest builds a Request for a completed frame. The payload and meta
// map are adopted, not copied; the caller must not reuse them.
func NewRequest(connID string, payload []byte, meta map[string]string) *Request {
	return &Request{
		ID:         uuid.NewString(),
		ConnID:     connID,
		ReceivedAt: time.Now(),
		Payload:    payload,
		Meta:       meta,
	}
}

// MetaValue returns a metadata field, or "" when absent.
func (r *Request) MetaValue(key string) string {
	if r.Meta == nil {
		return ""
	}
	return r.Meta[key]
}

// Response is the result of dispatching one Request. Exactly one of the
// payload or Err carries meaning; it is immutable and consumed exactly once
// by the connection handler that writes it.
type Response struct {
	// Payload is the result body.
	Payload []byte

	// ContentType describes the payload for protocols that carry one.
	ContentType string

	// Err is set when the request failed. The protocol encoder decides how
	// to represent it on the wire.
	Err *Error
}

// OK builds a successful response.
func OK(payload []byte, contentType string) *Response {
	return &Response{Payload: payload, ContentType: contentType}
}

// Fail builds an error response.
func Fail(err *Error) *Response {
	return &Response{Err: err}
}

// Outcome returns "ok" for successful responses and the error kind name
// otherwise. Used as a metrics label and in the request log.
func (r *Response) Outcome() string {
	if r.Err == nil {
		return "ok"
	}
	return r.Err.Kind.String()
}

// Size returns the payload length in bytes.
func (r *Response) Size() int {
	return len(r.Payload)
}
