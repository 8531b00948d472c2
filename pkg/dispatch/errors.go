package dispatch

import (
	"errors"
	"fmt"
)

// Kind classifies a dispatch failure.
type Kind int

const (
	// KindInvalid is a caller error: the request cannot be acted on.
	KindInvalid Kind = iota

	// KindInternal is an unexpected service-side failure.
	KindInternal

	// KindUnavailable means the service is draining or overloaded and the
	// request was refused without being processed.
	KindUnavailable
)

// String returns the lowercase kind name, used as a metrics label.
func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindInternal:
		return "internal"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Machine-readable error codes. Protocol encoders map these to their own
// error representation (the HTTP codec maps them to status codes).
const (
	CodeBadRequest          = "bad_request"
	CodeMalformedFrame      = "malformed_frame"
	CodePayloadTooLarge     = "payload_too_large"
	CodeUnsupportedMedia    = "unsupported_media_type"
	CodeMethodNotAllowed    = "method_not_allowed"
	CodeUnsupportedTransfer = "unsupported_transfer_encoding"
	CodeEncodeFailed        = "encode_failed"
	CodeDraining            = "draining"
	CodeInternal            = "internal_error"
)

// Error is a typed dispatch failure.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Invalid builds a caller-error failure.
func Invalid(code, message string) *Error {
	return &Error{Kind: KindInvalid, Code: code, Message: message}
}

// Internal builds a service-error failure wrapping its cause.
func Internal(code, message string, err error) *Error {
	return &Error{Kind: KindInternal, Code: code, Message: message, Err: err}
}

// Unavailable builds an overload/drain failure.
func Unavailable(message string) *Error {
	return &Error{Kind: KindUnavailable, Code: CodeDraining, Message: message}
}

// AsError coerces any error returned by a Dispatcher into an *Error.
// Unrecognized errors become internal failures so they are logged but never
// leak details to the client.
func AsError(err error) *Error {
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return Internal(CodeInternal, "internal error", err)
}
