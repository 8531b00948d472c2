package requestlog

import "time"

// Record is one served request as stored in the audit log.
type Record struct {
	// ID is the request id.
	ID string

	// ConnID is the originating connection id.
	ConnID string

	// ReceivedAt is when framing completed.
	ReceivedAt time.Time

	// Meta is the protocol metadata of the request (method, target, ...).
	Meta map[string]string

	// Outcome is "ok" or the dispatch error kind.
	Outcome string

	// ErrorCode is the dispatch error code, "" on success.
	ErrorCode string

	// Duration is the dispatch wall time.
	Duration time.Duration

	// ResponseBytes is the response payload size.
	ResponseBytes int
}
