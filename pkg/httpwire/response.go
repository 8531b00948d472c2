package httpwire

import (
	"bufio"
	"fmt"
	"net/http"

	"qqr-hq/qqr/pkg/dispatch"
)

type encoder struct {
	w *bufio.Writer
}

// Encode writes one response and flushes. Error responses carry a short
// plain-text body; the machine-readable detail stays in the status code.
func (e *encoder) Encode(resp *dispatch.Response) error {
	status := statusFor(resp)
	body := resp.Payload
	contentType := resp.ContentType
	if resp.Err != nil {
		body = []byte(resp.Err.Message + "\n")
		contentType = "text/plain; charset=utf-8"
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if _, err := fmt.Fprintf(e.w, "HTTP/1.1 %d %s\r\n", status, http.StatusText(status)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(e.w, "Content-Type: %s\r\n", contentType); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(e.w, "Content-Length: %d\r\n\r\n", len(body)); err != nil {
		return err
	}
	if _, err := e.w.Write(body); err != nil {
		return err
	}
	return e.w.Flush()
}

// statusFor maps the dispatch error taxonomy onto status codes.
func statusFor(resp *dispatch.Response) int {
	if resp.Err == nil {
		return http.StatusOK
	}
	switch resp.Err.Kind {
	case dispatch.KindUnavailable:
		return http.StatusServiceUnavailable
	case dispatch.KindInternal:
		return http.StatusInternalServerError
	}
	switch resp.Err.Code {
	case dispatch.CodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case dispatch.CodeUnsupportedMedia:
		return http.StatusUnsupportedMediaType
	case dispatch.CodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case dispatch.CodeUnsupportedTransfer:
		return http.StatusNotImplemented
	default:
		return http.StatusBadRequest
	}
}
