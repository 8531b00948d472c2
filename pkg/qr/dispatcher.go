package qr

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net/url"
	"strings"

	"qqr-hq/qqr/pkg/dispatch"
	"qqr-hq/qqr/pkg/httpwire"
)

// Config holds the dispatcher settings.
type Config struct {
	// MinImageSize is the minimum rendered edge in pixels.
	MinImageSize int

	// MaxContentBytes bounds the text accepted for encoding.
	MaxContentBytes int
}

// Dispatcher routes decoded requests to the QR encoder.
type Dispatcher struct {
	enc        *Encoder
	maxContent int
	logger     *slog.Logger
}

// NewDispatcher creates the dispatcher.
func NewDispatcher(cfg Config, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		enc:        NewEncoder(cfg.MinImageSize),
		maxContent: cfg.MaxContentBytes,
		logger:     logger,
	}
}

// Handle implements dispatch.Dispatcher.
func (d *Dispatcher) Handle(ctx context.Context, req *dispatch.Request) (*dispatch.Response, error) {
	method := req.MetaValue(httpwire.MetaMethod)
	target := req.MetaValue(httpwire.MetaTarget)

	if target == "/" {
		switch method {
		case "GET":
			return dispatch.OK([]byte(indexHTML), "text/html; charset=utf-8"), nil
		case "POST":
			content, err := d.contentFromBody(req)
			if err != nil {
				return nil, err
			}
			return d.render(req, content)
		default:
			return nil, dispatch.Invalid(dispatch.CodeMethodNotAllowed,
				fmt.Sprintf("method %s not allowed on /", method))
		}
	}

	if method != "GET" {
		return nil, dispatch.Invalid(dispatch.CodeMethodNotAllowed,
			fmt.Sprintf("method %s not allowed", method))
	}
	// Any other path encodes the target itself.
	return d.render(req, strings.TrimPrefix(target, "/"))
}

// contentFromBody extracts the text to encode from a POST body.
func (d *Dispatcher) contentFromBody(req *dispatch.Request) (string, error) {
	if d.maxContent > 0 && len(req.Payload) > d.maxContent {
		return "", dispatch.Invalid(dispatch.CodePayloadTooLarge,
			fmt.Sprintf("body exceeds %d bytes", d.maxContent))
	}

	ct := req.MetaValue(httpwire.MetaContentType)
	if ct == "" {
		return "", dispatch.Invalid(dispatch.CodeBadRequest, "missing content type")
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", dispatch.Invalid(dispatch.CodeBadRequest,
			fmt.Sprintf("bad content type %q", ct))
	}

	switch mediaType {
	case "application/x-www-form-urlencoded":
		values, err := url.ParseQuery(string(req.Payload))
		if err != nil {
			return "", dispatch.Invalid(dispatch.CodeBadRequest, "malformed form body")
		}
		if !values.Has("input") {
			return "", dispatch.Invalid(dispatch.CodeBadRequest, "missing form field \"input\"")
		}
		input := values.Get("input")
		// Field values arrive percent-encoded by the form itself, so
		// decode once more; keep the raw value when that fails.
		if decoded, err := url.QueryUnescape(input); err == nil {
			input = decoded
		}
		return input, nil
	case "text/plain":
		return string(req.Payload), nil
	default:
		return "", dispatch.Invalid(dispatch.CodeUnsupportedMedia,
			fmt.Sprintf("unsupported media type %q", mediaType))
	}
}

func (d *Dispatcher) render(req *dispatch.Request, content string) (*dispatch.Response, error) {
	image, err := d.enc.EncodePNG(content)
	if err != nil {
		d.logger.Error("qr encoding failed",
			"request_id", req.ID,
			"content_bytes", len(content),
			"error", err,
		)
		return nil, dispatch.Internal(dispatch.CodeEncodeFailed, "could not encode content", err)
	}
	return dispatch.OK(image, "image/png"), nil
}
