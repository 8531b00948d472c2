package httpwire

import (
	"bufio"

	"qqr-hq/qqr/pkg/frame"
)

// Frame metadata keys set by the decoder.
const (
	// MetaMethod is the request method (GET, POST, ...).
	MetaMethod = "method"

	// MetaTarget is the request target as sent, including the query.
	MetaTarget = "target"

	// MetaProto is the protocol version ("HTTP/1.1").
	MetaProto = "proto"

	// MetaContentType is the Content-Type header value, "" when absent.
	MetaContentType = "content-type"
)

// maxRequestLineBytes bounds the request line and maxHeaderBytes the whole
// header section. Both are enforced while reading: input past the budget is
// rejected as a malformed frame before it is buffered.
const (
	maxRequestLineBytes = 8192
	maxHeaderBytes      = 64 * 1024
)

// Codec is the HTTP/1.1 frame codec.
type Codec struct {
	// MaxBodyBytes bounds a request body. Bodies over the limit produce a
	// 413 and close the connection.
	MaxBodyBytes int
}

// NewCodec creates the codec with the given body limit.
func NewCodec(maxBodyBytes int) *Codec {
	return &Codec{MaxBodyBytes: maxBodyBytes}
}

// NewDecoder implements frame.Codec.
func (c *Codec) NewDecoder(r *bufio.Reader) frame.Decoder {
	return &decoder{r: r, maxBody: c.MaxBodyBytes}
}

// NewEncoder implements frame.Codec.
func (c *Codec) NewEncoder(w *bufio.Writer) frame.Encoder {
	return &encoder{w: w}
}
