package httpwire

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"qqr-hq/qqr/pkg/dispatch"
	"qqr-hq/qqr/pkg/frame"
)

func decodeOne(t *testing.T, input string, maxBody int) (*frame.Frame, error) {
	t.Helper()
	dec := NewCodec(maxBody).NewDecoder(bufio.NewReader(strings.NewReader(input)))
	return dec.Decode()
}

func TestDecoder_Get(t *testing.T) {
	f, err := decodeOne(t, "GET /hello?x=1 HTTP/1.1\r\nHost: qqr\r\n\r\n", 1024)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if f.Meta[MetaMethod] != "GET" {
		t.Errorf("method = %q", f.Meta[MetaMethod])
	}
	if f.Meta[MetaTarget] != "/hello?x=1" {
		t.Errorf("target = %q", f.Meta[MetaTarget])
	}
	if f.Meta[MetaProto] != "HTTP/1.1" {
		t.Errorf("proto = %q", f.Meta[MetaProto])
	}
	if len(f.Payload) != 0 {
		t.Errorf("unexpected body %q", f.Payload)
	}
	if f.Close {
		t.Error("HTTP/1.1 without Connection: close must keep alive")
	}
}

func TestDecoder_PostBody(t *testing.T) {
	input := "POST / HTTP/1.1\r\nContent-Type: text/plain\r\nContent-Length: 5\r\n\r\nhello"
	f, err := decodeOne(t, input, 1024)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if string(f.Payload) != "hello" {
		t.Errorf("body = %q", f.Payload)
	}
	if f.Meta[MetaContentType] != "text/plain" {
		t.Errorf("content type = %q", f.Meta[MetaContentType])
	}
}

func TestDecoder_Pipelined(t *testing.T) {
	input := "GET /a HTTP/1.1\r\n\r\nGET /b HTTP/1.1\r\n\r\n"
	dec := NewCodec(1024).NewDecoder(bufio.NewReader(strings.NewReader(input)))

	for _, want := range []string{"/a", "/b"} {
		f, err := dec.Decode()
		if err != nil {
			t.Fatalf("Decode %s failed: %v", want, err)
		}
		if f.Meta[MetaTarget] != want {
			t.Errorf("target = %q, want %q", f.Meta[MetaTarget], want)
		}
	}
	if _, err := dec.Decode(); err != io.EOF {
		t.Errorf("Expected io.EOF after last request, got %v", err)
	}
}

func TestDecoder_ConnectionClose(t *testing.T) {
	tests := []struct {
		name  string
		input string
		close bool
	}{
		{"explicit close", "GET / HTTP/1.1\r\nConnection: close\r\n\r\n", true},
		{"http10 default", "GET / HTTP/1.0\r\n\r\n", true},
		{"http10 keepalive", "GET / HTTP/1.0\r\nConnection: keep-alive\r\n\r\n", false},
		{"http11 default", "GET / HTTP/1.1\r\n\r\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := decodeOne(t, tt.input, 1024)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if f.Close != tt.close {
				t.Errorf("Close = %v, want %v", f.Close, tt.close)
			}
		})
	}
}

func TestDecoder_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  string
	}{
		{"garbage line", "NOT A REQUEST\r\n\r\n", dispatch.CodeMalformedFrame},
		{"lowercase method", "get / HTTP/1.1\r\n\r\n", dispatch.CodeMalformedFrame},
		{"missing proto", "GET /\r\n\r\n", dispatch.CodeMalformedFrame},
		{"bad content length", "POST / HTTP/1.1\r\nContent-Length: many\r\n\r\n", dispatch.CodeMalformedFrame},
		{"chunked", "POST / HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n", dispatch.CodeUnsupportedTransfer},
		{"oversize body", "POST / HTTP/1.1\r\nContent-Length: 999\r\n\r\n", dispatch.CodePayloadTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeOne(t, tt.input, 100)
			var de *frame.DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("Expected *DecodeError, got %v", err)
			}
			if de.Code != tt.code {
				t.Errorf("code = %s, want %s", de.Code, tt.code)
			}
		})
	}
}

// countingReader tracks how much the decoder actually pulls off the wire.
type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}

func TestDecoder_BoundsRequestLineBuffering(t *testing.T) {
	// A 1 MiB request line with no newline in sight. The decoder must
	// reject it as soon as the line budget is crossed, not buffer it all.
	input := "GET /" + strings.Repeat("a", 1<<20) + " HTTP/1.1\r\n\r\n"
	cr := &countingReader{r: strings.NewReader(input)}
	dec := NewCodec(1024).NewDecoder(bufio.NewReaderSize(cr, 4096))

	_, err := dec.Decode()
	var de *frame.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("Expected *DecodeError, got %v", err)
	}
	if de.Code != dispatch.CodeMalformedFrame {
		t.Errorf("code = %s, want %s", de.Code, dispatch.CodeMalformedFrame)
	}
	if cr.n > 4*8192 {
		t.Errorf("decoder consumed %d bytes rejecting an oversized request line", cr.n)
	}
}

func TestDecoder_BoundsHeaderBuffering(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("GET / HTTP/1.1\r\n")
	for i := 0; sb.Len() < 1<<20; i++ {
		fmt.Fprintf(&sb, "X-Filler-%d: %s\r\n", i, strings.Repeat("v", 512))
	}
	sb.WriteString("\r\n")

	cr := &countingReader{r: strings.NewReader(sb.String())}
	dec := NewCodec(1024).NewDecoder(bufio.NewReaderSize(cr, 4096))

	_, err := dec.Decode()
	var de *frame.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("Expected *DecodeError, got %v", err)
	}
	if de.Code != dispatch.CodeMalformedFrame {
		t.Errorf("code = %s, want %s", de.Code, dispatch.CodeMalformedFrame)
	}
	if cr.n > 2*64*1024 {
		t.Errorf("decoder consumed %d bytes rejecting an oversized header section", cr.n)
	}
}

func TestDecoder_CleanEOF(t *testing.T) {
	if _, err := decodeOne(t, "", 1024); err != io.EOF {
		t.Errorf("Expected io.EOF on an empty stream, got %v", err)
	}
}

// readResponse parses the encoder output with net/http for an independent
// check of the wire format.
func readResponse(t *testing.T, raw []byte) *http.Response {
	t.Helper()
	resp, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(raw)), nil)
	if err != nil {
		t.Fatalf("Encoder output unparseable by net/http: %v\n%q", err, raw)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestEncoder_Success(t *testing.T) {
	var buf bytes.Buffer
	enc := NewCodec(0).NewEncoder(bufio.NewWriter(&buf))

	if err := enc.Encode(dispatch.OK([]byte("<html>"), "text/html; charset=utf-8")); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	resp := readResponse(t, buf.Bytes())
	if resp.StatusCode != 200 {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("content type = %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "<html>" {
		t.Errorf("body = %q", body)
	}
}

func TestEncoder_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  *dispatch.Error
		want int
	}{
		{"bad request", dispatch.Invalid(dispatch.CodeBadRequest, "x"), 400},
		{"malformed", dispatch.Invalid(dispatch.CodeMalformedFrame, "x"), 400},
		{"too large", dispatch.Invalid(dispatch.CodePayloadTooLarge, "x"), 413},
		{"bad media", dispatch.Invalid(dispatch.CodeUnsupportedMedia, "x"), 415},
		{"bad method", dispatch.Invalid(dispatch.CodeMethodNotAllowed, "x"), 405},
		{"chunked", dispatch.Invalid(dispatch.CodeUnsupportedTransfer, "x"), 501},
		{"internal", dispatch.Internal(dispatch.CodeInternal, "x", nil), 500},
		{"draining", dispatch.Unavailable("x"), 503},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			enc := NewCodec(0).NewEncoder(bufio.NewWriter(&buf))
			if err := enc.Encode(dispatch.Fail(tt.err)); err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			resp := readResponse(t, buf.Bytes())
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}
