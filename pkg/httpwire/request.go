package httpwire

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"strconv"
	"strings"

	"qqr-hq/qqr/pkg/dispatch"
	"qqr-hq/qqr/pkg/frame"
)

type decoder struct {
	r       *bufio.Reader
	maxBody int
}

// errLineTooLong is the internal signal that a line ran past its budget
// before its newline arrived. Callers map it to a DecodeError.
var errLineTooLong = errors.New("line exceeds budget")

// Decode reads one HTTP request and returns it as a frame. Limits are
// enforced while reading, not after: a line or header section that runs
// past its budget fails as soon as the budget is crossed, so a client can
// never grow the buffer beyond the configured bounds. The body, when
// present, is fully read so the next request starts at a frame boundary.
func (d *decoder) Decode() (*frame.Frame, error) {
	line, err := d.readLine(maxRequestLineBytes)
	if err != nil {
		if errors.Is(err, errLineTooLong) {
			return nil, frame.Malformed("request line too long", nil)
		}
		// A clean close between requests surfaces as io.EOF here.
		return nil, err
	}

	method, target, proto, ok := parseRequestLine(line)
	if !ok {
		return nil, frame.Malformed(fmt.Sprintf("bad request line %q", truncate(line, 64)), nil)
	}

	headers, err := d.readHeaders()
	if err != nil {
		return nil, err
	}

	if te := headers.Get("Transfer-Encoding"); te != "" {
		return nil, &frame.DecodeError{
			Code:   dispatch.CodeUnsupportedTransfer,
			Reason: fmt.Sprintf("transfer encoding %q not supported", te),
		}
	}

	var body []byte
	if cl := headers.Get("Content-Length"); cl != "" {
		n, err := strconv.Atoi(cl)
		if err != nil || n < 0 {
			return nil, frame.Malformed(fmt.Sprintf("bad content length %q", cl), nil)
		}
		if d.maxBody > 0 && n > d.maxBody {
			return nil, frame.TooLarge(fmt.Sprintf("body of %d bytes exceeds limit %d", n, d.maxBody))
		}
		body = make([]byte, n)
		if _, err := io.ReadFull(d.r, body); err != nil {
			return nil, err
		}
	}

	connHeader := strings.ToLower(headers.Get("Connection"))
	meta := map[string]string{
		MetaMethod:      method,
		MetaTarget:      target,
		MetaProto:       proto,
		MetaContentType: headers.Get("Content-Type"),
	}

	return &frame.Frame{
		Payload: body,
		Meta:    meta,
		Close:   wantsClose(proto, connHeader),
	}, nil
}

// readLine reads one newline-terminated line, accumulating at most max
// bytes. It fails with errLineTooLong the moment the budget is exceeded,
// holding no more than one bufio buffer beyond it.
func (d *decoder) readLine(max int) (string, error) {
	var line []byte
	for {
		chunk, err := d.r.ReadSlice('\n')
		line = append(line, chunk...)
		if len(line) > max {
			return "", errLineTooLong
		}
		if err == nil {
			break
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		if err == io.EOF {
			if len(line) == 0 {
				return "", io.EOF
			}
			// Peer vanished mid-line.
			return "", io.ErrUnexpectedEOF
		}
		return "", err
	}

	line = line[:len(line)-1]
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return string(line), nil
}

// readHeaders reads the header section line by line, bounded as a whole by
// maxHeaderBytes.
func (d *decoder) readHeaders() (textproto.MIMEHeader, error) {
	headers := make(textproto.MIMEHeader)
	remaining := maxHeaderBytes
	for {
		line, err := d.readLine(remaining)
		if err != nil {
			if errors.Is(err, errLineTooLong) {
				return nil, frame.Malformed("header section too large", nil)
			}
			if err == io.EOF {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
		if line == "" {
			return headers, nil
		}
		remaining -= len(line)

		if line[0] == ' ' || line[0] == '\t' {
			return nil, frame.Malformed("folded header line", nil)
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok || name == "" || strings.ContainsAny(name, " \t") {
			return nil, frame.Malformed(fmt.Sprintf("bad header line %q", truncate(line, 64)), nil)
		}
		headers.Add(textproto.CanonicalMIMEHeaderKey(name), strings.TrimSpace(value))
	}
}

// parseRequestLine splits "METHOD SP TARGET SP HTTP/x.y".
func parseRequestLine(line string) (method, target, proto string, ok bool) {
	method, rest, found := strings.Cut(line, " ")
	if !found {
		return "", "", "", false
	}
	target, proto, found = strings.Cut(rest, " ")
	if !found || method == "" || target == "" {
		return "", "", "", false
	}
	if !strings.HasPrefix(proto, "HTTP/") {
		return "", "", "", false
	}
	for _, r := range method {
		if r < 'A' || r > 'Z' {
			return "", "", "", false
		}
	}
	return method, target, proto, true
}

func wantsClose(proto, connHeader string) bool {
	if connHeader == "close" {
		return true
	}
	if proto == "HTTP/1.0" && connHeader != "keep-alive" {
		return true
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
