package frame

import (
	"bufio"
	"fmt"
	"io"

	"qqr-hq/qqr/pkg/dispatch"
)

// DefaultMaxLineBytes bounds a single line frame when LineCodec is used
// with a zero limit.
const DefaultMaxLineBytes = 64 * 1024

// LineCodec frames newline-delimited text. One line (without its trailing
// newline) is one frame; responses are written back as a single line, with
// errors rendered as "ERR <code> <message>".
type LineCodec struct {
	// MaxLineBytes bounds the frame size. Zero means DefaultMaxLineBytes.
	MaxLineBytes int
}

// NewDecoder implements Codec.
func (c LineCodec) NewDecoder(r *bufio.Reader) Decoder {
	max := c.MaxLineBytes
	if max <= 0 {
		max = DefaultMaxLineBytes
	}
	return &lineDecoder{r: r, max: max}
}

// NewEncoder implements Codec.
func (c LineCodec) NewEncoder(w *bufio.Writer) Encoder {
	return &lineEncoder{w: w}
}

type lineDecoder struct {
	r   *bufio.Reader
	max int
}

func (d *lineDecoder) Decode() (*Frame, error) {
	var line []byte
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			if err == io.EOF && len(line) > 0 {
				// Peer vanished mid-frame.
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
		if b == '\n' {
			break
		}
		line = append(line, b)
		if len(line) > d.max {
			return nil, TooLarge(fmt.Sprintf("line exceeds %d bytes", d.max))
		}
	}
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return &Frame{Payload: line}, nil
}

type lineEncoder struct {
	w *bufio.Writer
}

func (e *lineEncoder) Encode(resp *dispatch.Response) error {
	if resp.Err != nil {
		if _, err := fmt.Fprintf(e.w, "ERR %s %s\n", resp.Err.Code, resp.Err.Message); err != nil {
			return err
		}
		return e.w.Flush()
	}
	if _, err := e.w.Write(resp.Payload); err != nil {
		return err
	}
	if err := e.w.WriteByte('\n'); err != nil {
		return err
	}
	return e.w.Flush()
}
