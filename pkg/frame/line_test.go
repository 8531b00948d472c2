package frame

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"qqr-hq/qqr/pkg/dispatch"
)

func TestLineDecoder_Frames(t *testing.T) {
	input := "first\nsecond\r\nthird\n"
	dec := LineCodec{}.NewDecoder(bufio.NewReader(strings.NewReader(input)))

	want := []string{"first", "second", "third"}
	for i, w := range want {
		f, err := dec.Decode()
		if err != nil {
			t.Fatalf("frame %d: unexpected error %v", i, err)
		}
		if string(f.Payload) != w {
			t.Errorf("frame %d: got %q, want %q", i, f.Payload, w)
		}
		if f.Close {
			t.Errorf("frame %d: line frames never request close", i)
		}
	}

	if _, err := dec.Decode(); err != io.EOF {
		t.Errorf("Expected io.EOF at stream end, got %v", err)
	}
}

func TestLineDecoder_PartialFrame(t *testing.T) {
	dec := LineCodec{}.NewDecoder(bufio.NewReader(strings.NewReader("no newline")))

	if _, err := dec.Decode(); err != io.ErrUnexpectedEOF {
		t.Errorf("Expected ErrUnexpectedEOF for a truncated frame, got %v", err)
	}
}

func TestLineDecoder_TooLarge(t *testing.T) {
	long := strings.Repeat("a", 100) + "\n"
	dec := LineCodec{MaxLineBytes: 32}.NewDecoder(bufio.NewReader(strings.NewReader(long)))

	_, err := dec.Decode()
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("Expected *DecodeError, got %v", err)
	}
	if de.Code != dispatch.CodePayloadTooLarge {
		t.Errorf("Expected payload_too_large, got %s", de.Code)
	}
}

func TestLineEncoder_Response(t *testing.T) {
	var buf bytes.Buffer
	enc := LineCodec{}.NewEncoder(bufio.NewWriter(&buf))

	if err := enc.Encode(dispatch.OK([]byte("pong"), "")); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if buf.String() != "pong\n" {
		t.Errorf("Got %q, want %q", buf.String(), "pong\n")
	}
}

func TestLineEncoder_Error(t *testing.T) {
	var buf bytes.Buffer
	enc := LineCodec{}.NewEncoder(bufio.NewWriter(&buf))

	resp := dispatch.Fail(dispatch.Invalid(dispatch.CodeBadRequest, "unparseable"))
	if err := enc.Encode(resp); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if buf.String() != "ERR bad_request unparseable\n" {
		t.Errorf("Got %q", buf.String())
	}
}
