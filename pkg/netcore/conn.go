package netcore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"qqr-hq/qqr/pkg/dispatch"
	"qqr-hq/qqr/pkg/frame"
)

const (
	readBufferSize  = 64 * 1024
	writeBufferSize = 64 * 1024
)

// conn is the per-connection state. It is owned by exactly one handler
// goroutine; only inFlight and the raw socket are touched from outside,
// both of which are safe for concurrent use.
type conn struct {
	id  string
	raw net.Conn
	lst *Listener
	dec frame.Decoder
	enc frame.Encoder

	// inFlight is true while a request is being dispatched or its response
	// written. The drain path skips nudging such connections so the
	// in-flight response completes.
	inFlight atomic.Bool
}

func newConn(nc net.Conn, l *Listener) *conn {
	c := &conn{
		id:  uuid.NewString(),
		raw: nc,
		lst: l,
	}
	bw := bufio.NewWriterSize(nc, writeBufferSize)
	c.dec = l.codec.NewDecoder(bufio.NewReaderSize(nc, readBufferSize))
	c.enc = l.codec.NewEncoder(bw)
	return c
}

// serve runs the sequential decode/dispatch/encode loop until the
// connection ends. Responses are written in request order because the loop
// never reads the next frame before the previous response is on the wire.
func (c *conn) serve() {
	defer c.raw.Close()

	c.lst.metrics.ConnAccepted()
	defer c.lst.metrics.ConnClosed()

	log := c.lst.logger
	log.Debug("connection opened", "conn_id", c.id, "remote", c.raw.RemoteAddr().String())
	defer log.Debug("connection closed", "conn_id", c.id)

	for {
		if c.lst.cfg.IdleTimeout > 0 {
			c.raw.SetReadDeadline(time.Now().Add(c.lst.cfg.IdleTimeout))
		}

		f, err := c.dec.Decode()
		if err != nil {
			c.reportDecodeFailure(err)
			return
		}

		c.inFlight.Store(true)
		resp := c.dispatchFrame(f)
		err = c.write(resp)
		c.inFlight.Store(false)
		if err != nil {
			log.Debug("response write failed", "conn_id", c.id, "error", err)
			return
		}

		if f.Close {
			return
		}
		if !c.lst.state.Running() {
			return
		}
	}
}

// dispatchFrame turns one frame into a response. Dispatcher errors and
// panics are folded into failed responses so the connection loop always has
// something to write.
func (c *conn) dispatchFrame(f *frame.Frame) *dispatch.Response {
	req := dispatch.NewRequest(c.id, f.Payload, f.Meta)
	start := time.Now()

	resp, err := c.handleSafely(req)
	if err != nil {
		de := dispatch.AsError(err)
		if de.Kind == dispatch.KindInternal {
			c.lst.logger.Error("request failed",
				"conn_id", c.id,
				"request_id", req.ID,
				"error", de,
			)
		}
		resp = dispatch.Fail(de)
	}

	c.lst.metrics.RequestObserved(resp.Outcome(), time.Since(start), resp.Size())
	return resp
}

func (c *conn) handleSafely(req *dispatch.Request) (resp *dispatch.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = dispatch.Internal(dispatch.CodeInternal, "handler panic", fmt.Errorf("panic: %v", r))
		}
	}()
	return c.lst.dispatcher.Handle(context.Background(), req)
}

func (c *conn) write(resp *dispatch.Response) error {
	if c.lst.cfg.WriteTimeout > 0 {
		c.raw.SetWriteDeadline(time.Now().Add(c.lst.cfg.WriteTimeout))
	}
	return c.enc.Encode(resp)
}

// reportDecodeFailure logs why reading the next frame ended and, for
// malformed input, makes a best-effort attempt to tell the client before
// the connection closes.
func (c *conn) reportDecodeFailure(err error) {
	log := c.lst.logger

	var ne net.Error
	var de *frame.DecodeError
	switch {
	case errors.Is(err, io.EOF):
		// Clean close between frames.
	case errors.As(err, &ne) && ne.Timeout():
		if c.lst.state.Running() {
			log.Debug("idle timeout", "conn_id", c.id)
		}
	case errors.As(err, &de):
		c.lst.metrics.FrameError()
		log.Debug("malformed frame", "conn_id", c.id, "code", de.Code, "reason", de.Reason)
		c.write(dispatch.Fail(&dispatch.Error{
			Kind:    dispatch.KindInvalid,
			Code:    de.Code,
			Message: de.Reason,
		}))
	case errors.Is(err, net.ErrClosed):
		// Force-closed during drain.
	default:
		log.Debug("read failed", "conn_id", c.id, "error", err)
	}
}
