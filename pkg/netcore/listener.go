package netcore

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"qqr-hq/qqr/pkg/dispatch"
	"qqr-hq/qqr/pkg/frame"
	"qqr-hq/qqr/pkg/lifecycle"
	"qqr-hq/qqr/pkg/limits"
	"qqr-hq/qqr/pkg/telemetry/metrics"
)

// Config holds the listener settings. All fields are fixed once Bind has
// been called.
type Config struct {
	// ListenAddress is the host:port to bind.
	ListenAddress string

	// MaxConnections bounds simultaneously open connections. Zero or less
	// means unlimited.
	MaxConnections int

	// IdleTimeout closes a connection when no complete frame arrives within
	// the interval. Zero disables the timeout.
	IdleTimeout time.Duration

	// WriteTimeout bounds writing one response. Zero disables the timeout.
	WriteTimeout time.Duration
}

// BindError reports a failure to bind the listen address, most commonly an
// occupied port or a privileged port without the capability.
type BindError struct {
	Address string
	Err     error
}

// Error implements the error interface.
func (e *BindError) Error() string {
	return fmt.Sprintf("bind %s: %v", e.Address, e.Err)
}

// Unwrap returns the underlying cause.
func (e *BindError) Unwrap() error {
	return e.Err
}

// Listener accepts TCP connections and runs one handler goroutine per
// connection. Frames are extracted by the configured codec and handed to
// the dispatcher; responses go back through the codec's encoder.
type Listener struct {
	cfg        Config
	codec      frame.Codec
	dispatcher dispatch.Dispatcher
	state      *lifecycle.State
	limiter    *limits.ConnLimiter
	metrics    *metrics.Collector
	logger     *slog.Logger

	ln net.Listener

	mu    sync.Mutex
	conns map[*conn]struct{}
	wg    sync.WaitGroup
}

// New creates an unbound listener. The metrics collector may be nil.
func New(cfg Config, codec frame.Codec, dispatcher dispatch.Dispatcher, state *lifecycle.State, collector *metrics.Collector, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{
		cfg:        cfg,
		codec:      codec,
		dispatcher: dispatcher,
		state:      state,
		limiter:    limits.NewConnLimiter(cfg.MaxConnections),
		metrics:    collector,
		logger:     logger,
		conns:      make(map[*conn]struct{}),
	}
}

// Bind claims the listen address. It is separate from Serve so the caller
// can surface a BindError before the serve loop starts, and so tests can
// learn the bound port when using port 0.
func (l *Listener) Bind() error {
	ln, err := net.Listen("tcp", l.cfg.ListenAddress)
	if err != nil {
		return &BindError{Address: l.cfg.ListenAddress, Err: err}
	}
	l.ln = ln
	l.logger.Info("listening",
		"address", ln.Addr().String(),
		"max_connections", l.cfg.MaxConnections,
		"idle_timeout", l.cfg.IdleTimeout,
	)
	return nil
}

// Addr returns the bound address, or nil before Bind.
func (l *Listener) Addr() net.Addr {
	if l.ln == nil {
		return nil
	}
	return l.ln.Addr()
}

// Serve runs the accept loop until the listener is closed; it returns nil
// on a drain-initiated close. Accept failures while still Running (fd
// exhaustion, aborted handshakes) are logged and retried after a short
// pause, never fatal: only leaving the Running phase ends the loop.
func (l *Listener) Serve() error {
	for {
		nc, err := l.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || !l.state.Running() {
				return nil
			}
			l.logger.Warn("accept failed, retrying", "error", err)
			time.Sleep(50 * time.Millisecond)
			continue
		}

		if !l.state.Running() {
			nc.Close()
			continue
		}
		if !l.limiter.Acquire() {
			l.metrics.ConnRejected()
			l.logger.Warn("connection rejected, limit reached",
				"remote", nc.RemoteAddr().String(),
				"limit", l.limiter.Limit(),
			)
			nc.Close()
			continue
		}

		c := newConn(nc, l)
		l.track(c)
		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			defer l.untrack(c)
			defer l.limiter.Release()
			c.serve()
		}()
	}
}

// CloseAccept stops the accept loop. Existing connections are unaffected.
func (l *Listener) CloseAccept() {
	if l.ln != nil {
		l.ln.Close()
	}
}

// Active returns the number of currently open connections.
func (l *Listener) Active() int64 {
	return l.limiter.Active()
}

// Drain waits up to timeout for all connection handlers to finish. It first
// wakes idle connections so they notice the drain instead of sitting in a
// blocked read, then waits; at the deadline every remaining connection is
// force-closed. The return value reports whether the drain completed
// without force-closing anything.
func (l *Listener) Drain(timeout time.Duration) bool {
	l.CloseAccept()
	l.nudgeIdle()

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
	}

	remaining := l.closeAll()
	l.logger.Warn("drain timeout, connections force-closed", "count", remaining)
	<-done
	return false
}

func (l *Listener) track(c *conn) {
	l.mu.Lock()
	l.conns[c] = struct{}{}
	l.mu.Unlock()
}

func (l *Listener) untrack(c *conn) {
	l.mu.Lock()
	delete(l.conns, c)
	l.mu.Unlock()
}

// nudgeIdle expires the read deadline of every connection that is not
// serving a request, so handlers blocked between frames return immediately
// rather than running out the idle timeout.
func (l *Listener) nudgeIdle() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for c := range l.conns {
		if !c.inFlight.Load() {
			c.raw.SetReadDeadline(time.Now())
		}
	}
}

func (l *Listener) closeAll() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	for c := range l.conns {
		c.raw.Close()
	}
	return len(l.conns)
}
