package requestlog

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"qqr-hq/qqr/pkg/dispatch"
)

// Recorder is dispatcher middleware that logs every request passing
// through it. Records are queued and written by a background goroutine;
// the serving path never waits on the database.
type Recorder struct {
	next    dispatch.Dispatcher
	store   *Store
	logger  *slog.Logger
	entries chan *Record
	dropped atomic.Int64

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewRecorder wraps next with request logging.
func NewRecorder(next dispatch.Dispatcher, store *Store, bufferSize int, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	if bufferSize <= 0 {
		bufferSize = 1024
	}
	return &Recorder{
		next:    next,
		store:   store,
		logger:  logger,
		entries: make(chan *Record, bufferSize),
		stopCh:  make(chan struct{}),
	}
}

// Start launches the background writer.
func (r *Recorder) Start() {
	r.wg.Add(1)
	go r.runWriter()
}

// Handle implements dispatch.Dispatcher.
func (r *Recorder) Handle(ctx context.Context, req *dispatch.Request) (*dispatch.Response, error) {
	start := time.Now()
	resp, err := r.next.Handle(ctx, req)

	rec := &Record{
		ID:         req.ID,
		ConnID:     req.ConnID,
		ReceivedAt: req.ReceivedAt,
		Meta:       req.Meta,
		Duration:   time.Since(start),
	}
	switch {
	case err != nil:
		de := dispatch.AsError(err)
		rec.Outcome = de.Kind.String()
		rec.ErrorCode = de.Code
	case resp.Err != nil:
		rec.Outcome = resp.Err.Kind.String()
		rec.ErrorCode = resp.Err.Code
		rec.ResponseBytes = resp.Size()
	default:
		rec.Outcome = "ok"
		rec.ResponseBytes = resp.Size()
	}

	select {
	case r.entries <- rec:
	default:
		// Full queue: drop rather than block the connection.
		r.dropped.Add(1)
	}

	return resp, err
}

// Dropped returns the number of records lost to a full queue.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Close stops the writer after flushing queued records.
func (r *Recorder) Close() {
	r.stopOnce.Do(func() { close(r.stopCh) })
	r.wg.Wait()
}

func (r *Recorder) runWriter() {
	defer r.wg.Done()

	for {
		select {
		case rec := <-r.entries:
			r.write(rec)
		case <-r.stopCh:
			for {
				select {
				case rec := <-r.entries:
					r.write(rec)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(rec *Record) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.store.Insert(ctx, rec); err != nil {
		r.logger.Warn("failed to write request record", "request_id", rec.ID, "error", err)
	}
}
