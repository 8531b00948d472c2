package limits

import "sync/atomic"

// ConnLimiter bounds the number of simultaneously open connections.
//
// It is a counting semaphore implemented with a single atomic counter:
// increment, check against the limit, and undo the increment on rejection.
// No locks are taken on the accept path.
type ConnLimiter struct {
	limit  int64
	active atomic.Int64
}

// NewConnLimiter creates a limiter allowing at most limit concurrent
// connections. A limit of zero or less disables the limiter.
func NewConnLimiter(limit int) *ConnLimiter {
	return &ConnLimiter{limit: int64(limit)}
}

// Acquire attempts to claim a connection slot. It returns true if the slot
// was claimed; the caller must then call Release exactly once when the
// connection is done. On false the connection must be rejected.
func (l *ConnLimiter) Acquire() bool {
	if l.limit <= 0 {
		l.active.Add(1)
		return true
	}
	if l.active.Add(1) > l.limit {
		l.active.Add(-1)
		return false
	}
	return true
}

// Release returns a slot claimed by a successful Acquire.
func (l *ConnLimiter) Release() {
	l.active.Add(-1)
}

// Active returns the number of currently claimed slots.
func (l *ConnLimiter) Active() int64 {
	return l.active.Load()
}

// Limit returns the configured maximum. Zero or less means unlimited.
func (l *ConnLimiter) Limit() int64 {
	return l.limit
}

// Available returns the number of free slots, or a negative number when the
// limiter is unlimited.
func (l *ConnLimiter) Available() int64 {
	if l.limit <= 0 {
		return -1
	}
	free := l.limit - l.active.Load()
	if free < 0 {
		return 0
	}
	return free
}
