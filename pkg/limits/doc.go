// Package limits provides connection-level backpressure for the server.
//
// # Overview
//
// The only resource the core has to protect is the number of simultaneously
// open connections. ConnLimiter is a lock-free counting semaphore: the
// accept loop acquires a slot per connection and releases it when the
// connection handler exits. When no slot is available the connection is
// rejected (closed immediately) rather than queued, so load never builds up
// an unbounded backlog.
//
// # Usage
//
//	limiter := limits.NewConnLimiter(1024)
//	if !limiter.Acquire() {
//	    conn.Close() // over limit, reject
//	    return
//	}
//	defer limiter.Release()
package limits
