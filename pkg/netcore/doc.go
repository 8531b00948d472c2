// Package netcore is the connection-serving core: the TCP listener, the
// accept loop and the per-connection handlers.
//
// # Ownership model
//
// Each accepted connection is owned by exactly one handler goroutine from
// accept to close. The socket, buffers and decoder/encoder pair are never
// shared, so no per-connection locking exists anywhere. The only state
// shared across goroutines is the lifecycle cell, the connection limiter
// and the registry used to force-close stragglers at drain timeout.
//
// # Request ordering
//
// The handler loop is strictly sequential: decode one frame, dispatch it,
// write the response, repeat. Pipelined requests on one connection are
// therefore answered in the order they arrived. No ordering is guaranteed
// across connections.
//
// # Failure containment
//
// A malformed frame, an I/O error or an idle timeout closes the offending
// connection only. Dispatcher panics are recovered into internal errors.
// Nothing a single client does can take down the process or another
// connection.
//
// # Shutdown
//
// Once the lifecycle cell leaves Running the accept loop exits, idle
// connections are nudged awake and closed, and handlers finish their
// in-flight response before exiting. Drain waits up to a configured
// timeout, then force-closes whatever remains.
package netcore
