// Package dispatch defines the unit-of-work model between the connection
// layer and the request handling logic.
//
// # Overview
//
// A connection handler turns each decoded frame into a Request and hands it
// to a Dispatcher. The Dispatcher never touches the socket; it consumes the
// Request exactly once and produces at most one Response. Failures are
// expressed as *Error values with one of three kinds:
//
//   - KindInvalid: the caller sent something the service cannot act on.
//     Never fatal; reported back on the connection.
//   - KindInternal: an unexpected failure inside the service. Logged, never
//     fatal to the process.
//   - KindUnavailable: the service is draining or overloaded. Returned
//     immediately so callers can back off rather than queue.
//
// # Composition
//
// Dispatchers compose like handlers:
//
//	d := dispatch.GateByLifecycle(state, recorder.Wrap(qrDispatcher))
//
// GateByLifecycle answers Unavailable as soon as the process starts
// draining, satisfying the shutdown contract without the inner dispatcher
// knowing about lifecycle at all.
package dispatch
