package dispatch

import (
	"context"

	"qqr-hq/qqr/pkg/lifecycle"
)

// Dispatcher routes one Request to handling logic and produces a Response.
//
// Implementations must be safe for concurrent use from many connection
// handlers and must never touch connection state; any internal shared state
// has to carry its own synchronization.
type Dispatcher interface {
	Handle(ctx context.Context, req *Request) (*Response, error)
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(ctx context.Context, req *Request) (*Response, error)

// Handle calls f.
func (f DispatcherFunc) Handle(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// GateByLifecycle wraps next so that once the process leaves the Running
// phase every new request is answered Unavailable instead of being handed
// to next. Requests already inside next are unaffected.
func GateByLifecycle(state *lifecycle.State, next Dispatcher) Dispatcher {
	return DispatcherFunc(func(ctx context.Context, req *Request) (*Response, error) {
		if !state.Running() {
			return nil, Unavailable("service is draining")
		}
		return next.Handle(ctx, req)
	})
}
