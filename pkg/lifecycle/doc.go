// Package lifecycle provides the process-wide shutdown state cell.
//
// # Overview
//
// A State moves through exactly three phases:
//
//	Running --> Draining --> Stopped
//
// Transitions are monotonic; there is no way back. A single writer (the
// server's shutdown path) drives the transitions, while any number of
// readers (the listener, connection handlers, the dispatcher gate) observe
// the current phase with a lock-free atomic load or block on the phase
// channels.
//
// # Usage
//
//	state := lifecycle.NewState()
//
//	// reader side
//	if !state.Running() {
//	    return dispatch.Unavailable(...)
//	}
//
//	// writer side
//	state.BeginDrain()
//	// ... wait for in-flight work ...
//	state.MarkStopped()
//
// The Draining and Done channels close when the corresponding phase is
// entered, so goroutines can select on them instead of polling.
package lifecycle
