package lifecycle

import "sync/atomic"

// Phase is one step of the process lifecycle.
type Phase int32

const (
	// Running means the service accepts connections and requests.
	Running Phase = iota

	// Draining means no new connections or requests are accepted while
	// in-flight work is allowed to finish.
	Draining

	// Stopped means all work has finished or been force-closed.
	Stopped
)

// String returns the lowercase phase name.
func (p Phase) String() string {
	switch p {
	case Running:
		return "running"
	case Draining:
		return "draining"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// State is the shared lifecycle cell. It is created in the Running phase
// and only ever moves forward. All methods are safe for concurrent use.
type State struct {
	phase   atomic.Int32
	drainCh chan struct{}
	doneCh  chan struct{}
}

// NewState returns a State in the Running phase.
func NewState() *State {
	return &State{
		drainCh: make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// Phase returns the current phase.
func (s *State) Phase() Phase {
	return Phase(s.phase.Load())
}

// Running reports whether the state is still in the Running phase.
func (s *State) Running() bool {
	return s.Phase() == Running
}

// BeginDrain moves Running to Draining. It returns true if this call
// performed the transition, false if the state had already left Running.
func (s *State) BeginDrain() bool {
	if s.phase.CompareAndSwap(int32(Running), int32(Draining)) {
		close(s.drainCh)
		return true
	}
	return false
}

// MarkStopped moves the state to Stopped, passing through Draining if the
// state is still Running. It returns true if this call performed the final
// transition.
func (s *State) MarkStopped() bool {
	s.BeginDrain()
	if s.phase.CompareAndSwap(int32(Draining), int32(Stopped)) {
		close(s.doneCh)
		return true
	}
	return false
}

// Draining returns a channel that is closed once the state leaves Running.
func (s *State) Draining() <-chan struct{} {
	return s.drainCh
}

// Done returns a channel that is closed once the state reaches Stopped.
func (s *State) Done() <-chan struct{} {
	return s.doneCh
}
