package quiz

import "sync"

// Session serialises actions against one State so it can be shared
// between goroutines, e.g. a generation callback and an input loop.
type Session struct {
	mu    sync.RWMutex
	state State
}

func NewSession() *Session {
	return &Session{state: Initial()}
}

// Dispatch applies the actions in order and returns the resulting state.
func (s *Session) Dispatch(actions ...Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range actions {
		s.state = Reduce(s.state, a)
	}
	return s.state.clone()
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}
