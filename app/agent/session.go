package agent

import "sync"

// Session is the process-wide slot holding the pipeline of the most
// recently processed document. Replace publishes a fully constructed
// pipeline in one step, so readers observe either the previous complete
// pipeline or the new one, never a half-built state. When two uploads
// race, the one that completes last wins.
type Session struct {
	mu       sync.RWMutex
	pipeline *Pipeline
}

func NewSession() *Session {
	return &Session{}
}

// Current returns the active pipeline, or nil before the first
// successful upload.
func (s *Session) Current() *Pipeline {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pipeline
}

// Replace swaps in the pipeline of a newly processed document. The
// previous pipeline is simply unreferenced and garbage-collected.
func (s *Session) Replace(p *Pipeline) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pipeline = p
}
