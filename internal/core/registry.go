package core

import "sync"

// Registry is the threadsafe live session set of one room.
// It never opens adapter-owned resources; it closes a session only
// when a send to it failed and the session is being dropped.
type Registry struct {
	mu       sync.RWMutex
	sessions map[SessionID]Session
	retired  bool
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[SessionID]Session)}
}

// Add registers a session as a broadcast target. Returns false if the
// registry was already retired; the caller must re-resolve its room.
func (r *Registry) Add(s Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.retired {
		return false
	}
	r.sessions[s.ID()] = s
	return true
}

// Remove deletes a session by identity. Removing an unknown or
// already-removed session is a no-op.
func (r *Registry) Remove(id SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Retire marks an empty registry as dead so the directory can evict
// its room without racing a concurrent Add. Fails if sessions remain.
func (r *Registry) Retire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sessions) > 0 {
		return false
	}
	r.retired = true
	return true
}

// Broadcast sends data to every registered session. A failed send
// drops that session only; delivery to the rest continues. Dropped
// sessions are removed after the pass and closed.
func (r *Registry) Broadcast(data Frame) PublishResult {
	r.mu.RLock()
	var dropped []Session
	res := PublishResult{}
	for _, s := range r.sessions {
		if err := s.TrySend(data); err != nil {
			dropped = append(dropped, s)
			continue
		}
		res.SentTo++
	}
	r.mu.RUnlock()

	for _, s := range dropped {
		r.Remove(s.ID())
		s.Close()
	}
	res.Dropped = len(dropped)
	return res
}
