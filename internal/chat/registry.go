package chat

import (
	"context"
	"sync"
	"time"
)

// SessionFactory builds the session for a conversation id.
type SessionFactory func(ctx context.Context, id string) *Session

// Registry holds one Session per conversation, created on first use.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	factory  SessionFactory
	onEvict  func(id string)
}

// NewRegistry creates an empty registry.
func NewRegistry(factory SessionFactory) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		factory:  factory,
	}
}

// Get returns the session for id, creating it when needed.
func (r *Registry) Get(ctx context.Context, id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s
	}
	s := r.factory(ctx, id)
	r.sessions[id] = s
	return s
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Each calls fn for every session.
func (r *Registry) Each(fn func(*Session)) {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.Unlock()

	for _, s := range sessions {
		fn(s)
	}
}

// OnEvict registers fn to run with the id of every evicted session.
func (r *Registry) OnEvict(fn func(id string)) {
	r.mu.Lock()
	r.onEvict = fn
	r.mu.Unlock()
}

// Evict drops the sessions idle since before cutoff and returns their ids.
// Sessions with a request in flight are kept. A later Get for an evicted id
// starts a fresh conversation with the persisted language.
func (r *Registry) Evict(cutoff time.Time) []string {
	r.mu.Lock()
	var evicted []string
	for id, s := range r.sessions {
		if s.Processing() || !s.LastActive().Before(cutoff) {
			continue
		}
		delete(r.sessions, id)
		evicted = append(evicted, id)
	}
	onEvict := r.onEvict
	r.mu.Unlock()

	if onEvict != nil {
		for _, id := range evicted {
			onEvict(id)
		}
	}
	return evicted
}
