package contextengine

import (
	"sync"
	"time"
)

// maxEvents bounds the in-memory update trail so a long-running process
// cannot grow without limit; the persisted audit log keeps the full record.
const maxEvents = 128

// UpdateEvent records one context mutation with the resulting snapshot.
// Events are audit-only and are never read back into request logic.
type UpdateEvent struct {
	Timestamp time.Time
	Snapshot  Context
}

// Store holds the process-wide business context behind a small critical
// section, so a reader never observes a partially merged mapping.
type Store struct {
	mu      sync.RWMutex
	current Context
	events  []UpdateEvent
}

func NewStore(defaults Context) *Store {
	return &Store{current: defaults.Clone()}
}

// Update mutates the context. With merge true the new keys overwrite
// existing ones key-wise; otherwise the whole mapping is replaced.
// Every call appends an UpdateEvent.
func (s *Store) Update(ctx Context, merge bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if merge {
		s.current = Merge(s.current, ctx)
	} else {
		s.current = ctx.Clone()
	}
	s.appendEvent()
}

// Get returns a defensive copy of the current context.
func (s *Store) Get() Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Clear resets the context to an empty mapping. The reset is still recorded
// as an update event with an empty snapshot.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Context{}
	s.appendEvent()
}

// Events returns a copy of the recorded update trail, oldest first.
func (s *Store) Events() []UpdateEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]UpdateEvent, len(s.events))
	copy(out, s.events)
	return out
}

func (s *Store) appendEvent() {
	if len(s.events) == maxEvents {
		copy(s.events, s.events[1:])
		s.events = s.events[:maxEvents-1]
	}
	s.events = append(s.events, UpdateEvent{
		Timestamp: time.Now().UTC(),
		Snapshot:  s.current.Clone(),
	})
}
