package memory

import (
	"context"
	"sync"
)

// EventStore is the in-process stand-in for the redis webhook dedup store.
type EventStore struct {
	mu   sync.Mutex
	seen map[string]bool
}

func NewEventStore() *EventStore {
	return &EventStore{seen: map[string]bool{}}
}

func (s *EventStore) MarkProcessed(_ context.Context, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seen[eventID] {
		return false, nil
	}
	s.seen[eventID] = true
	return true, nil
}

func (s *EventStore) Release(_ context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.seen, eventID)
	return nil
}
