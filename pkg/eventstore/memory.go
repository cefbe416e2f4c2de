package eventstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store for development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	streams map[uuid.UUID][]Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{streams: make(map[uuid.UUID][]Event)}
}

func (s *MemoryStore) Append(_ context.Context, aggregateID uuid.UUID, aggregateType string, expectedVersion int, events ...Event) error {
	if len(events) == 0 {
		return ErrNoEvents
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stream := s.streams[aggregateID]
	if len(stream) != expectedVersion {
		return ErrConcurrencyConflict
	}

	now := time.Now().UTC()
	for i, event := range events {
		s.nextID++
		event.ID = s.nextID
		event.AggregateID = aggregateID
		event.AggregateType = aggregateType
		event.Version = expectedVersion + i + 1
		event.CreatedAt = now
		stream = append(stream, event)
	}
	s.streams[aggregateID] = stream
	return nil
}

func (s *MemoryStore) Load(_ context.Context, aggregateID uuid.UUID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event(nil), s.streams[aggregateID]...), nil
}

func (s *MemoryStore) Version(_ context.Context, aggregateID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.streams[aggregateID]), nil
}
