package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository keeps reservations in process. Used for local runs and tests.
type MemoryRepository struct {
	mu           sync.RWMutex
	reservations map[uuid.UUID]Reservation
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{reservations: make(map[uuid.UUID]Reservation)}
}

func (m *MemoryRepository) Insert(_ context.Context, r *Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.reservations {
		if other.ListingID == r.ListingID && other.Status == StatusActive && other.Overlaps(r.CheckIn, r.CheckOut) {
			return ErrDatesTaken
		}
	}
	m.reservations[r.ID] = *r
	return nil
}

func (m *MemoryRepository) Get(_ context.Context, id uuid.UUID) (*Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reservations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (m *MemoryRepository) SetStatus(_ context.Context, id uuid.UUID, status string, expectedVersion int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return ErrNotFound
	}
	if r.Version != expectedVersion {
		return errVersionChanged
	}
	r.Status = status
	r.Version++
	m.reservations[id] = r
	return nil
}

func (m *MemoryRepository) ActiveOverlapping(_ context.Context, listingID uuid.UUID, checkIn, checkOut time.Time) ([]Reservation, error) {
	return m.collect(func(r Reservation) bool {
		return r.ListingID == listingID && r.Status == StatusActive && r.Overlaps(checkIn, checkOut)
	}), nil
}

func (m *MemoryRepository) ForListing(_ context.Context, listingID uuid.UUID) ([]Reservation, error) {
	return m.collect(func(r Reservation) bool { return r.ListingID == listingID }), nil
}

func (m *MemoryRepository) collect(pred func(Reservation) bool) []Reservation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Reservation
	for _, r := range m.reservations {
		if pred(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CheckIn.Equal(out[j].CheckIn) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CheckIn.Before(out[j].CheckIn)
	})
	return out
}
