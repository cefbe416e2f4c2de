package listing

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository keeps the read model in process. Used for local runs and tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	listings map[uuid.UUID]Listing
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{listings: make(map[uuid.UUID]Listing)}
}

func (r *MemoryRepository) Insert(_ context.Context, l *Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listings[l.ID] = clone(*l)
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id uuid.UUID) (*Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.listings[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := clone(l)
	return &out, nil
}

func (r *MemoryRepository) Update(_ context.Context, l *Listing, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.listings[l.ID]
	if !ok {
		return ErrNotFound
	}
	if current.Version != expectedVersion {
		return ErrVersionChanged
	}
	r.listings[l.ID] = clone(*l)
	return nil
}

func (r *MemoryRepository) List(_ context.Context) ([]Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Listing, 0, len(r.listings))
	for _, l := range r.listings {
		if l.Status == StatusActive {
			out = append(out, clone(l))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func clone(l Listing) Listing {
	l.Amenities = append([]Amenity(nil), l.Amenities...)
	return l
}
