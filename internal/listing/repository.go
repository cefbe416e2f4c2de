package listing

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("listing not found")
	ErrVersionChanged = errors.New("listing was modified concurrently")
)

// Repository is the listing read model.
type Repository interface {
	Insert(ctx context.Context, l *Listing) error
	Get(ctx context.Context, id uuid.UUID) (*Listing, error)
	// Update stores l when the stored row is still at expectedVersion.
	Update(ctx context.Context, l *Listing, expectedVersion int) error
	// List returns every active listing, oldest first.
	List(ctx context.Context) ([]Listing, error)
}
