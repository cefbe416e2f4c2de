package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var errVersionChanged = errors.New("reservation was modified concurrently")

// Repository is the reservation read model.
type Repository interface {
	// Insert stores r unless an active reservation of the same listing
	// overlaps it, in which case it returns ErrDatesTaken.
	Insert(ctx context.Context, r *Reservation) error
	Get(ctx context.Context, id uuid.UUID) (*Reservation, error)
	// SetStatus moves r to status when it is still at expectedVersion.
	SetStatus(ctx context.Context, id uuid.UUID, status string, expectedVersion int) error
	// ActiveOverlapping lists active reservations of a listing sharing a night with [checkIn, checkOut).
	ActiveOverlapping(ctx context.Context, listingID uuid.UUID, checkIn, checkOut time.Time) ([]Reservation, error)
	ForListing(ctx context.Context, listingID uuid.UUID) ([]Reservation, error)
}
