package booking

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the interface for the booking service.
type Service interface {
	Reserve(ctx context.Context, req Request) (*Reservation, error)
	Cancel(ctx context.Context, id uuid.UUID) (*Reservation, error)
	GetReservation(ctx context.Context, id uuid.UUID) (*Reservation, error)
	ListForListing(ctx context.Context, listingID uuid.UUID) ([]Reservation, error)
}
