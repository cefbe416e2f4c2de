package listing

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the interface for the listing catalogue.
type Service interface {
	CreateListing(ctx context.Context, d Draft) (*Listing, error)
	GetListing(ctx context.Context, id uuid.UUID) (*Listing, error)
	UpdateListing(ctx context.Context, id uuid.UUID, d Draft) (*Listing, error)
	RemoveListing(ctx context.Context, id uuid.UUID) error
	ListListings(ctx context.Context) ([]Listing, error)
}
