package bootstrap

import (
	"context"

	"rentalhub/internal/booking"
	"rentalhub/internal/listing"
)

// ListingRepository returns the listing read model for the configured backend.
func (a *App) ListingRepository(ctx context.Context) (listing.Repository, error) {
	if a.DB == nil {
		return listing.NewMemoryRepository(), nil
	}
	repo := listing.NewPostgresRepository(a.DB)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

// BookingRepository returns the reservation read model for the configured backend.
func (a *App) BookingRepository(ctx context.Context) (booking.Repository, error) {
	if a.DB == nil {
		return booking.NewMemoryRepository(), nil
	}
	repo := booking.NewPostgresRepository(a.DB)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}
