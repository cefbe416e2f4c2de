package listing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rentalhub/internal/logger"
	"rentalhub/pkg/eventstore"
)

const aggregateType = "listing"

// service implements the Service interface.
type service struct {
	events eventstore.Store
	repo   Repository
	now    func() time.Time
}

// NewService creates a new listing service instance.
func NewService(events eventstore.Store, repo Repository) Service {
	return &service{
		events: events,
		repo:   repo,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateListing publishes a new listing.
func (s *service) CreateListing(ctx context.Context, d Draft) (*Listing, error) {
	if errs := d.Validate(); errs != nil {
		return nil, errs
	}

	now := s.now()
	l := &Listing{ID: uuid.New(), Status: StatusActive, CreatedAt: now, UpdatedAt: now}
	d.apply(l)

	event, err := eventstore.NewEvent(aggregateType, "ListingPublished", ListingPublishedEvent{
		ID:           l.ID,
		HostID:       l.HostID,
		Title:        l.Title,
		City:         l.Location.City,
		Country:      l.Location.Country,
		GuestCount:   l.GuestCount,
		PropertyType: l.PropertyType,
		Price:        l.Price,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}
	if err := s.events.Append(ctx, l.ID, aggregateType, 0, event); err != nil {
		return nil, fmt.Errorf("failed to append event: %w", err)
	}

	l.Version = 1
	if err := s.repo.Insert(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to update read model: %w", err)
	}

	logger.FromContext(ctx).Info("Listing published", logger.Fields{
		"listing_id": l.ID.String(),
		"city":       l.Location.City,
	})
	return l, nil
}

// GetListing returns a listing by id, removed listings included.
func (s *service) GetListing(ctx context.Context, id uuid.UUID) (*Listing, error) {
	l, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get listing from read model: %w", err)
	}
	return l, nil
}

// UpdateListing replaces the host-editable fields of an active listing.
func (s *service) UpdateListing(ctx context.Context, id uuid.UUID, d Draft) (*Listing, error) {
	if errs := d.Validate(); errs != nil {
		return nil, errs
	}

	l, err := s.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.Status != StatusActive {
		return nil, ErrNotFound
	}

	event, err := eventstore.NewEvent(aggregateType, "ListingUpdated", ListingUpdatedEvent{ID: id, Draft: d})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}
	if err := s.appendAt(ctx, l, event); err != nil {
		return nil, err
	}

	expected := l.Version
	d.apply(l)
	l.Version++
	l.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, l, expected); err != nil {
		return nil, fmt.Errorf("failed to update read model: %w", err)
	}

	logger.FromContext(ctx).Info("Listing updated", logger.Fields{"listing_id": id.String(), "version": l.Version})
	return l, nil
}

// RemoveListing takes a listing off the market. Its history is kept.
func (s *service) RemoveListing(ctx context.Context, id uuid.UUID) error {
	l, err := s.GetListing(ctx, id)
	if err != nil {
		return err
	}
	if l.Status == StatusRemoved {
		return nil
	}

	event, err := eventstore.NewEvent(aggregateType, "ListingRemoved", ListingRemovedEvent{ID: id, Status: StatusRemoved})
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}
	if err := s.appendAt(ctx, l, event); err != nil {
		return err
	}

	expected := l.Version
	l.Status = StatusRemoved
	l.Version++
	l.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, l, expected); err != nil {
		return fmt.Errorf("failed to update read model: %w", err)
	}

	logger.FromContext(ctx).Info("Listing removed", logger.Fields{"listing_id": id.String()})
	return nil
}

// ListListings returns every active listing.
func (s *service) ListListings(ctx context.Context) ([]Listing, error) {
	listings, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	return listings, nil
}

func (s *service) appendAt(ctx context.Context, l *Listing, event eventstore.Event) error {
	err := s.events.Append(ctx, l.ID, aggregateType, l.Version, event)
	if errors.Is(err, eventstore.ErrConcurrencyConflict) {
		return ErrVersionChanged
	}
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}
