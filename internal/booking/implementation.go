package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"rentalhub/internal/listing"
	"rentalhub/internal/logger"
	"rentalhub/internal/search"
	"rentalhub/pkg/eventstore"
)

const aggregateType = "reservation"

// ListingSource looks up the listing a guest wants to book.
type ListingSource interface {
	GetListing(ctx context.Context, id uuid.UUID) (*listing.Listing, error)
}

// service implements the Service interface.
type service struct {
	events   eventstore.Store
	repo     Repository
	listings ListingSource
	policy   search.StayPolicy
	limiter  *rate.Limiter
	now      func() time.Time
}

// NewService creates a new booking service instance.
func NewService(events eventstore.Store, repo Repository, listings ListingSource, policy search.StayPolicy, limiter *rate.Limiter) Service {
	return &service{
		events:   events,
		repo:     repo,
		listings: listings,
		policy:   policy,
		limiter:  limiter,
		now:      time.Now,
	}
}

// NewLimiter allows perMinute reservation attempts a minute with the given burst.
func NewLimiter(perMinute, burst int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), max(1, burst))
}

// Reserve books a stay: it validates the request, checks the listing can
// take the party on those nights, records the event and stores the
// reservation.
func (s *service) Reserve(ctx context.Context, req Request) (*Reservation, error) {
	log := logger.FromContext(ctx).WithFields(logger.Fields{"listing_id": req.ListingID.String()})

	if !s.limiter.Allow() {
		return nil, ErrRateLimited
	}

	if fe := validateGuest(req); fe != nil {
		return nil, fe
	}

	if err := s.checkStay(req); err != nil {
		return nil, err
	}
	checkIn, checkOut := calendarDate(req.CheckIn), calendarDate(req.CheckOut)
	nights := search.Nights(checkIn, checkOut)

	l, err := s.listings.GetListing(ctx, req.ListingID)
	if errors.Is(err, listing.ErrNotFound) {
		return nil, ErrListingUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	if l.Status != listing.StatusActive {
		return nil, ErrListingUnavailable
	}
	if req.Guests > l.GuestCount {
		return nil, ErrCapacityExceeded
	}

	taken, err := s.repo.ActiveOverlapping(ctx, l.ID, checkIn, checkOut)
	if err != nil {
		return nil, fmt.Errorf("failed to check availability: %w", err)
	}
	if len(taken) > 0 {
		return nil, ErrDatesTaken
	}

	r := &Reservation{
		ID:         uuid.New(),
		ListingID:  l.ID,
		GuestName:  strings.TrimSpace(req.GuestName),
		GuestEmail: strings.TrimSpace(req.GuestEmail),
		Guests:     req.Guests,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Nights:     nights,
		TotalPrice: math.Round(float64(nights)*l.Price*100) / 100,
		Status:     StatusActive,
		Version:    1,
		CreatedAt:  s.now().UTC(),
	}

	event, err := eventstore.NewEvent(aggregateType, "ReservationCreated", ReservationCreatedEvent{
		ReservationID: r.ID,
		ListingID:     r.ListingID,
		GuestEmail:    r.GuestEmail,
		Guests:        r.Guests,
		CheckIn:       r.CheckIn,
		CheckOut:      r.CheckOut,
		TotalPrice:    r.TotalPrice,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}
	if err := s.events.Append(ctx, r.ID, aggregateType, 0, event); err != nil {
		return nil, fmt.Errorf("failed to append event: %w", err)
	}

	if err := s.repo.Insert(ctx, r); err != nil {
		s.compensate(ctx, log, r, "read model insert failed")
		if errors.Is(err, ErrDatesTaken) {
			return nil, ErrDatesTaken
		}
		return nil, fmt.Errorf("failed to update read model: %w", err)
	}

	log.Info("Reservation created", logger.Fields{
		"reservation_id": r.ID.String(),
		"nights":         r.Nights,
		"total_price":    r.TotalPrice,
	})
	return r, nil
}

// compensate voids the ReservationCreated event of a reservation that never
// reached the read model.
func (s *service) compensate(ctx context.Context, log logger.Logger, r *Reservation, reason string) {
	log.Warn("Compensating for failed reservation", logger.Fields{"reservation_id": r.ID.String(), "reason": reason})
	event, err := eventstore.NewEvent(aggregateType, "ReservationCancelled", ReservationCancelledEvent{
		ReservationID: r.ID,
		ListingID:     r.ListingID,
		Reason:        reason,
	})
	if err == nil {
		err = s.events.Append(ctx, r.ID, aggregateType, 1, event)
	}
	if err != nil {
		log.Error("Failed to compensate reservation", err, logger.Fields{"reservation_id": r.ID.String()})
	}
}

func (s *service) checkStay(req Request) error {
	errs := make(map[string]string)
	if req.CheckIn.IsZero() {
		errs[search.ErrKeyCheckIn] = "Check-in date is required"
	}
	if req.CheckOut.IsZero() {
		errs[search.ErrKeyCheckOut] = "Check-out date is required"
	}

	res := s.policy.ValidateAt(search.DateRange{From: req.CheckIn, To: req.CheckOut}, s.now())
	for k, v := range res.Errors {
		if _, set := errs[k]; !set {
			errs[k] = v
		}
	}
	if len(errs) > 0 {
		return &StayError{Errors: errs}
	}
	return nil
}

func validateGuest(req Request) FieldErrors {
	fe := FieldErrors{}
	if strings.TrimSpace(req.GuestName) == "" {
		fe["guest_name"] = "Guest name is required"
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(req.GuestEmail)); err != nil {
		fe["guest_email"] = "A valid email address is required"
	}
	if req.Guests < 1 {
		fe["guests"] = "At least one guest is required"
	}
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// Cancel calls off an active reservation.
func (s *service) Cancel(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	r, err := s.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	event, err := eventstore.NewEvent(aggregateType, "ReservationCancelled", ReservationCancelledEvent{
		ReservationID: r.ID,
		ListingID:     r.ListingID,
		Reason:        "guest cancelled",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}
	log := logger.FromContext(ctx)
	if err := s.events.Append(ctx, r.ID, aggregateType, r.Version, event); err != nil {
		if errors.Is(err, eventstore.ErrConcurrencyConflict) {
			return s.repairCancelled(ctx, log, r)
		}
		return nil, fmt.Errorf("failed to append event: %w", err)
	}

	err = s.repo.SetStatus(ctx, r.ID, StatusCancelled, r.Version)
	if errors.Is(err, errVersionChanged) {
		if current, getErr := s.repo.Get(ctx, r.ID); getErr == nil && current.Status == StatusCancelled {
			return current, nil
		}
	}
	if err != nil {
		log.Error("Cancellation recorded but read model not updated", err, logger.Fields{"reservation_id": r.ID.String()})
		return nil, fmt.Errorf("failed to update read model: %w", err)
	}
	r.Status = StatusCancelled
	r.Version++

	log.Info("Reservation cancelled", logger.Fields{"reservation_id": r.ID.String()})
	return r, nil
}

// repairCancelled handles a cancel whose append lost to an existing stream
// entry. If the stream already ends in a cancellation that the read model
// missed, the read model is brought up to date and the reservation returned
// as cancelled. Otherwise another request cancelled it first.
func (s *service) repairCancelled(ctx context.Context, log logger.Logger, r *Reservation) (*Reservation, error) {
	stream, err := s.events.Load(ctx, r.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reservation events: %w", err)
	}
	if len(stream) == 0 || stream[len(stream)-1].EventType != "ReservationCancelled" {
		return nil, ErrAlreadyCancelled
	}

	err = s.repo.SetStatus(ctx, r.ID, StatusCancelled, r.Version)
	if errors.Is(err, errVersionChanged) {
		return nil, ErrAlreadyCancelled
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update read model: %w", err)
	}

	log.Warn("Repaired read model of cancelled reservation", logger.Fields{"reservation_id": r.ID.String()})
	r.Status = StatusCancelled
	r.Version++
	return r, nil
}

func (s *service) GetReservation(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	r, err := s.repo.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return r, nil
}

// ListForListing returns every reservation of a listing, earliest check-in first.
func (s *service) ListForListing(ctx context.Context, listingID uuid.UUID) ([]Reservation, error) {
	rs, err := s.repo.ForListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return rs, nil
}
