// Package booking turns a guest's stay request into a reservation.
package booking

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Reservation statuses.
const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
)

// Reservation is a confirmed stay at a listing. CheckIn and CheckOut are
// calendar dates at UTC midnight.
type Reservation struct {
	ID         uuid.UUID `json:"id"`
	ListingID  uuid.UUID `json:"listing_id"`
	GuestName  string    `json:"guest_name"`
	GuestEmail string    `json:"guest_email"`
	Guests     int       `json:"guests"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	Nights     int       `json:"nights"`
	TotalPrice float64   `json:"total_price"`
	Status     string    `json:"status"`
	Version    int       `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
}

// Overlaps reports whether two stays share at least one night. A check-out
// on the day of another check-in does not overlap.
func (r Reservation) Overlaps(checkIn, checkOut time.Time) bool {
	return r.CheckIn.Before(checkOut) && checkIn.Before(r.CheckOut)
}

// Request is what a guest submits to book a stay.
type Request struct {
	ListingID  uuid.UUID
	GuestName  string
	GuestEmail string
	Guests     int
	CheckIn    time.Time
	CheckOut   time.Time
}

// ReservationCreatedEvent is recorded when a stay is booked.
type ReservationCreatedEvent struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	ListingID     uuid.UUID `json:"listing_id"`
	GuestEmail    string    `json:"guest_email"`
	Guests        int       `json:"guests"`
	CheckIn       time.Time `json:"check_in"`
	CheckOut      time.Time `json:"check_out"`
	TotalPrice    float64   `json:"total_price"`
}

// ReservationCancelledEvent is recorded when a stay is called off.
type ReservationCancelledEvent struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	ListingID     uuid.UUID `json:"listing_id"`
	Reason        string    `json:"reason"`
}

var (
	ErrRateLimited        = errors.New("too many reservation attempts, try again shortly")
	ErrListingUnavailable = errors.New("listing is not available for booking")
	ErrCapacityExceeded   = errors.New("listing cannot host that many guests")
	ErrDatesTaken         = errors.New("listing is already booked for some of those nights")
	ErrNotFound           = errors.New("reservation not found")
	ErrAlreadyCancelled   = errors.New("reservation is already cancelled")
)

// StayError carries the stay rules a request broke, keyed like the
// search validator: checkIn, checkOut, dateRange.
type StayError struct {
	Errors map[string]string
}

func (e *StayError) Error() string {
	return "invalid stay: " + joinFields(e.Errors)
}

// FieldErrors carries problems with the guest details of a request.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	return "invalid reservation request: " + joinFields(fe)
}

func joinFields(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, m[k])
	}
	return strings.Join(parts, "; ")
}

func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
