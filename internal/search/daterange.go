// Package search narrows the listing catalogue down to what a guest asked for:
// stay validation, the filter pipeline and result pagination.
package search

import (
	"fmt"
	"math"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// Error keys of a ValidationResult.
const (
	ErrKeyCheckIn   = "checkIn"
	ErrKeyCheckOut  = "checkOut"
	ErrKeyDateRange = "dateRange"
)

// DateRange is a proposed stay. A zero time means the bound was not given.
type DateRange struct {
	From time.Time
	To   time.Time
}

// StayPolicy holds the allowed stay length in nights.
type StayPolicy struct {
	MinNights int
	MaxNights int
}

// DefaultStayPolicy allows stays of one to thirty nights.
var DefaultStayPolicy = StayPolicy{MinNights: 1, MaxNights: 30}

// ValidationResult reports every rule a DateRange breaks.
type ValidationResult struct {
	IsValid bool              `json:"isValid"`
	Errors  map[string]string `json:"errors"`
	Nights  *int              `json:"nights"`
}

// Validate checks r against today's date.
func (p StayPolicy) Validate(r DateRange) ValidationResult {
	return p.ValidateAt(r, time.Now())
}

// ValidateAt checks r as if the current time were now. All rules run; their
// errors are merged.
func (p StayPolicy) ValidateAt(r DateRange, now time.Time) ValidationResult {
	errs := make(map[string]string)
	var nights *int

	if !r.From.IsZero() && midnight(r.From).Before(midnight(now)) {
		errs[ErrKeyCheckIn] = "Check-in date cannot be in the past"
	}

	if !r.From.IsZero() && !r.To.IsZero() {
		n := Nights(r.From, r.To)
		nights = &n
		switch {
		case n <= 0:
			errs[ErrKeyCheckOut] = "Check-out must be after check-in"
		case n < p.MinNights:
			errs[ErrKeyDateRange] = "Minimum stay is " + pluralNights(p.MinNights)
		case n > p.MaxNights:
			errs[ErrKeyDateRange] = "Maximum stay is " + pluralNights(p.MaxNights)
		}
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs, Nights: nights}
}

// Nights counts the nights between two calendar dates. Time of day is ignored
// and the result is negative when to precedes from.
func Nights(from, to time.Time) int {
	secs := midnight(to).Unix() - midnight(from).Unix()
	return int(math.Ceil(float64(secs) / secondsPerDay))
}

// midnight keeps the calendar day of t as seen in its own location and pins
// it to UTC so that day arithmetic never crosses a DST change.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func pluralNights(n int) string {
	if n == 1 {
		return "1 night"
	}
	return fmt.Sprintf("%d nights", n)
}
