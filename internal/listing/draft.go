package listing

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	maxTitleLength = 120
	maxGuests      = 50
)

// Draft holds the host-editable fields of a listing.
type Draft struct {
	HostID       uuid.UUID `json:"host_id" yaml:"host_id"`
	Title        string    `json:"title" yaml:"title"`
	Description  string    `json:"description" yaml:"description"`
	Location     Location  `json:"location" yaml:"location"`
	GuestCount   int       `json:"guest_count" yaml:"guest_count"`
	PropertyType string    `json:"property_type" yaml:"property_type"`
	Amenities    []string  `json:"amenities" yaml:"amenities"`
	Price        float64   `json:"price" yaml:"price"`
}

// FieldErrors maps a draft field to what is wrong with it.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for field, msg := range fe {
		parts = append(parts, field+": "+msg)
	}
	return "invalid listing: " + strings.Join(parts, "; ")
}

// Validate runs the onboarding checks and returns nil when the draft is publishable.
func (d Draft) Validate() FieldErrors {
	errs := FieldErrors{}

	title := strings.TrimSpace(d.Title)
	switch {
	case title == "":
		errs["title"] = "Title is required"
	case utf8.RuneCountInString(title) > maxTitleLength:
		errs["title"] = fmt.Sprintf("Title must be at most %d characters", maxTitleLength)
	}

	if strings.TrimSpace(d.Location.City) == "" && strings.TrimSpace(d.Location.Country) == "" {
		errs["location"] = "City or country is required"
	}

	if d.GuestCount < 1 || d.GuestCount > maxGuests {
		errs["guest_count"] = fmt.Sprintf("Guest count must be between 1 and %d", maxGuests)
	}

	if d.Price < 0 || math.IsNaN(d.Price) || math.IsInf(d.Price, 0) {
		errs["price"] = "Price must be a non-negative amount"
	}

	if _, ok := ParsePropertyType(d.PropertyType); !ok {
		errs["property_type"] = fmt.Sprintf("Unknown property type %q", d.PropertyType)
	}

	for _, a := range d.Amenities {
		if _, ok := ParseAmenity(a); !ok {
			errs["amenities"] = fmt.Sprintf("Unknown amenity %q", a)
			break
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// apply copies a validated draft onto l.
func (d Draft) apply(l *Listing) {
	l.HostID = d.HostID
	l.Title = strings.TrimSpace(d.Title)
	l.Description = strings.TrimSpace(d.Description)
	l.Location = Location{
		Address: strings.TrimSpace(d.Location.Address),
		City:    strings.TrimSpace(d.Location.City),
		Country: strings.TrimSpace(d.Location.Country),
	}
	l.GuestCount = d.GuestCount
	l.PropertyType, _ = ParsePropertyType(d.PropertyType)
	l.Price = d.Price

	l.Amenities = make([]Amenity, 0, len(d.Amenities))
	seen := make(map[Amenity]struct{}, len(d.Amenities))
	for _, raw := range d.Amenities {
		a, _ := ParseAmenity(raw)
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		l.Amenities = append(l.Amenities, a)
	}
}
