package listing

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PropertyType is the kind of place a listing offers.
type PropertyType string

const (
	PropertyHouse     PropertyType = "house"
	PropertyApartment PropertyType = "apartment"
	PropertyRoom      PropertyType = "room"
	PropertyCabin     PropertyType = "cabin"
	PropertyVilla     PropertyType = "villa"
)

var propertyTypes = []PropertyType{PropertyHouse, PropertyApartment, PropertyRoom, PropertyCabin, PropertyVilla}

// PropertyTypes returns every known property type.
func PropertyTypes() []PropertyType {
	return append([]PropertyType(nil), propertyTypes...)
}

// ParsePropertyType reports whether s names a known property type.
func ParsePropertyType(s string) (PropertyType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range propertyTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Amenity is a facility offered by a listing.
type Amenity string

const (
	AmenityWifi            Amenity = "wifi"
	AmenityKitchen         Amenity = "kitchen"
	AmenityPool            Amenity = "pool"
	AmenityParking         Amenity = "parking"
	AmenityAirConditioning Amenity = "air_conditioning"
	AmenityWasher          Amenity = "washer"
	AmenityTV              Amenity = "tv"
	AmenityWorkspace       Amenity = "workspace"
	AmenityFireplace       Amenity = "fireplace"
	AmenityHotTub          Amenity = "hot_tub"
	AmenityBeachAccess     Amenity = "beach_access"
	AmenityPetsAllowed     Amenity = "pets_allowed"
)

var amenities = []Amenity{
	AmenityWifi, AmenityKitchen, AmenityPool, AmenityParking, AmenityAirConditioning, AmenityWasher,
	AmenityTV, AmenityWorkspace, AmenityFireplace, AmenityHotTub, AmenityBeachAccess, AmenityPetsAllowed,
}

// Amenities returns every known amenity.
func Amenities() []Amenity {
	return append([]Amenity(nil), amenities...)
}

// ParseAmenity reports whether s names a known amenity.
func ParseAmenity(s string) (Amenity, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, a := range amenities {
		if string(a) == s {
			return a, true
		}
	}
	return "", false
}

// Listing statuses.
const (
	StatusActive  = "active"
	StatusRemoved = "removed"
)

// Location is the structured address of a listing. Every part is optional.
type Location struct {
	Address string `json:"address,omitempty" yaml:"address"`
	City    string `json:"city,omitempty" yaml:"city"`
	Country string `json:"country,omitempty" yaml:"country"`
}

// Listing is a rentable property.
type Listing struct {
	ID           uuid.UUID    `json:"id"`
	HostID       uuid.UUID    `json:"host_id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Location     Location     `json:"location"`
	GuestCount   int          `json:"guest_count"`
	PropertyType PropertyType `json:"property_type"`
	Amenities    []Amenity    `json:"amenities"`
	Price        float64      `json:"price"`
	Status       string       `json:"status"`
	Version      int          `json:"version"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// HasAmenity reports whether the listing offers a.
func (l Listing) HasAmenity(a Amenity) bool {
	for _, have := range l.Amenities {
		if have == a {
			return true
		}
	}
	return false
}

// ListingPublishedEvent is recorded when a host publishes a listing.
type ListingPublishedEvent struct {
	ID           uuid.UUID    `json:"id"`
	HostID       uuid.UUID    `json:"host_id"`
	Title        string       `json:"title"`
	City         string       `json:"city"`
	Country      string       `json:"country"`
	GuestCount   int          `json:"guest_count"`
	PropertyType PropertyType `json:"property_type"`
	Price        float64      `json:"price"`
}

// ListingUpdatedEvent is recorded when a host edits a listing.
type ListingUpdatedEvent struct {
	ID    uuid.UUID `json:"id"`
	Draft Draft     `json:"draft"`
}

// ListingRemovedEvent is recorded when a listing is taken off the market.
type ListingRemovedEvent struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}
