package search

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"rentalhub/internal/listing"
)

// Filters is a guest's search request. Every field is optional; a zero value
// leaves that dimension unfiltered.
type Filters struct {
	Location      string
	Guests        int
	Category      string
	PropertyTypes []listing.PropertyType
	Amenities     []listing.Amenity
	PriceMin      *float64
	PriceMax      *float64
}

// Pipeline applies Filters to a listing collection.
type Pipeline struct {
	categories Categories
}

// NewPipeline returns a pipeline resolving categories through c.
func NewPipeline(c Categories) *Pipeline {
	return &Pipeline{categories: c.normalize()}
}

// Categories returns the sorted category names the pipeline knows.
func (p *Pipeline) Categories() []string {
	return p.categories.Names()
}

// Apply returns the listings matching every supplied filter, in input order.
// The input slice is never modified.
func (p *Pipeline) Apply(listings []listing.Listing, f Filters) []listing.Listing {
	out := ByLocation(listings, f.Location)
	out = ByGuests(out, f.Guests)
	out = ByCategory(out, f.Category, p.categories)
	out = ByPropertyTypes(out, f.PropertyTypes)
	out = ByAmenities(out, f.Amenities)
	out = ByPriceRange(out, f.PriceMin, f.PriceMax)
	return append(make([]listing.Listing, 0, len(out)), out...)
}

// ByLocation keeps listings whose address, title, city or country contain loc,
// ignoring case.
func ByLocation(listings []listing.Listing, loc string) []listing.Listing {
	loc = strings.TrimSpace(loc)
	if loc == "" {
		return listings
	}
	caser := cases.Lower(language.Und)
	needle := caser.String(loc)
	return keep(listings, func(l listing.Listing) bool {
		haystack := strings.Join([]string{l.Location.Address, l.Title, l.Location.City, l.Location.Country}, " ")
		return strings.Contains(caser.String(haystack), needle)
	})
}

// ByGuests keeps listings that sleep at least guests people.
func ByGuests(listings []listing.Listing, guests int) []listing.Listing {
	if guests <= 0 {
		return listings
	}
	return keep(listings, func(l listing.Listing) bool { return l.GuestCount >= guests })
}

// ByCategory keeps listings mentioning any keyword of the named category.
// Category names match regardless of case; unknown or empty categories do
// not filter.
func ByCategory(listings []listing.Listing, category string, c Categories) []listing.Listing {
	keywords := c.keywords(category)
	if len(keywords) == 0 {
		return listings
	}
	return keep(listings, func(l listing.Listing) bool {
		parts := []string{l.Title, l.Description, string(l.PropertyType)}
		for _, a := range l.Amenities {
			parts = append(parts, string(a))
		}
		haystack := lower(strings.Join(parts, " "))
		for _, kw := range keywords {
			if strings.Contains(haystack, kw) {
				return true
			}
		}
		return false
	})
}

// ByPropertyTypes keeps listings of any of the given types.
func ByPropertyTypes(listings []listing.Listing, types []listing.PropertyType) []listing.Listing {
	if len(types) == 0 {
		return listings
	}
	want := make(map[listing.PropertyType]struct{}, len(types))
	for _, t := range types {
		want[t] = struct{}{}
	}
	return keep(listings, func(l listing.Listing) bool {
		_, ok := want[l.PropertyType]
		return ok
	})
}

// ByAmenities keeps listings offering every requested amenity.
func ByAmenities(listings []listing.Listing, amenities []listing.Amenity) []listing.Listing {
	if len(amenities) == 0 {
		return listings
	}
	return keep(listings, func(l listing.Listing) bool {
		for _, a := range amenities {
			if !l.HasAmenity(a) {
				return false
			}
		}
		return true
	})
}

// ByPriceRange keeps listings priced within [minPrice, maxPrice]. A bound that is
// negative or not a finite number is ignored, and an inverted range is
// ignored entirely.
func ByPriceRange(listings []listing.Listing, minPrice, maxPrice *float64) []listing.Listing {
	lo, hasLo := priceBound(minPrice)
	hi, hasHi := priceBound(maxPrice)
	if hasLo && hasHi && hi < lo {
		hasLo, hasHi = false, false
	}
	if !hasLo && !hasHi {
		return listings
	}
	return keep(listings, func(l listing.Listing) bool {
		if hasLo && l.Price < lo {
			return false
		}
		if hasHi && l.Price > hi {
			return false
		}
		return true
	})
}

func priceBound(v *float64) (float64, bool) {
	if v == nil || *v < 0 || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, false
	}
	return *v, true
}

func keep(listings []listing.Listing, pred func(listing.Listing) bool) []listing.Listing {
	out := make([]listing.Listing, 0, len(listings))
	for _, l := range listings {
		if pred(l) {
			out = append(out, l)
		}
	}
	return out
}

// lower is the case mapping used for every text comparison. A Caser keeps
// state, so each call gets its own.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
