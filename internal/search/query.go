package search

import (
	"net/url"

	"rentalhub/internal/listing"
	"rentalhub/internal/rest"
)

// Query is a decoded search request.
type Query struct {
	Filters Filters
	Stay    DateRange
	Page    PageRequest
}

// HasStay reports whether either stay bound was given.
func (q Query) HasStay() bool {
	return !q.Stay.From.IsZero() || !q.Stay.To.IsZero()
}

// ParseQuery decodes query-string parameters. Malformed or unknown values are
// dropped so the matching dimension stays unfiltered.
func ParseQuery(v url.Values) Query {
	q := Query{
		Filters: Filters{
			Location: rest.ParseString(v, "location"),
			Category: rest.ParseString(v, "category"),
			PriceMin: rest.ParseFloat(v, "priceMin"),
			PriceMax: rest.ParseFloat(v, "priceMax"),
		},
		Stay: DateRange{
			From: rest.ParseDate(v, "checkIn"),
			To:   rest.ParseDate(v, "checkOut"),
		},
		Page: PageRequest{
			Page:  rest.ParseInt(v, "page"),
			Limit: rest.ParseInt(v, "limit"),
		},
	}

	if guests := rest.ParseInt(v, "guests"); guests != nil {
		q.Filters.Guests = *guests
	}
	for _, raw := range rest.ParseStringSlice(v, "propertyType") {
		if t, ok := listing.ParsePropertyType(raw); ok {
			q.Filters.PropertyTypes = append(q.Filters.PropertyTypes, t)
		}
	}
	for _, raw := range rest.ParseStringSlice(v, "amenities") {
		if a, ok := listing.ParseAmenity(raw); ok {
			q.Filters.Amenities = append(q.Filters.Amenities, a)
		}
	}
	return q
}
