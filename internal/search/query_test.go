package search

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentalhub/internal/listing"
)

func TestParseQuery(t *testing.T) {
	v, err := url.ParseQuery("location=Austin&guests=3&category=beach&propertyType=house,villa&propertyType=igloo" +
		"&amenities=wifi&amenities=pool&priceMin=50&priceMax=200.5&checkIn=2025-07-01&checkOut=2025-07-04&page=2&limit=5")
	require.NoError(t, err)

	q := ParseQuery(v)
	assert.Equal(t, "Austin", q.Filters.Location)
	assert.Equal(t, 3, q.Filters.Guests)
	assert.Equal(t, "beach", q.Filters.Category)
	assert.Equal(t, []listing.PropertyType{listing.PropertyHouse, listing.PropertyVilla}, q.Filters.PropertyTypes)
	assert.Equal(t, []listing.Amenity{listing.AmenityWifi, listing.AmenityPool}, q.Filters.Amenities)
	assert.Equal(t, 50.0, *q.Filters.PriceMin)
	assert.Equal(t, 200.5, *q.Filters.PriceMax)
	assert.Equal(t, time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), q.Stay.From)
	assert.Equal(t, 2, *q.Page.Page)
	assert.Equal(t, 5, *q.Page.Limit)
	assert.True(t, q.HasStay())
}

func TestParseQueryDropsMalformedValues(t *testing.T) {
	v := url.Values{
		"guests":   {"lots"},
		"priceMin": {"cheap"},
		"checkIn":  {"01/07/2025"},
		"page":     {"two"},
	}

	q := ParseQuery(v)
	assert.Zero(t, q.Filters.Guests)
	assert.Nil(t, q.Filters.PriceMin)
	assert.True(t, q.Stay.From.IsZero())
	assert.Nil(t, q.Page.Page)
	assert.False(t, q.HasStay())
}
