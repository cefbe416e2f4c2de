package listing

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() Draft {
	return Draft{
		Title:        "Loft near Zilker Park",
		Description:  "Bright loft with a workspace",
		Location:     Location{Address: "12 Barton Springs Rd", City: "Austin", Country: "USA"},
		GuestCount:   3,
		PropertyType: "apartment",
		Amenities:    []string{"wifi", "workspace"},
		Price:        140,
	}
}

func TestDraftValidateAcceptsCompleteDraft(t *testing.T) {
	assert.Nil(t, validDraft().Validate())
}

func TestDraftValidateReportsEveryField(t *testing.T) {
	d := Draft{
		Title:        "   ",
		GuestCount:   0,
		PropertyType: "castle",
		Amenities:    []string{"wifi", "moat"},
		Price:        -1,
	}

	errs := d.Validate()
	require.NotNil(t, errs)
	assert.Contains(t, errs, "title")
	assert.Contains(t, errs, "location")
	assert.Contains(t, errs, "guest_count")
	assert.Contains(t, errs, "price")
	assert.Contains(t, errs, "property_type")
	assert.Equal(t, `Unknown amenity "moat"`, errs["amenities"])
}

func TestDraftValidateTitleLength(t *testing.T) {
	d := validDraft()
	d.Title = strings.Repeat("a", 120)
	assert.Nil(t, d.Validate())

	d.Title = strings.Repeat("a", 121)
	assert.Equal(t, "Title must be at most 120 characters", d.Validate()["title"])
}

func TestDraftValidateGuestBounds(t *testing.T) {
	d := validDraft()
	d.GuestCount = 50
	assert.Nil(t, d.Validate())

	d.GuestCount = 51
	assert.Contains(t, d.Validate(), "guest_count")
}

func TestDraftValidateCountryAlone(t *testing.T) {
	d := validDraft()
	d.Location = Location{Country: "Portugal"}
	assert.Nil(t, d.Validate())
}

func TestDraftApplyNormalises(t *testing.T) {
	d := validDraft()
	d.Title = "  Loft  "
	d.PropertyType = " Apartment "
	d.Amenities = []string{"WIFI", "wifi", "pool"}

	var l Listing
	d.apply(&l)

	assert.Equal(t, "Loft", l.Title)
	assert.Equal(t, PropertyApartment, l.PropertyType)
	assert.Equal(t, []Amenity{AmenityWifi, AmenityPool}, l.Amenities)
	assert.True(t, l.HasAmenity(AmenityPool))
	assert.False(t, l.HasAmenity(AmenityKitchen))
}

func TestParseEnums(t *testing.T) {
	pt, ok := ParsePropertyType("Cabin")
	assert.True(t, ok)
	assert.Equal(t, PropertyCabin, pt)

	_, ok = ParsePropertyType("igloo")
	assert.False(t, ok)

	a, ok := ParseAmenity("hot_tub")
	assert.True(t, ok)
	assert.Equal(t, AmenityHotTub, a)

	assert.Len(t, PropertyTypes(), 5)
	assert.Len(t, Amenities(), 12)
}

func TestDecodeDraft(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		body := `{"title":"Cabin","location":{"city":"Asheville"},"guest_count":4,
			"property_type":"cabin","amenities":["fireplace"],"price":99.5}`
		d, err := DecodeDraft([]byte(body))
		require.NoError(t, err)
		assert.Equal(t, "Cabin", d.Title)
		assert.Equal(t, 4, d.GuestCount)
		assert.Equal(t, 99.5, d.Price)
	})

	t.Run("schema violations become field errors", func(t *testing.T) {
		body := `{"title":"Cabin","location":{"city":"Asheville"},"guest_count":"four",
			"property_type":"cabin","price":99.5,"colour":"red"}`
		_, err := DecodeDraft([]byte(body))

		var fe FieldErrors
		require.ErrorAs(t, err, &fe)
		assert.Contains(t, fe, "guest_count")
	})

	t.Run("missing required property", func(t *testing.T) {
		_, err := DecodeDraft([]byte(`{"title":"Cabin"}`))
		var fe FieldErrors
		require.ErrorAs(t, err, &fe)
		assert.NotEmpty(t, fe)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := DecodeDraft([]byte(`{`))
		require.Error(t, err)
		var fe FieldErrors
		assert.False(t, errors.As(err, &fe))
	})
}
