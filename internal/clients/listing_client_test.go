package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentalhub/internal/listing"
	"rentalhub/internal/logger"
	"rentalhub/internal/rest"
	"rentalhub/pkg/eventstore"
)

func TestListingClientAgainstHandler(t *testing.T) {
	svc := listing.NewService(eventstore.NewMemoryStore(), listing.NewMemoryRepository())
	created, err := svc.CreateListing(context.Background(), listing.Draft{
		Title:        "Harbour flat",
		Location:     listing.Location{City: "Boston"},
		GuestCount:   4,
		PropertyType: "apartment",
		Amenities:    []string{"wifi"},
		Price:        180,
	})
	require.NoError(t, err)

	var seenTrace string
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			seenTrace = req.Header.Get(rest.TraceHeader)
			next.ServeHTTP(w, req)
		})
	})
	listing.NewHandler(svc).Routes(r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	client := NewListingClient(srv.URL + "/")
	ctx := logger.WithTraceID(context.Background(), "6f1c1f3e-7d55-4a4e-9c2b-0b8f0f6f5a11")

	got, err := client.GetListing(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, []listing.Amenity{listing.AmenityWifi}, got.Amenities)
	assert.Equal(t, "6f1c1f3e-7d55-4a4e-9c2b-0b8f0f6f5a11", seenTrace)

	all, err := client.ListListings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = client.GetListing(ctx, listing.Listing{}.ID)
	assert.ErrorIs(t, err, listing.ErrNotFound)
}

func TestListingClientUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewListingClient(srv.URL).ListListings(context.Background())
	assert.ErrorContains(t, err, "unexpected status code: 502")
}
