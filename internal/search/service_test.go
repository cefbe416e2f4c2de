package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"rentalhub/internal/listing"
)

type staticSource struct {
	listings []listing.Listing
	err      error
}

func (s staticSource) ListListings(context.Context) ([]listing.Listing, error) {
	return s.listings, s.err
}

func austinFixture() []listing.Listing {
	return []listing.Listing{
		fixture("Downtown loft", "", "Austin", "USA", 2, listing.PropertyApartment, 120),
		fixture("South Congress house", "", "Austin", "USA", 6, listing.PropertyHouse, 250),
		fixture("Tiny room", "", "Austin", "USA", 1, listing.PropertyRoom, 45),
		fixture("Harbour flat", "", "Boston", "USA", 4, listing.PropertyApartment, 180),
		fixture("Lake cabin", "", "Denver", "USA", 2, listing.PropertyCabin, 95),
	}
}

func newTestService(src Source) *service {
	svc := NewService(src, NewPipeline(DefaultCategories()), DefaultStayPolicy).(*service)
	svc.now = func() time.Time { return today }
	return svc
}

func TestSearchEndToEnd(t *testing.T) {
	svc := newTestService(staticSource{listings: austinFixture()})

	resp, err := svc.Search(context.Background(), Query{
		Filters: Filters{Location: "Austin", Guests: 2},
		Page:    PageRequest{Page: intp(1), Limit: intp(1)},
	})
	require.NoError(t, err)

	assert.Len(t, resp.Data, 1)
	assert.Equal(t, 2, resp.Pagination.Total)
	assert.True(t, resp.Pagination.HasNext)
	assert.False(t, resp.Pagination.HasPrev)
	assert.Equal(t, "1-1 of 2", resp.Showing)
	assert.Equal(t, "Downtown loft", resp.Data[0].Title)
	assert.Nil(t, resp.Stay)
}

func TestSearchReportsStayWithoutNarrowing(t *testing.T) {
	svc := newTestService(staticSource{listings: austinFixture()})

	resp, err := svc.Search(context.Background(), Query{
		Stay: DateRange{From: daysFrom(today, -3), To: daysFrom(today, 2)},
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Stay)
	assert.False(t, resp.Stay.IsValid)
	assert.Contains(t, resp.Stay.Errors, ErrKeyCheckIn)
	assert.Equal(t, 5, resp.Pagination.Total)
}

func TestSearchSourceFailure(t *testing.T) {
	boom := errors.New("db down")
	svc := newTestService(staticSource{err: boom})

	_, err := svc.Search(context.Background(), Query{})
	assert.ErrorIs(t, err, boom)
}

func TestSearchRecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	svc := newTestService(staticSource{listings: austinFixture()})
	svc.tracer = tp.Tracer("test")

	_, err := svc.Search(context.Background(), Query{Filters: Filters{Location: "boston"}})
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "search.query", spans[0].Name())

	attrs := map[string]int64{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInt64()
	}
	assert.Equal(t, int64(5), attrs["search.candidates"])
	assert.Equal(t, int64(1), attrs["search.matched"])
}

func TestValidateStayAndCategories(t *testing.T) {
	svc := newTestService(staticSource{})

	res := svc.ValidateStay(context.Background(), DateRange{From: today, To: daysFrom(today, 4)})
	assert.True(t, res.IsValid)
	assert.Equal(t, 4, *res.Nights)

	assert.Contains(t, svc.Categories(), "beach")
	assert.IsIncreasing(t, svc.Categories())
}
