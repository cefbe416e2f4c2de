package listing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentalhub/internal/pgtest"
	"rentalhub/pkg/eventstore"
)

func newTestService() (Service, *eventstore.MemoryStore, *MemoryRepository) {
	events := eventstore.NewMemoryStore()
	repo := NewMemoryRepository()
	return NewService(events, repo), events, repo
}

func TestCreateListingRecordsEventAndReadModel(t *testing.T) {
	svc, events, _ := newTestService()
	ctx := context.Background()

	l, err := svc.CreateListing(ctx, validDraft())
	require.NoError(t, err)
	assert.Equal(t, StatusActive, l.Status)
	assert.Equal(t, 1, l.Version)

	stream, err := events.Load(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, stream, 1)
	assert.Equal(t, "ListingPublished", stream[0].EventType)

	got, err := svc.GetListing(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, l.Title, got.Title)
}

func TestCreateListingRejectsInvalidDraft(t *testing.T) {
	svc, _, repo := newTestService()

	_, err := svc.CreateListing(context.Background(), Draft{})
	var fe FieldErrors
	require.ErrorAs(t, err, &fe)

	all, _ := repo.List(context.Background())
	assert.Empty(t, all)
}

func TestUpdateListingBumpsVersion(t *testing.T) {
	svc, events, _ := newTestService()
	ctx := context.Background()

	l, err := svc.CreateListing(ctx, validDraft())
	require.NoError(t, err)

	d := validDraft()
	d.Price = 180
	d.Amenities = []string{"pool"}
	updated, err := svc.UpdateListing(ctx, l.ID, d)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, 180.0, updated.Price)
	assert.Equal(t, []Amenity{AmenityPool}, updated.Amenities)

	v, err := events.Version(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestUpdateUnknownListing(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.UpdateListing(context.Background(), uuid.New(), validDraft())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveListingHidesItFromList(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	keep, err := svc.CreateListing(ctx, validDraft())
	require.NoError(t, err)
	drop, err := svc.CreateListing(ctx, validDraft())
	require.NoError(t, err)

	require.NoError(t, svc.RemoveListing(ctx, drop.ID))
	require.NoError(t, svc.RemoveListing(ctx, drop.ID), "removing twice is a no-op")

	all, err := svc.ListListings(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, keep.ID, all[0].ID)

	removed, err := svc.GetListing(ctx, drop.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRemoved, removed.Status)

	_, err = svc.UpdateListing(ctx, drop.ID, validDraft())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepositoryDetectsStaleUpdate(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	l := &Listing{ID: uuid.New(), Status: StatusActive, Version: 1}
	require.NoError(t, repo.Insert(ctx, l))

	stale := *l
	stale.Version = 2
	require.NoError(t, repo.Update(ctx, &stale, 1))
	assert.ErrorIs(t, repo.Update(ctx, &stale, 1), ErrVersionChanged)
}

func TestPostgresRepository(t *testing.T) {
	db := pgtest.Open(t)
	ctx := context.Background()

	repo := NewPostgresRepository(db)
	require.NoError(t, repo.EnsureSchema(ctx))
	es := eventstore.NewPostgresStore(db)
	require.NoError(t, es.EnsureSchema(ctx))

	svc := NewService(es, repo)
	l, err := svc.CreateListing(ctx, validDraft())
	require.NoError(t, err)

	got, err := repo.Get(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, l.Amenities, got.Amenities)
	assert.Equal(t, l.Location, got.Location)

	require.NoError(t, svc.RemoveListing(ctx, l.ID))
	all, err := repo.List(ctx)
	require.NoError(t, err)
	for _, other := range all {
		assert.NotEqual(t, l.ID, other.ID)
	}

	_, err = repo.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
