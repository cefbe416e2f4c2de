package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentalhub/internal/booking"
	"rentalhub/internal/listing"
	"rentalhub/pkg/eventstore"
)

func memoryEnv(t *testing.T) {
	t.Setenv("STORAGE", "memory")
	t.Setenv("STDOUT_LOG_LEVEL", "error")
	t.Setenv("STDOUT_LOG_COLORS", "false")
	t.Setenv("FLUENTBIT_ENABLED", "false")
	t.Setenv("OTEL_ENABLED", "false")
	t.Setenv("MIN_NIGHTS", "2")
	t.Setenv("MAX_NIGHTS", "21")
	t.Setenv("CATEGORIES_FILE", "")
}

func TestNewWithMemoryStorage(t *testing.T) {
	memoryEnv(t)

	app, err := New(context.Background(), "listings", "8081")
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.DB)
	assert.Equal(t, "8081", app.Config.Port)

	store, err := app.EventStore(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &eventstore.MemoryStore{}, store)

	listings, err := app.ListingRepository(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &listing.MemoryRepository{}, listings)

	reservations, err := app.BookingRepository(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &booking.MemoryRepository{}, reservations)

	policy := app.StayPolicy()
	assert.Equal(t, 2, policy.MinNights)
	assert.Equal(t, 21, policy.MaxNights)

	cats, err := app.Categories()
	require.NoError(t, err)
	assert.Contains(t, cats, "beach")
}

func TestCategoriesFromFile(t *testing.T) {
	memoryEnv(t)
	path := filepath.Join(t.TempDir(), "categories.yaml")
	require.NoError(t, os.WriteFile(path, []byte("treehouses: [treehouse]\n"), 0o600))
	t.Setenv("CATEGORIES_FILE", path)

	app, err := New(context.Background(), "listings", "8081")
	require.NoError(t, err)
	defer app.Close()

	cats, err := app.Categories()
	require.NoError(t, err)
	assert.Equal(t, []string{"treehouses"}, cats.Names())
}

func TestNewWithoutStorage(t *testing.T) {
	memoryEnv(t)
	t.Setenv("STORAGE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://nobody@127.0.0.1:1/none?sslmode=disable")

	app, err := New(context.Background(), "gateway", "8080", WithoutStorage())
	require.NoError(t, err)
	defer app.Close()
	assert.Nil(t, app.DB)
}

func TestNewRejectsBadConfig(t *testing.T) {
	memoryEnv(t)
	t.Setenv("STORAGE", "cassandra")

	_, err := New(context.Background(), "listings", "8081")
	assert.Error(t, err)
}
