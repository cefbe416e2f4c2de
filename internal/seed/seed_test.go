package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentalhub/internal/listing"
	"rentalhub/pkg/eventstore"
)

func TestDemoDraftsAreValid(t *testing.T) {
	for _, d := range Demo() {
		assert.Nil(t, d.Validate(), d.Title)
	}
}

func TestRunPublishesAndSkipsInvalid(t *testing.T) {
	svc := listing.NewService(eventstore.NewMemoryStore(), listing.NewMemoryRepository())
	drafts := append(Demo(), listing.Draft{Title: "no location"})

	n, err := Run(context.Background(), svc, drafts)
	require.NoError(t, err)
	assert.Equal(t, len(Demo()), n)

	all, err := svc.ListListings(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, len(Demo()))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	content := `listings:
  - title: Treehouse
    location:
      city: Portland
      country: USA
    guest_count: 2
    property_type: cabin
    amenities: [wifi]
    price: 99
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	drafts, err := Load(path)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Portland", drafts[0].Location.City)
	assert.Equal(t, []string{"wifi"}, drafts[0].Amenities)
	assert.Nil(t, drafts[0].Validate())

	require.NoError(t, os.WriteFile(path, []byte("listings: []\n"), 0o600))
	_, err = Load(path)
	assert.Error(t, err)
}
