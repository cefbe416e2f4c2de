// Package seed publishes demo listings so a fresh environment has something to search.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"rentalhub/internal/listing"
	"rentalhub/internal/logger"
)

type file struct {
	Listings []listing.Draft `yaml:"listings"`
}

// Load reads drafts from a YAML file with a top-level "listings" sequence.
func Load(path string) ([]listing.Draft, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	if len(f.Listings) == 0 {
		return nil, fmt.Errorf("seed file %s has no listings", path)
	}
	return f.Listings, nil
}

// Run publishes every draft through svc. Invalid drafts are logged and
// skipped; the returned count is the number published.
func Run(ctx context.Context, svc listing.Service, drafts []listing.Draft) (int, error) {
	log := logger.FromContext(ctx)
	published := 0
	for i, d := range drafts {
		l, err := svc.CreateListing(ctx, d)
		var fe listing.FieldErrors
		if errors.As(err, &fe) {
			log.Warn("Skipping invalid seed listing", logger.Fields{"index": i, "title": d.Title, "errors": fe.Error()})
			continue
		}
		if err != nil {
			return published, fmt.Errorf("seed listing %d (%s): %w", i, d.Title, err)
		}
		published++
		log.Debug("Seeded listing", logger.Fields{"listing_id": l.ID.String(), "title": l.Title})
	}
	return published, nil
}

// Demo is the built-in set of listings.
func Demo() []listing.Draft {
	return []listing.Draft{
		{
			Title:        "Downtown Austin loft",
			Description:  "Modern loft two blocks from Congress Avenue",
			Location:     listing.Location{Address: "201 Colorado St", City: "Austin", Country: "USA"},
			GuestCount:   2,
			PropertyType: "apartment",
			Amenities:    []string{"wifi", "air_conditioning", "workspace"},
			Price:        145,
		},
		{
			Title:        "South Congress family house",
			Description:  "Garden house with a pool and parking for two cars",
			Location:     listing.Location{Address: "1400 S Congress Ave", City: "Austin", Country: "USA"},
			GuestCount:   6,
			PropertyType: "house",
			Amenities:    []string{"wifi", "kitchen", "pool", "parking", "washer"},
			Price:        310,
		},
		{
			Title:        "Alfama room with river view",
			Description:  "Quiet room in a tiled building near the castle",
			Location:     listing.Location{Address: "Rua dos Remédios 12", City: "Lisbon", Country: "Portugal"},
			GuestCount:   1,
			PropertyType: "room",
			Amenities:    []string{"wifi"},
			Price:        48,
		},
		{
			Title:        "Blue Ridge cabin",
			Description:  "Cabin in the woods with a fireplace and hot tub",
			Location:     listing.Location{City: "Asheville", Country: "USA"},
			GuestCount:   4,
			PropertyType: "cabin",
			Amenities:    []string{"fireplace", "hot_tub", "kitchen", "pets_allowed"},
			Price:        185,
		},
		{
			Title:        "Algarve villa by the sea",
			Description:  "Luxury villa on the coast with private beach access",
			Location:     listing.Location{Address: "Praia da Marinha", City: "Lagoa", Country: "Portugal"},
			GuestCount:   8,
			PropertyType: "villa",
			Amenities:    []string{"pool", "beach_access", "air_conditioning", "wifi", "tv"},
			Price:        640,
		},
		{
			Title:        "Le Marais studio",
			Description:  "Compact studio for a city break",
			Location:     listing.Location{Address: "8 Rue des Rosiers", City: "Paris", Country: "France"},
			GuestCount:   2,
			PropertyType: "apartment",
			Amenities:    []string{"wifi", "washer"},
			Price:        120,
		},
	}
}
