package main

import (
	"context"
	"flag"
	"log"

	"rentalhub/internal/bootstrap"
	"rentalhub/internal/config"
	"rentalhub/internal/listing"
	"rentalhub/internal/logger"
	"rentalhub/internal/seed"
)

func main() {
	path := flag.String("file", "", "YAML file of listings to publish (default: built-in demo set)")
	flag.Parse()

	if err := run(*path); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run(path string) error {
	ctx := context.Background()

	app, err := bootstrap.New(ctx, "seed", "0")
	if err != nil {
		return err
	}
	defer app.Close()

	if app.Config.Database.Storage == config.StorageMemory {
		app.Logger.Warn("STORAGE=memory: seeded listings will not outlive this process", nil)
	}

	drafts := seed.Demo()
	if path != "" {
		if drafts, err = seed.Load(path); err != nil {
			return err
		}
	}

	events, err := app.EventStore(ctx)
	if err != nil {
		return err
	}
	repo, err := app.ListingRepository(ctx)
	if err != nil {
		return err
	}

	ctx = logger.WithContext(ctx, app.Logger)
	n, err := seed.Run(ctx, listing.NewService(events, repo), drafts)
	if err != nil {
		return err
	}
	app.Logger.Info("Seeding finished", logger.Fields{"published": n, "submitted": len(drafts)})
	return nil
}
