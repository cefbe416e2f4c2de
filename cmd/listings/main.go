package main

import (
	"context"
	"log"

	"rentalhub/internal/bootstrap"
	"rentalhub/internal/listing"
	"rentalhub/internal/rest"
	"rentalhub/internal/search"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("listings service failed: %v", err)
	}
}

func run() error {
	ctx := context.Background()

	app, err := bootstrap.New(ctx, "listings", "8081")
	if err != nil {
		return err
	}
	defer app.Close()

	events, err := app.EventStore(ctx)
	if err != nil {
		return err
	}
	repo, err := app.ListingRepository(ctx)
	if err != nil {
		return err
	}
	categories, err := app.Categories()
	if err != nil {
		return err
	}

	listingSvc := listing.NewService(events, repo)
	searchSvc := search.NewService(listingSvc, search.NewPipeline(categories), app.StayPolicy())

	router := rest.NewRouter(app.Config.AppName, app.Logger)
	listing.NewHandler(listingSvc).Routes(router)
	search.NewHandler(searchSvc).Routes(router)

	return app.Serve(router)
}
