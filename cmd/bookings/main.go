package main

import (
	"context"
	"log"

	"rentalhub/internal/booking"
	"rentalhub/internal/bootstrap"
	"rentalhub/internal/clients"
	"rentalhub/internal/logger"
	"rentalhub/internal/rest"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("bookings service failed: %v", err)
	}
}

func run() error {
	ctx := context.Background()

	app, err := bootstrap.New(ctx, "bookings", "8082")
	if err != nil {
		return err
	}
	defer app.Close()

	events, err := app.EventStore(ctx)
	if err != nil {
		return err
	}
	repo, err := app.BookingRepository(ctx)
	if err != nil {
		return err
	}

	cfg := app.Config
	listingsClient := clients.NewListingClient(cfg.Services.ListingsURL)
	limiter := booking.NewLimiter(cfg.Booking.ReservationsPerMinute, cfg.Booking.Burst)
	svc := booking.NewService(events, repo, listingsClient, app.StayPolicy(), limiter)

	app.Logger.Info("Booking service configured", logger.Fields{
		"listings_url":            cfg.Services.ListingsURL,
		"reservations_per_minute": cfg.Booking.ReservationsPerMinute,
	})

	router := rest.NewRouter(cfg.AppName, app.Logger)
	booking.NewHandler(svc).Routes(router)

	return app.Serve(router)
}
