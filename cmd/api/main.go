package main

import (
	"context"
	"log"

	"rentalhub/internal/bootstrap"
	"rentalhub/internal/gateway"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("API gateway failed: %v", err)
	}
}

func run() error {
	app, err := bootstrap.New(context.Background(), "gateway", "8080", bootstrap.WithoutStorage())
	if err != nil {
		return err
	}
	defer app.Close()

	handler, err := gateway.NewRouter(gateway.Config{
		ListingsURL:    app.Config.Services.ListingsURL,
		BookingsURL:    app.Config.Services.BookingsURL,
		AllowedOrigins: app.Config.AllowedOrigins,
	}, app.Logger)
	if err != nil {
		return err
	}
	return app.Serve(handler)
}
