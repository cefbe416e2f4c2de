// Package bootstrap assembles the process-wide dependencies of a rentalhub
// binary: configuration, loggers, telemetry and storage.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
	_ "github.com/lib/pq"

	"rentalhub/internal/config"
	"rentalhub/internal/logger"
	"rentalhub/internal/rest"
	"rentalhub/internal/search"
	"rentalhub/internal/telemetry"
	"rentalhub/pkg/eventstore"
)

const shutdownTimeout = 15 * time.Second

// App holds the shared dependencies of one service process.
type App struct {
	Config *config.Config
	Logger logger.Logger
	// DB is nil when the memory storage backend is selected.
	DB *sql.DB

	fluentClient *fluent.Fluent
	shutdownOTel telemetry.ShutdownFunc
}

// Option adjusts what New brings up.
type Option func(*options)

type options struct {
	skipStorage bool
}

// WithoutStorage is for processes that own no data, such as the gateway.
func WithoutStorage() Option {
	return func(o *options) { o.skipStorage = true }
}

// New loads configuration and brings up logging, telemetry and, for the
// postgres backend, the database connection.
func New(ctx context.Context, appName, defaultPort string, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := config.Load(appName, defaultPort)
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	app := &App{Config: cfg}
	if err := app.initLogger(); err != nil {
		return nil, err
	}
	appLogger := app.Logger.WithFields(logger.Fields{"component": "app"})

	app.shutdownOTel, err = telemetry.Setup(ctx, telemetry.Config{
		ServiceName: cfg.AppName,
		Enabled:     cfg.Telemetry.Enabled,
		Endpoint:    cfg.Telemetry.Endpoint,
	})
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to set up telemetry: %w", err)
	}

	switch {
	case o.skipStorage:
	case cfg.Database.Storage == config.StoragePostgres:
		app.DB, err = OpenPostgres(ctx, cfg.Database.URL)
		if err != nil {
			appLogger.Error("Failed to connect to PostgreSQL", err, nil)
			app.Close()
			return nil, err
		}
		appLogger.Info("Successfully connected to PostgreSQL", nil)
	default:
		appLogger.Warn("Using in-memory storage; data is lost on restart", nil)
	}

	return app, nil
}

func (a *App) initLogger() error {
	cfg := a.Config
	stdout := logger.NewSlogAdapter(logger.SlogConfig{
		Level:    logger.ParseLevel(cfg.StdoutLogger.Level),
		IsJSON:   cfg.StdoutLogger.JSON,
		UseColor: cfg.StdoutLogger.Colors,
	})
	active := []logger.Logger{stdout}

	if cfg.FluentBit.Enabled {
		client, err := logger.NewFluentClient(cfg.FluentBit.Host, cfg.FluentBit.Port, cfg.AppName)
		if err != nil {
			stdout.Error("Failed to create fluentbit client", err, nil)
			return fmt.Errorf("failed to create fluentbit client: %w", err)
		}
		adapter, err := logger.NewFluentAdapter(client, logger.ParseLevel(cfg.FluentBit.Level))
		if err != nil {
			client.Close()
			return err
		}
		a.fluentClient = client
		active = append(active, adapter)
	}

	multi, err := logger.NewMulti(active...)
	if err != nil {
		return fmt.Errorf("failed to create multi-logger: %w", err)
	}
	a.Logger = multi.WithFields(logger.Fields{"service_name": cfg.AppName})
	a.Logger.Info("Logger system initialized", logger.Fields{
		"active_loggers": len(active),
		"fluent_enabled": cfg.FluentBit.Enabled,
	})
	return nil
}

// OpenPostgres opens a connection pool and waits for the server to answer,
// retrying for a few seconds while it starts up.
func OpenPostgres(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetConnMaxIdleTime(5 * time.Minute)

	for attempt := 1; ; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err == nil {
			return db, nil
		}
		if attempt == 5 {
			db.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
}

// EventStore returns the event store for the configured backend, creating
// its table when needed.
func (a *App) EventStore(ctx context.Context) (eventstore.Store, error) {
	if a.DB == nil {
		return eventstore.NewMemoryStore(), nil
	}
	store := eventstore.NewPostgresStore(a.DB)
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// StayPolicy returns the configured stay limits.
func (a *App) StayPolicy() search.StayPolicy {
	return search.StayPolicy{MinNights: a.Config.Stay.MinNights, MaxNights: a.Config.Stay.MaxNights}
}

// Categories loads the configured categories file, or the built-in table.
func (a *App) Categories() (search.Categories, error) {
	if a.Config.CategoriesFile == "" {
		return search.DefaultCategories(), nil
	}
	c, err := search.LoadCategories(a.Config.CategoriesFile)
	if err != nil {
		return nil, err
	}
	a.Logger.Info("Loaded search categories", logger.Fields{"file": a.Config.CategoriesFile, "count": len(c)})
	return c, nil
}

// Serve runs handler until SIGINT/SIGTERM or a server failure, then shuts
// the server down.
func (a *App) Serve(handler http.Handler) error {
	server := rest.NewServer(a.Config.Port, handler, a.Logger)

	serverErrors := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var runErr error
	select {
	case sig := <-quit:
		a.Logger.Warn("Received OS signal, shutting down...", logger.Fields{"signal": sig.String()})
	case err := <-serverErrors:
		a.Logger.Error("Server failed, shutting down", err, nil)
		runErr = err
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		a.Logger.Error("Error during API server shutdown", err, nil)
	}
	return runErr
}

// Close releases the database, telemetry exporter and fluent client.
func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
	if a.shutdownOTel != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.shutdownOTel(ctx); err != nil && a.Logger != nil {
			a.Logger.Error("Failed to flush telemetry", err, nil)
		}
		cancel()
	}
	if a.Logger != nil {
		a.Logger.Info("Application shut down.", nil)
	}
	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: closing fluent client: %v\n", err)
		}
	}
}
