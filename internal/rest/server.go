package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"rentalhub/internal/logger"
)

// Server wraps an http.Server with logging around start and stop.
type Server struct {
	httpServer *http.Server
	logger     logger.Logger
}

// NewRouter returns a chi router with the middleware stack every service
// uses, followed by extra.
func NewRouter(service string, base logger.Logger, extra ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP, LoggerMiddleware(base), TracingMiddleware(service), middleware.Recoverer)
	r.Use(extra...)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return r
}

func NewServer(port string, handler http.Handler, base logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: base,
	}
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", logger.Fields{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}
