// Package gateway fronts the rentalhub services under a single /api/v1 origin.
package gateway

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"rentalhub/internal/logger"
	"rentalhub/internal/rest"
)

// APIPrefix is stripped before a request is forwarded.
const APIPrefix = "/api/v1"

// Config names the upstream services and the browser origins allowed to call them.
type Config struct {
	ListingsURL    string
	BookingsURL    string
	AllowedOrigins []string
}

// NewRouter builds the gateway handler.
func NewRouter(cfg Config, base logger.Logger) (http.Handler, error) {
	listings, err := newProxy(cfg.ListingsURL, base)
	if err != nil {
		return nil, fmt.Errorf("listings upstream: %w", err)
	}
	bookings, err := newProxy(cfg.BookingsURL, base)
	if err != nil {
		return nil, fmt.Errorf("bookings upstream: %w", err)
	}

	r := rest.NewRouter("gateway", base, cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", rest.TraceHeader},
		ExposedHeaders:   []string{rest.TraceHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route(APIPrefix, func(r chi.Router) {
		// More specific than /listings/*: reservations of a listing live in bookings.
		r.Handle("/listings/{id}/reservations", bookings)
		r.Handle("/listings", listings)
		r.Handle("/listings/*", listings)
		r.Handle("/search", listings)
		r.Handle("/categories", listings)
		r.Handle("/stays/*", listings)
		r.Handle("/reservations", bookings)
		r.Handle("/reservations/*", bookings)
	})
	return r, nil
}

func newProxy(rawURL string, base logger.Logger) (*httputil.ReverseProxy, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid upstream URL %q", rawURL)
	}

	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.Out.URL.Path = strings.TrimPrefix(pr.In.URL.Path, APIPrefix)
			pr.Out.URL.RawPath = ""
			pr.SetXForwarded()

			ctx := pr.In.Context()
			if traceID := logger.TraceIDFromContext(ctx); traceID != "" {
				pr.Out.Header.Set(rest.TraceHeader, traceID)
			}
			otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(pr.Out.Header))
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.FromContext(r.Context()).Error("Upstream request failed", err, logger.Fields{"upstream": target.Host})
			rest.WriteJSONError(w, http.StatusBadGateway, "upstream service unavailable")
		},
	}, nil
}
