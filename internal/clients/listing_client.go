// Package clients holds HTTP clients for calling sibling rentalhub services.
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"rentalhub/internal/listing"
	"rentalhub/internal/logger"
	"rentalhub/internal/rest"
)

// ListingClient reads listings from the listings service.
type ListingClient struct {
	baseURL string
	http    *http.Client
}

func NewListingClient(baseURL string) *ListingClient {
	return &ListingClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// GetListing fetches one listing. A 404 maps to listing.ErrNotFound.
func (c *ListingClient) GetListing(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	var l listing.Listing
	if err := c.get(ctx, fmt.Sprintf("%s/listings/%s", c.baseURL, id), &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// ListListings fetches every active listing.
func (c *ListingClient) ListListings(ctx context.Context) ([]listing.Listing, error) {
	var listings []listing.Listing
	if err := c.get(ctx, c.baseURL+"/listings", &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func (c *ListingClient) get(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if traceID := logger.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set(rest.TraceHeader, traceID)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call listings service: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return listing.ErrNotFound
	default:
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode listings response: %w", err)
	}
	return nil
}
