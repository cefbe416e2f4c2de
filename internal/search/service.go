package search

import (
	"context"

	"rentalhub/internal/listing"
)

// Source supplies the active listings a search runs over.
type Source interface {
	ListListings(ctx context.Context) ([]listing.Listing, error)
}

// Response is one page of matching listings. Stay is set when the query
// carried check-in or check-out dates; it never narrows Data.
type Response struct {
	Result[listing.Listing]
	Showing string            `json:"showing"`
	Stay    *ValidationResult `json:"stay,omitempty"`
}

// Service defines the interface for the search service.
type Service interface {
	Search(ctx context.Context, q Query) (*Response, error)
	ValidateStay(ctx context.Context, r DateRange) ValidationResult
	Categories() []string
}
