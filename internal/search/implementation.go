package search

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"rentalhub/internal/logger"
)

// service implements the Service interface.
type service struct {
	source   Source
	pipeline *Pipeline
	policy   StayPolicy
	now      func() time.Time
	tracer   trace.Tracer
	requests metric.Int64Counter
}

// NewService creates a new search service over the listings of source.
func NewService(source Source, pipeline *Pipeline, policy StayPolicy) Service {
	requests, err := otel.Meter("rentalhub/search").Int64Counter("search.requests",
		metric.WithDescription("Search requests served"),
	)
	if err != nil {
		requests = noop.Int64Counter{}
	}
	return &service{
		source:   source,
		pipeline: pipeline,
		policy:   policy,
		now:      time.Now,
		tracer:   otel.Tracer("rentalhub/search"),
		requests: requests,
	}
}

// Search filters the active listings with q and returns the requested page.
func (s *service) Search(ctx context.Context, q Query) (*Response, error) {
	ctx, span := s.tracer.Start(ctx, "search.query", trace.WithAttributes(
		attribute.String("search.location", q.Filters.Location),
		attribute.Int("search.guests", q.Filters.Guests),
		attribute.String("search.category", q.Filters.Category),
	))
	defer span.End()

	all, err := s.source.ListListings(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list listings")
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}

	matched := s.pipeline.Apply(all, q.Filters)
	resp := &Response{Result: PaginateSlice(matched, q.Page)}
	resp.Showing = resp.Pagination.Range()

	if q.HasStay() {
		stay := s.policy.ValidateAt(q.Stay, s.now())
		resp.Stay = &stay
	}

	span.SetAttributes(
		attribute.Int("search.candidates", len(all)),
		attribute.Int("search.matched", len(matched)),
	)
	s.requests.Add(ctx, 1, metric.WithAttributes(attribute.Bool("matched", len(matched) > 0)))

	logger.FromContext(ctx).Debug("Search served", logger.Fields{
		"candidates": len(all),
		"matched":    len(matched),
		"page":       resp.Pagination.Page,
	})
	return resp, nil
}

// ValidateStay checks r against the configured stay policy.
func (s *service) ValidateStay(_ context.Context, r DateRange) ValidationResult {
	return s.policy.ValidateAt(r, s.now())
}

func (s *service) Categories() []string {
	return s.pipeline.Categories()
}
