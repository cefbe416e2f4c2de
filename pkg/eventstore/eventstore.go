// Package eventstore records the domain events behind listings and reservations.
package eventstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrConcurrencyConflict = errors.New("concurrency conflict: version mismatch")
	ErrNoEvents            = errors.New("no events to append")
)

// Event is one recorded state change of an aggregate.
type Event struct {
	ID            int64                  `json:"id"`
	AggregateID   uuid.UUID              `json:"aggregate_id"`
	AggregateType string                 `json:"aggregate_type"`
	EventType     string                 `json:"event_type"`
	EventData     json.RawMessage        `json:"event_data"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
	Version       int                    `json:"version"`
	CreatedAt     time.Time              `json:"created_at"`
}

// NewEvent marshals data into an Event of the given type.
func NewEvent(aggregateType, eventType string, data interface{}) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, err
	}
	return Event{AggregateType: aggregateType, EventType: eventType, EventData: raw}, nil
}

// Store appends and replays aggregate event streams.
//
// Append succeeds only when the stream's current version equals
// expectedVersion; appended events get versions expectedVersion+1, +2, ...
type Store interface {
	Append(ctx context.Context, aggregateID uuid.UUID, aggregateType string, expectedVersion int, events ...Event) error
	Load(ctx context.Context, aggregateID uuid.UUID) ([]Event, error)
	Version(ctx context.Context, aggregateID uuid.UUID) (int, error)
}
