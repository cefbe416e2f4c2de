package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentalhub/internal/logger"
)

func TestRouterPropagatesTraceID(t *testing.T) {
	r := NewRouter("test", logger.Nop())
	var seen string
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		seen = logger.TraceIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	traceID := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(TraceHeader, traceID)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, traceID, seen)
	assert.Equal(t, traceID, rec.Header().Get(TraceHeader))
}

func TestRouterGeneratesTraceIDForGarbage(t *testing.T) {
	r := NewRouter("test", logger.Nop())
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(TraceHeader, "not-a-uuid")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	_, err := uuid.Parse(rec.Header().Get(TraceHeader))
	assert.NoError(t, err)
}

func TestRecovererTurnsPanicInto500(t *testing.T) {
	r := NewRouter("test", logger.Nop())
	r.Get("/panic", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestWriteFieldErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteFieldErrors(rec, "invalid stay", map[string]string{"checkIn": "Check-in date cannot be in the past"})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "invalid stay", body.Error)
	assert.Contains(t, body.Fields, "checkIn")
}

func TestParseHelpers(t *testing.T) {
	q := url.Values{
		"guests":  {"4"},
		"bad":     {"four"},
		"price":   {"12.5"},
		"types":   {"house, apartment", "room", " "},
		"checkIn": {"2026-03-01"},
		"broken":  {"03/01/2026"},
	}

	require.NotNil(t, ParseInt(q, "guests"))
	assert.Equal(t, 4, *ParseInt(q, "guests"))
	assert.Nil(t, ParseInt(q, "bad"))
	assert.Nil(t, ParseInt(q, "missing"))
	assert.InDelta(t, 12.5, *ParseFloat(q, "price"), 1e-9)
	assert.Nil(t, ParseFloat(q, "bad"))
	assert.Equal(t, []string{"house", "apartment", "room"}, ParseStringSlice(q, "types"))
	assert.Equal(t, 2026, ParseDate(q, "checkIn").Year())
	assert.True(t, ParseDate(q, "broken").IsZero())
}
