package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPoster struct {
	tags     []string
	messages []map[string]interface{}
}

func (r *recordingPoster) Post(tag string, message interface{}) error {
	r.tags = append(r.tags, tag)
	r.messages = append(r.messages, map[string]interface{}(message.(Fields)))
	return nil
}

func TestFromContextFallsBackToNop(t *testing.T) {
	l := FromContext(context.Background())
	require.NotNil(t, l)
	assert.NotPanics(t, func() {
		l.WithFields(Fields{"a": 1}).Error("boom", errors.New("x"), nil)
	})
}

func TestContextRoundTrip(t *testing.T) {
	l := NewSlogAdapter(SlogConfig{Writer: &bytes.Buffer{}})
	ctx := WithTraceID(WithContext(context.Background(), l), "trace-1")

	assert.Same(t, l, FromContext(ctx))
	assert.Equal(t, "trace-1", TraceIDFromContext(ctx))
	assert.Empty(t, TraceIDFromContext(context.Background()))
}

func TestSlogAdapterJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogAdapter(SlogConfig{Writer: &buf, IsJSON: true, Level: slog.LevelDebug})

	l.WithFields(Fields{"component": "search"}).Info("listings filtered", Fields{"matched": 3})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "listings filtered", entry["msg"])
	assert.Equal(t, "search", entry["component"])
	assert.EqualValues(t, 3, entry["matched"])
}

func TestSlogAdapterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogAdapter(SlogConfig{Writer: &buf, IsJSON: true, Level: slog.LevelWarn})

	l.Debug("hidden", nil)
	l.Info("hidden", nil)
	assert.Zero(t, buf.Len())

	l.Warn("shown", nil)
	assert.NotZero(t, buf.Len())
}

func TestFluentAdapter(t *testing.T) {
	poster := &recordingPoster{}
	l, err := NewFluentAdapter(poster, slog.LevelInfo)
	require.NoError(t, err)

	scoped := l.WithFields(Fields{"service_name": "listings"})
	scoped.Debug("dropped", nil)
	scoped.Error("save failed", errors.New("db down"), Fields{"listing_id": "42"})

	require.Len(t, poster.tags, 1)
	assert.Equal(t, "error", poster.tags[0])
	msg := poster.messages[0]
	assert.Equal(t, "save failed", msg["message"])
	assert.Equal(t, "db down", msg["error"])
	assert.Equal(t, "listings", msg["service_name"])
	assert.Equal(t, "42", msg["listing_id"])
}

func TestNewFluentAdapterRejectsNil(t *testing.T) {
	_, err := NewFluentAdapter(nil, slog.LevelInfo)
	assert.Error(t, err)
}

func TestMultiFansOut(t *testing.T) {
	a, b := &recordingPoster{}, &recordingPoster{}
	la, _ := NewFluentAdapter(a, slog.LevelDebug)
	lb, _ := NewFluentAdapter(b, slog.LevelDebug)

	m, err := NewMulti(la, lb)
	require.NoError(t, err)
	m.WithFields(Fields{"k": "v"}).Warn("careful", nil)

	assert.Equal(t, []string{"warn"}, a.tags)
	assert.Equal(t, []string{"warn"}, b.tags)
	assert.Equal(t, "v", a.messages[0]["k"])

	_, err = NewMulti()
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}
