package logger

import (
	"errors"
	"log/slog"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// FluentPoster is the subset of *fluent.Fluent used by FluentAdapter.
type FluentPoster interface {
	Post(tag string, message interface{}) error
}

// FluentAdapter ships log entries to Fluent Bit.
type FluentAdapter struct {
	client   FluentPoster
	fields   Fields
	minLevel slog.Level
}

// NewFluentClient connects to a Fluent Bit forward input. There is no ping:
// connection failures surface on the first Post.
func NewFluentClient(host string, port int, tagPrefix string) (*fluent.Fluent, error) {
	if tagPrefix == "" {
		return nil, errors.New("fluent tag prefix is required")
	}
	return fluent.New(fluent.Config{
		FluentHost: host,
		FluentPort: port,
		TagPrefix:  tagPrefix,
		Async:      true,
	})
}

// NewFluentAdapter wraps client. Entries below minLevel are dropped.
func NewFluentAdapter(client FluentPoster, minLevel slog.Level) (*FluentAdapter, error) {
	if client == nil {
		return nil, errors.New("fluent client cannot be nil")
	}
	return &FluentAdapter{client: client, fields: Fields{}, minLevel: minLevel}, nil
}

func (a *FluentAdapter) merge(fields Fields) Fields {
	merged := make(Fields, len(a.fields)+len(fields)+3)
	for k, v := range a.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return merged
}

func (a *FluentAdapter) post(level slog.Level, tag, msg string, data Fields) {
	if level < a.minLevel {
		return
	}
	data["level"] = tag
	data["message"] = msg
	data["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)
	_ = a.client.Post(tag, data)
}

func (a *FluentAdapter) Info(msg string, fields Fields) {
	a.post(slog.LevelInfo, "info", msg, a.merge(fields))
}

func (a *FluentAdapter) Warn(msg string, fields Fields) {
	a.post(slog.LevelWarn, "warn", msg, a.merge(fields))
}

func (a *FluentAdapter) Error(msg string, err error, fields Fields) {
	data := a.merge(fields)
	if err != nil {
		data["error"] = err.Error()
	}
	a.post(slog.LevelError, "error", msg, data)
}

func (a *FluentAdapter) Debug(msg string, fields Fields) {
	a.post(slog.LevelDebug, "debug", msg, a.merge(fields))
}

func (a *FluentAdapter) WithFields(fields Fields) Logger {
	return &FluentAdapter{client: a.client, fields: a.merge(fields), minLevel: a.minLevel}
}
