package logger

import "errors"

// Multi fans every entry out to a set of loggers.
type Multi struct {
	loggers []Logger
}

// NewMulti requires at least one logger.
func NewMulti(loggers ...Logger) (*Multi, error) {
	if len(loggers) == 0 {
		return nil, errors.New("multilogger: at least one logger is required")
	}
	return &Multi{loggers: loggers}, nil
}

func (m *Multi) Info(msg string, fields Fields) {
	for _, l := range m.loggers {
		l.Info(msg, fields)
	}
}

func (m *Multi) Warn(msg string, fields Fields) {
	for _, l := range m.loggers {
		l.Warn(msg, fields)
	}
}

func (m *Multi) Error(msg string, err error, fields Fields) {
	for _, l := range m.loggers {
		l.Error(msg, err, fields)
	}
}

func (m *Multi) Debug(msg string, fields Fields) {
	for _, l := range m.loggers {
		l.Debug(msg, fields)
	}
}

func (m *Multi) WithFields(fields Fields) Logger {
	enriched := make([]Logger, 0, len(m.loggers))
	for _, l := range m.loggers {
		enriched = append(enriched, l.WithFields(fields))
	}
	return &Multi{loggers: enriched}
}
