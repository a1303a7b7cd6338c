package cache

import "github.com/rs/zerolog"

type zerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger adapts a zerolog.Logger to the cache Logger interface.
func NewZerologLogger(logger zerolog.Logger) Logger {
	return &zerologLogger{logger: logger}
}

func (l *zerologLogger) Error(msg string, err error) {
	l.logger.Error().Err(err).Msg(msg)
}

// countingLogger counts every reported error under group before forwarding it.
type countingLogger struct {
	next  Logger
	group string
}

func (l countingLogger) Error(msg string, err error) {
	ErrorsTotal.WithLabelValues(l.group).Inc()
	if l.next != nil {
		l.next.Error(msg, err)
	}
}
