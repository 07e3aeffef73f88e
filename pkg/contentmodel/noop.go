package contentmodel

import (
	"context"
	"log/slog"
)

// NoopEventSink is a no-operation implementation of EventSink
// Useful when schema changes need no notification or for testing
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

// ContentTypeCreated does nothing and returns nil
func (n *NoopEventSink) ContentTypeCreated(ctx context.Context, t *ContentType) error {
	return nil
}

// ContentTypeUpdated does nothing and returns nil
func (n *NoopEventSink) ContentTypeUpdated(ctx context.Context, t *ContentType) error {
	return nil
}

// ContentTypeDeleted does nothing and returns nil
func (n *NoopEventSink) ContentTypeDeleted(ctx context.Context, id string) error {
	return nil
}

// LoggingEventSink writes every schema change to a structured logger.
type LoggingEventSink struct {
	logger *slog.Logger
}

// NewLoggingEventSink creates an event sink that logs through logger, or
// slog.Default when logger is nil.
func NewLoggingEventSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingEventSink{logger: logger}
}

func (l *LoggingEventSink) ContentTypeCreated(ctx context.Context, t *ContentType) error {
	l.logger.InfoContext(ctx, "Content type created", "type_id", t.ID, "regions", len(t.Regions))
	return nil
}

func (l *LoggingEventSink) ContentTypeUpdated(ctx context.Context, t *ContentType) error {
	l.logger.InfoContext(ctx, "Content type updated", "type_id", t.ID, "regions", len(t.Regions))
	return nil
}

func (l *LoggingEventSink) ContentTypeDeleted(ctx context.Context, id string) error {
	l.logger.InfoContext(ctx, "Content type deleted", "type_id", id)
	return nil
}
