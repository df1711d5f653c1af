package events

import (
	"context"
	"log/slog"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/ports"
)

var _ ports.EventPublisher = (*LoggingPublisher)(nil)

// LoggingPublisher records events in the log when no broker is configured.
type LoggingPublisher struct {
	logger *slog.Logger
}

func NewLoggingPublisher(logger *slog.Logger) *LoggingPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingPublisher{logger: logger}
}

func (p *LoggingPublisher) Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error {
	p.logger.DebugContext(ctx, "order event",
		slog.String("event.type", eventType),
		slog.String("partition_key", partitionKey),
		slog.Int("payload_bytes", len(payload)),
	)
	return nil
}
