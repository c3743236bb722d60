package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/config"
)

// Producer is implemented by all broker backends.
type Producer interface {
	SendMessage(ctx context.Context, value interface{}) error
	Close() error
}

// New builds the producer selected by config. A blank backend disables
// event publishing and returns nil without error.
func New(cfg config.MessagingConfig, logger *slog.Logger) (Producer, error) {
	switch cfg.Backend {
	case "":
		logger.Info("event publishing disabled")
		return nil, nil
	case "nats":
		return NewNATSProducer(cfg.NATS.URL, cfg.NATS.Subject, logger)
	case "kafka":
		return NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
	default:
		return nil, fmt.Errorf("unknown messaging backend: %q", cfg.Backend)
	}
}
