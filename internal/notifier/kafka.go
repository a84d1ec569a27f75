// Package notifier publishes change notifications after successful writes.
// Delivery is fire-and-forget: failures are retried, then logged and
// dropped; correctness never depends on a notification arriving.
package notifier

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/tablefront/pos-finance/internal/config"
	"github.com/tablefront/pos-finance/pkg/utils"

	"github.com/segmentio/kafka-go"
)

type event struct {
	Resource string    `json:"resource"`
	Action   string    `json:"action"`
	ID       int64     `json:"id"`
	At       time.Time `json:"at"`
}

type KafkaNotifier struct {
	logger *slog.Logger
	writer *kafka.Writer
}

func NewKafkaNotifier(logger *slog.Logger, cfg config.Kafka) *KafkaNotifier {
	return &KafkaNotifier{
		logger: logger.With(slog.String("component", "notifier")),
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: cfg.BatchTimeout,
		},
	}
}

func (n *KafkaNotifier) Notify(ctx context.Context, resource, action string, id int64) {
	value, err := json.Marshal(event{
		Resource: resource,
		Action:   action,
		ID:       id,
		At:       time.Now(),
	})
	if err != nil {
		n.logger.Error("failed to marshal notification", slog.Any("error", err))
		return
	}

	msg := kafka.Message{
		Key:   []byte(resource),
		Value: value,
	}

	cfg := utils.RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 50 * time.Millisecond,
	}
	err = utils.Retry(cfg, func() error {
		return n.writer.WriteMessages(ctx, msg)
	})
	if err != nil {
		n.logger.Error("failed to publish notification",
			slog.String("resource", resource),
			slog.String("action", action),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
	}
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
