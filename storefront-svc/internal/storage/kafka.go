package storage

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"pizzeria-storefront/storefront-svc/internal/domain"
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaHandoff publishes order summaries for the handoff service, keyed by
// order ID so redeliveries of one order land on the same partition.
type KafkaHandoff struct {
	Writer MessageWriter
}

func NewKafkaHandoff(w MessageWriter) *KafkaHandoff {
	return &KafkaHandoff{Writer: w}
}

func (h *KafkaHandoff) Dispatch(ctx context.Context, msg domain.HandoffMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return h.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.OrderID),
		Value: payload,
	})
}
