package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"pizzeria-storefront/handoff-svc/internal/domain"
	"pizzeria-storefront/handoff-svc/internal/storage"
)

type StoreInterface interface {
	RecordHandoff(ctx context.Context, msg domain.HandoffMessage) (bool, error)
	AppendInbox(ctx context.Context, msg domain.HandoffMessage) (bool, error)
	Inbox(ctx context.Context, destination string, limit int64) ([]domain.HandoffMessage, error)
}

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type ConsumerInterface interface {
	Start(ctx context.Context)
	ProcessHandoff(ctx context.Context, msg domain.HandoffMessage) error
}

var _ StoreInterface = (*storage.Store)(nil)

type Consumer struct {
	Reader MessageReader
	Store  StoreInterface
	Log    *logrus.Entry

	// Backoff paces retries of failed reads and failed handoffs.
	Backoff func() backoff.BackOff
}

func NewConsumer(reader MessageReader, store StoreInterface, log *logrus.Entry) *Consumer {
	return &Consumer{
		Reader:  reader,
		Store:   store,
		Log:     log,
		Backoff: defaultBackoff,
	}
}

func defaultBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 2 * time.Minute
	b.Reset()
	return b
}

// Start reads handoffs until ctx is cancelled. Undecodable messages are
// logged and skipped. A handoff that keeps failing is retried with backoff
// and dropped once the backoff gives up.
func (c *Consumer) Start(ctx context.Context) {
	c.Log.Info("Starting Handoff Service consumer...")
	readBackoff := backoff.WithContext(c.Backoff(), ctx)
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.Log.Info("Handoff consumer stopped")
				return
			}
			wait := readBackoff.NextBackOff()
			if wait == backoff.Stop {
				wait = backoff.DefaultMaxInterval
			}
			c.Log.WithError(err).WithField("retry_in", wait).Error("Error reading message")
			select {
			case <-ctx.Done():
				c.Log.Info("Handoff consumer stopped")
				return
			case <-time.After(wait):
			}
			continue
		}
		readBackoff.Reset()

		var msg domain.HandoffMessage
		if err := json.Unmarshal(message.Value, &msg); err != nil {
			c.Log.WithError(err).WithField("offset", message.Offset).Error("Error unmarshaling message")
			continue
		}

		if err := c.deliver(ctx, msg); err != nil && !errors.Is(err, domain.ErrIncompleteMessage) {
			c.Log.WithError(err).WithField("order_id", msg.OrderID).Error("Error processing handoff, dropping it")
		}
	}
}

func (c *Consumer) deliver(ctx context.Context, msg domain.HandoffMessage) error {
	attempt := func() error {
		err := c.ProcessHandoff(ctx, msg)
		if errors.Is(err, domain.ErrIncompleteMessage) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		c.Log.WithError(err).WithFields(logrus.Fields{"order_id": msg.OrderID, "retry_in": wait}).Warn("Handoff failed, retrying")
	}
	return backoff.RetryNotify(attempt, backoff.WithContext(c.Backoff(), ctx), notify)
}

// ProcessHandoff delivers msg to the destination inbox and then records it.
// Both steps are idempotent per order, so a retry after a partial failure
// completes the missing step without duplicating the other.
func (c *Consumer) ProcessHandoff(ctx context.Context, msg domain.HandoffMessage) error {
	log := c.Log.WithFields(logrus.Fields{"order_id": msg.OrderID, "short_code": msg.ShortCode})
	if err := msg.Validate(); err != nil {
		log.WithError(err).Warn("Skipping handoff")
		return err
	}

	appended, err := c.Store.AppendInbox(ctx, msg)
	if err != nil {
		return err
	}

	fresh, err := c.Store.RecordHandoff(ctx, msg)
	if err != nil {
		return err
	}
	if !appended && !fresh {
		log.Info("Handoff already delivered")
		return nil
	}

	log.WithField("destination", msg.Destination).Info("Successfully delivered handoff")
	return nil
}

var _ ConsumerInterface = (*Consumer)(nil)
