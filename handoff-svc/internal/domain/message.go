package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrIncompleteMessage = errors.New("handoff message without order id or destination")

// HandoffMessage is the order summary published by the storefront on the
// order-handoffs topic.
type HandoffMessage struct {
	OrderID     string          `json:"order_id"`
	ShortCode   string          `json:"short_code"`
	Destination string          `json:"destination"`
	Text        string          `json:"text"`
	Link        string          `json:"link"`
	Total       decimal.Decimal `json:"total"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (m HandoffMessage) Validate() error {
	if m.OrderID == "" || m.Destination == "" {
		return ErrIncompleteMessage
	}
	return nil
}
