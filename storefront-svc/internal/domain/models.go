package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type MenuItem struct {
	ID          string          `json:"id"`
	CategoryID  string          `json:"category_id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Available   bool            `json:"is_available"`
	CreatedAt   time.Time       `json:"created_at"`
}

type CartLine struct {
	Item     MenuItem `json:"item"`
	Quantity int      `json:"quantity"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type PaymentMethod string

const (
	PaymentInstantTransfer PaymentMethod = "instant_transfer"
	PaymentCardOnDelivery  PaymentMethod = "card_on_delivery"
	PaymentCashOnDelivery  PaymentMethod = "cash_on_delivery"
)

var paymentLabels = map[PaymentMethod]string{
	PaymentInstantTransfer: "PIX",
	PaymentCardOnDelivery:  "Cartão na entrega",
	PaymentCashOnDelivery:  "Dinheiro na entrega",
}

func (p PaymentMethod) Valid() bool {
	_, ok := paymentLabels[p]
	return ok
}

func (p PaymentMethod) Label() string {
	if label, ok := paymentLabels[p]; ok {
		return label
	}
	return string(p)
}

type CustomerDetails struct {
	Name          string        `json:"name"`
	Phone         string        `json:"phone"`
	Address       string        `json:"address"`
	Notes         string        `json:"notes,omitempty"`
	PaymentMethod PaymentMethod `json:"payment_method"`
}

// Normalized trims surrounding whitespace from every text field.
func (c CustomerDetails) Normalized() CustomerDetails {
	return CustomerDetails{
		Name:          strings.TrimSpace(c.Name),
		Phone:         strings.TrimSpace(c.Phone),
		Address:       strings.TrimSpace(c.Address),
		Notes:         strings.TrimSpace(c.Notes),
		PaymentMethod: PaymentMethod(strings.TrimSpace(string(c.PaymentMethod))),
	}
}

type OrderHeader struct {
	ID              string          `json:"id"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerAddress string          `json:"customer_address"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	Notes           string          `json:"notes,omitempty"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

type OrderLine struct {
	ID         string          `json:"id,omitempty"`
	OrderID    string          `json:"order_id"`
	MenuItemID string          `json:"menu_item_id"`
	ItemName   string          `json:"item_name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

type OrderRecord struct {
	OrderHeader
	ShortCode string      `json:"short_code"`
	QRCode    string      `json:"qr_code,omitempty"`
	Lines     []OrderLine `json:"items"`
}

const shortCodeLength = 8

// ShortCode is the customer-facing form of an order ID.
func ShortCode(orderID string) string {
	code := orderID
	if len(code) > shortCodeLength {
		code = code[:shortCodeLength]
	}
	return strings.ToUpper(code)
}

type HandoffMessage struct {
	OrderID     string          `json:"order_id"`
	ShortCode   string          `json:"short_code"`
	Destination string          `json:"destination"`
	Text        string          `json:"text"`
	Link        string          `json:"link"`
	Total       decimal.Decimal `json:"total"`
	CreatedAt   time.Time       `json:"created_at"`
}

var ErrNotFound = errors.New("not found")
