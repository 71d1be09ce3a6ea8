package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"pizzeria-storefront/storefront-svc/internal/cart"
	"pizzeria-storefront/storefront-svc/internal/domain"
	"pizzeria-storefront/storefront-svc/internal/metrics"
	"pizzeria-storefront/storefront-svc/internal/notify"
)

type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

func (s State) IsTerminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// Busy reports whether an attempt is in flight and new submissions must wait.
func (s State) Busy() bool {
	return s == StateValidating || s == StateSubmitting
}

type Cart interface {
	Snapshot() cart.Snapshot
	Clear()
}

type OrderWriter interface {
	CreateOrderHeader(ctx context.Context, header *domain.OrderHeader) error
	CreateOrderLines(ctx context.Context, orderID string, lines []domain.OrderLine) error
}

type Handoff interface {
	Dispatch(ctx context.Context, msg domain.HandoffMessage) error
}

type Notifier interface {
	Notify(level notify.Level, title, description string)
}

type Result struct {
	OrderID     string          `json:"order_id"`
	ShortCode   string          `json:"short_code"`
	Total       decimal.Decimal `json:"total"`
	Summary     string          `json:"summary"`
	HandoffLink string          `json:"handoff_link"`
	CreatedAt   time.Time       `json:"created_at"`
}

type Submitter struct {
	mu    sync.Mutex
	state State

	cart        Cart
	orders      OrderWriter
	handoff     Handoff
	notifier    Notifier
	destination string
	log         *logrus.Entry
}

func NewSubmitter(c Cart, orders OrderWriter, handoff Handoff, notifier Notifier, destination string, log *logrus.Entry) *Submitter {
	return &Submitter{
		state:       StateIdle,
		cart:        c,
		orders:      orders,
		handoff:     handoff,
		notifier:    notifier,
		destination: destination,
		log:         log,
	}
}

func (s *Submitter) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Submitter) Busy() bool {
	return s.State().Busy()
}

// Submit runs one checkout attempt. Once the header write starts the attempt
// is detached from ctx cancellation and runs to Succeeded or Failed.
func (s *Submitter) Submit(ctx context.Context, details domain.CustomerDetails) (*Result, error) {
	if !s.begin() {
		metrics.CheckoutAttempts.WithLabelValues("busy").Inc()
		return nil, ErrSubmissionInProgress
	}

	details = details.Normalized()
	if err := ValidateCustomer(details); err != nil {
		s.setState(StateIdle)
		metrics.CheckoutAttempts.WithLabelValues("invalid").Inc()
		return nil, err
	}

	snap := s.cart.Snapshot()
	if len(snap.Lines) == 0 || !snap.TotalPrice.IsPositive() {
		s.setState(StateIdle)
		metrics.CheckoutAttempts.WithLabelValues("empty_cart").Inc()
		s.notify(notify.LevelError, "Carrinho vazio", "Adicione itens antes de finalizar o pedido.")
		return nil, ErrEmptyCart
	}

	s.setState(StateSubmitting)
	ctx = context.WithoutCancel(ctx)

	header := &domain.OrderHeader{
		CustomerName:    details.Name,
		CustomerPhone:   details.Phone,
		CustomerAddress: details.Address,
		TotalAmount:     snap.TotalPrice,
		PaymentMethod:   details.PaymentMethod,
		Notes:           details.Notes,
		Status:          "pending",
	}
	if err := s.orders.CreateOrderHeader(ctx, header); err != nil {
		s.log.WithError(err).Error("[checkout] failed to create order header")
		return nil, s.fail("header_failed", fmt.Errorf("%w: create order header: %w", ErrOrderNotPlaced, err))
	}

	lines := make([]domain.OrderLine, 0, len(snap.Lines))
	for _, line := range snap.Lines {
		lines = append(lines, domain.OrderLine{
			OrderID:    header.ID,
			MenuItemID: line.Item.ID,
			ItemName:   line.Item.Name,
			Quantity:   line.Quantity,
			UnitPrice:  line.Item.Price,
		})
	}
	if err := s.orders.CreateOrderLines(ctx, header.ID, lines); err != nil {
		metrics.OrphanedOrderHeaders.Inc()
		s.log.WithError(err).WithField("order_id", header.ID).
			Error("[checkout] order header persisted without line items, needs operator follow-up")
		return nil, s.fail("lines_failed", fmt.Errorf("%w: create order lines: %w", ErrOrderNotPlaced, err))
	}

	summary := BuildSummary(*header, snap, details)
	msg := domain.HandoffMessage{
		OrderID:     header.ID,
		ShortCode:   domain.ShortCode(header.ID),
		Destination: s.destination,
		Text:        summary,
		Link:        WhatsAppLink(s.destination, summary),
		Total:       snap.TotalPrice,
		CreatedAt:   header.CreatedAt,
	}
	if s.handoff != nil {
		if err := s.handoff.Dispatch(ctx, msg); err != nil {
			s.log.WithError(err).WithField("order_id", header.ID).Warn("[checkout] handoff dispatch failed")
		}
	}

	s.cart.Clear()
	s.setState(StateSucceeded)
	metrics.CheckoutAttempts.WithLabelValues("succeeded").Inc()
	s.notify(notify.LevelSuccess, "Pedido realizado!", "Você receberá seu pedido em breve.")
	s.log.WithFields(logrus.Fields{
		"order_id": header.ID,
		"items":    snap.TotalItems,
		"total":    snap.TotalPrice.StringFixed(2),
	}).Info("[checkout] order placed")

	return &Result{
		OrderID:     header.ID,
		ShortCode:   msg.ShortCode,
		Total:       snap.TotalPrice,
		Summary:     summary,
		HandoffLink: msg.Link,
		CreatedAt:   header.CreatedAt,
	}, nil
}

func (s *Submitter) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Busy() {
		return false
	}
	s.state = StateValidating
	return true
}

func (s *Submitter) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Submitter) fail(outcome string, err error) error {
	s.setState(StateFailed)
	metrics.CheckoutAttempts.WithLabelValues(outcome).Inc()
	s.notify(notify.LevelError, "Erro ao fazer pedido", "Tente novamente mais tarde.")
	return err
}

func (s *Submitter) notify(level notify.Level, title, description string) {
	if s.notifier != nil {
		s.notifier.Notify(level, title, description)
	}
}
