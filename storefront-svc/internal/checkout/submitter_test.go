package checkout_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pizzeria-storefront/storefront-svc/internal/cart"
	"pizzeria-storefront/storefront-svc/internal/checkout"
	"pizzeria-storefront/storefront-svc/internal/domain"
	"pizzeria-storefront/storefront-svc/internal/mocks"
	"pizzeria-storefront/storefront-svc/internal/notify"
)

const orderID = "3f2a9c1e-7b4d-4e2a-9f10-2c8e5d6a7b90"

var (
	margherita = domain.MenuItem{ID: "p-1", Name: "Margherita", Price: decimal.RequireFromString("32.00"), Available: true}
	calabresa  = domain.MenuItem{ID: "p-2", Name: "Calabresa", Price: decimal.RequireFromString("35.00"), Available: true}
)

func validCustomer() domain.CustomerDetails {
	return domain.CustomerDetails{
		Name:          "João da Silva",
		Phone:         "(11) 99999-9999",
		Address:       "Rua das Flores, 123, Centro, São Paulo",
		Notes:         "Sem cebola",
		PaymentMethod: domain.PaymentInstantTransfer,
	}
}

func quietLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

func filledCart() *cart.Store {
	store := cart.NewStore()
	store.AddItem(margherita)
	store.AddItem(margherita)
	store.AddItem(calabresa)
	return store
}

func headerWritten(args mock.Arguments) {
	header := args.Get(1).(*domain.OrderHeader)
	header.ID = orderID
	header.CreatedAt = time.Date(2024, 5, 1, 19, 30, 0, 0, time.UTC)
}

func TestSubmitter_Success(t *testing.T) {
	store := filledCart()
	orders := mocks.NewOrderWriter(t)
	handoff := mocks.NewHandoff(t)
	toasts := notify.NewQueue()

	var cartAtHandoff int
	orders.On("CreateOrderHeader", mock.Anything, mock.MatchedBy(func(h *domain.OrderHeader) bool {
		return h.TotalAmount.Equal(decimal.RequireFromString("99.00")) &&
			h.PaymentMethod == domain.PaymentInstantTransfer &&
			h.CustomerName == "João da Silva"
	})).Run(headerWritten).Return(nil).Once()
	orders.On("CreateOrderLines", mock.Anything, orderID, mock.MatchedBy(func(lines []domain.OrderLine) bool {
		return len(lines) == 2 &&
			lines[0].MenuItemID == "p-1" && lines[0].Quantity == 2 && lines[0].UnitPrice.Equal(margherita.Price) &&
			lines[1].MenuItemID == "p-2" && lines[1].Quantity == 1
	})).Return(nil).Once()
	handoff.On("Dispatch", mock.Anything, mock.AnythingOfType("domain.HandoffMessage")).
		Run(func(mock.Arguments) { cartAtHandoff = store.TotalItems() }).
		Return(nil).Once()

	submitter := checkout.NewSubmitter(store, orders, handoff, toasts, "5511999999999", quietLogger())
	result, err := submitter.Submit(context.Background(), validCustomer())

	require.NoError(t, err)
	assert.Equal(t, checkout.StateSucceeded, submitter.State())
	assert.Equal(t, orderID, result.OrderID)
	assert.Equal(t, "3F2A9C1E", result.ShortCode)
	assert.True(t, result.Total.Equal(decimal.RequireFromString("99.00")))
	assert.Equal(t, 3, cartAtHandoff, "cart must still be full while the handoff is built")

	assert.Equal(t, 0, store.TotalItems())
	assert.Empty(t, store.Lines())

	handoff.AssertNumberOfCalls(t, "Dispatch", 1)
	msg := handoff.Calls[0].Arguments.Get(1).(domain.HandoffMessage)
	assert.Equal(t, "5511999999999", msg.Destination)
	assert.Contains(t, msg.Text, "2x Margherita")
	assert.Contains(t, msg.Text, "1x Calabresa")
	assert.Contains(t, msg.Text, "Total: 99,00")
	assert.Contains(t, msg.Text, "#3F2A9C1E")
	assert.True(t, strings.HasPrefix(msg.Link, "https://wa.me/5511999999999?text="))

	drained := toasts.Drain()
	require.Len(t, drained, 1)
	assert.Equal(t, notify.LevelSuccess, drained[0].Level)
}

func TestSubmitter_HandoffFailureStillSucceeds(t *testing.T) {
	store := filledCart()
	orders := mocks.NewOrderWriter(t)
	handoff := mocks.NewHandoff(t)

	orders.On("CreateOrderHeader", mock.Anything, mock.Anything).Run(headerWritten).Return(nil).Once()
	orders.On("CreateOrderLines", mock.Anything, orderID, mock.Anything).Return(nil).Once()
	handoff.On("Dispatch", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	submitter := checkout.NewSubmitter(store, orders, handoff, nil, "5511999999999", quietLogger())
	_, err := submitter.Submit(context.Background(), validCustomer())

	require.NoError(t, err)
	assert.Equal(t, checkout.StateSucceeded, submitter.State())
	assert.Equal(t, 0, store.TotalItems())
}

func TestSubmitter_EmptyCartNeverWrites(t *testing.T) {
	orders := mocks.NewOrderWriter(t)
	handoff := mocks.NewHandoff(t)

	submitter := checkout.NewSubmitter(cart.NewStore(), orders, handoff, nil, "5511999999999", quietLogger())
	result, err := submitter.Submit(context.Background(), validCustomer())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, checkout.ErrEmptyCart)
	assert.Equal(t, checkout.StateIdle, submitter.State())
	orders.AssertNotCalled(t, "CreateOrderHeader", mock.Anything, mock.Anything)
}

func TestSubmitter_ZeroTotalIsEmpty(t *testing.T) {
	store := cart.NewStore()
	store.AddItem(domain.MenuItem{ID: "free", Name: "Brinde", Price: decimal.Zero})
	orders := mocks.NewOrderWriter(t)

	submitter := checkout.NewSubmitter(store, orders, nil, nil, "5511999999999", quietLogger())
	_, err := submitter.Submit(context.Background(), validCustomer())

	assert.ErrorIs(t, err, checkout.ErrEmptyCart)
	orders.AssertNotCalled(t, "CreateOrderHeader", mock.Anything, mock.Anything)
}

func TestSubmitter_ValidationErrors(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*domain.CustomerDetails)
		wantFields []string
	}{
		{name: "short name", mutate: func(c *domain.CustomerDetails) { c.Name = "J" }, wantFields: []string{"name"}},
		{name: "name of spaces", mutate: func(c *domain.CustomerDetails) { c.Name = "     " }, wantFields: []string{"name"}},
		{name: "long name", mutate: func(c *domain.CustomerDetails) { c.Name = strings.Repeat("a", 101) }, wantFields: []string{"name"}},
		{name: "short phone", mutate: func(c *domain.CustomerDetails) { c.Phone = "1199" }, wantFields: []string{"phone"}},
		{name: "long phone", mutate: func(c *domain.CustomerDetails) { c.Phone = strings.Repeat("9", 21) }, wantFields: []string{"phone"}},
		{name: "vague address", mutate: func(c *domain.CustomerDetails) { c.Address = "Rua A" }, wantFields: []string{"address"}},
		{name: "long notes", mutate: func(c *domain.CustomerDetails) { c.Notes = strings.Repeat("n", 501) }, wantFields: []string{"notes"}},
		{name: "unknown payment", mutate: func(c *domain.CustomerDetails) { c.PaymentMethod = "bitcoin" }, wantFields: []string{"payment_method"}},
		{
			name: "several fields",
			mutate: func(c *domain.CustomerDetails) {
				c.Name = ""
				c.Phone = ""
				c.PaymentMethod = ""
			},
			wantFields: []string{"name", "phone", "payment_method"},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			orders := mocks.NewOrderWriter(t)
			store := filledCart()
			submitter := checkout.NewSubmitter(store, orders, nil, nil, "5511999999999", quietLogger())

			details := validCustomer()
			testCase.mutate(&details)
			_, err := submitter.Submit(context.Background(), details)

			var validationErr *checkout.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Len(t, validationErr.Fields, len(testCase.wantFields))
			for _, field := range testCase.wantFields {
				assert.Contains(t, validationErr.Fields, field)
			}
			assert.Equal(t, checkout.StateIdle, submitter.State())
			assert.Equal(t, 3, store.TotalItems())
		})
	}
}

func TestSubmitter_AcceptsBoundaryLengths(t *testing.T) {
	details := domain.CustomerDetails{
		Name:          "Jo",
		Phone:         strings.Repeat("9", 20),
		Address:       "Rua A, 100",
		PaymentMethod: domain.PaymentCashOnDelivery,
	}
	assert.NoError(t, checkout.ValidateCustomer(details))

	details.Notes = strings.Repeat("ç", 500)
	assert.NoError(t, checkout.ValidateCustomer(details))
}

func TestSubmitter_HeaderFailureKeepsCart(t *testing.T) {
	store := filledCart()
	before := store.Snapshot()
	orders := mocks.NewOrderWriter(t)
	handoff := mocks.NewHandoff(t)
	toasts := notify.NewQueue()

	orders.On("CreateOrderHeader", mock.Anything, mock.Anything).Return(errors.New("connection refused")).Once()

	submitter := checkout.NewSubmitter(store, orders, handoff, toasts, "5511999999999", quietLogger())
	result, err := submitter.Submit(context.Background(), validCustomer())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, checkout.ErrOrderNotPlaced)
	assert.Equal(t, checkout.StateFailed, submitter.State())
	assert.Equal(t, before, store.Snapshot())
	orders.AssertNotCalled(t, "CreateOrderLines", mock.Anything, mock.Anything, mock.Anything)
	handoff.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)

	drained := toasts.Drain()
	require.Len(t, drained, 1)
	assert.Equal(t, notify.LevelError, drained[0].Level)
}

func TestSubmitter_LineFailureKeepsCart(t *testing.T) {
	store := filledCart()
	before := store.Snapshot()
	orders := mocks.NewOrderWriter(t)
	handoff := mocks.NewHandoff(t)

	orders.On("CreateOrderHeader", mock.Anything, mock.Anything).Run(headerWritten).Return(nil).Once()
	orders.On("CreateOrderLines", mock.Anything, orderID, mock.Anything).Return(errors.New("constraint violation")).Once()

	submitter := checkout.NewSubmitter(store, orders, handoff, nil, "5511999999999", quietLogger())
	_, err := submitter.Submit(context.Background(), validCustomer())

	assert.ErrorIs(t, err, checkout.ErrOrderNotPlaced)
	assert.Equal(t, checkout.StateFailed, submitter.State())
	assert.Equal(t, before, store.Snapshot())
	handoff.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestSubmitter_RetryAfterFailure(t *testing.T) {
	store := filledCart()
	orders := mocks.NewOrderWriter(t)

	orders.On("CreateOrderHeader", mock.Anything, mock.Anything).Return(errors.New("timeout")).Once()
	orders.On("CreateOrderHeader", mock.Anything, mock.Anything).Run(headerWritten).Return(nil).Once()
	orders.On("CreateOrderLines", mock.Anything, orderID, mock.Anything).Return(nil).Once()

	submitter := checkout.NewSubmitter(store, orders, nil, nil, "5511999999999", quietLogger())

	_, err := submitter.Submit(context.Background(), validCustomer())
	require.ErrorIs(t, err, checkout.ErrOrderNotPlaced)

	result, err := submitter.Submit(context.Background(), validCustomer())
	require.NoError(t, err)
	assert.Equal(t, orderID, result.OrderID)
	assert.Equal(t, checkout.StateSucceeded, submitter.State())
	assert.Equal(t, 0, store.TotalItems())
}

func TestSubmitter_RejectsConcurrentAttempt(t *testing.T) {
	store := filledCart()
	orders := mocks.NewOrderWriter(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	orders.On("CreateOrderHeader", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		close(entered)
		<-release
		headerWritten(args)
	}).Return(nil).Once()
	orders.On("CreateOrderLines", mock.Anything, orderID, mock.Anything).Return(nil).Once()

	submitter := checkout.NewSubmitter(store, orders, nil, nil, "5511999999999", quietLogger())

	done := make(chan error, 1)
	go func() {
		_, err := submitter.Submit(context.Background(), validCustomer())
		done <- err
	}()

	<-entered
	assert.True(t, submitter.Busy())
	assert.Equal(t, checkout.StateSubmitting, submitter.State())

	_, err := submitter.Submit(context.Background(), validCustomer())
	assert.ErrorIs(t, err, checkout.ErrSubmissionInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, submitter.Busy())
}

func TestSubmitter_IgnoresCancellationOnceSubmitting(t *testing.T) {
	store := filledCart()
	orders := mocks.NewOrderWriter(t)
	ctx, cancel := context.WithCancel(context.Background())

	orders.On("CreateOrderHeader", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		cancel()
		headerWritten(args)
	}).Return(nil).Once()
	orders.On("CreateOrderLines", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), orderID, mock.Anything).Return(nil).Once()

	submitter := checkout.NewSubmitter(store, orders, nil, nil, "5511999999999", quietLogger())
	_, err := submitter.Submit(ctx, validCustomer())

	require.NoError(t, err)
	assert.Equal(t, checkout.StateSucceeded, submitter.State())
}

func TestState_Flags(t *testing.T) {
	assert.True(t, checkout.StateSucceeded.IsTerminal())
	assert.True(t, checkout.StateFailed.IsTerminal())
	assert.False(t, checkout.StateIdle.IsTerminal())
	assert.True(t, checkout.StateValidating.Busy())
	assert.True(t, checkout.StateSubmitting.Busy())
	assert.False(t, checkout.StateFailed.Busy())
}
