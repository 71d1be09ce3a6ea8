package storage

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizzeria-storefront/storefront-svc/internal/domain"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestListMenuItems_OnlyAvailable(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery("FROM menu_items\\s+WHERE is_available = TRUE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "category_id", "name", "description", "price", "image_url", "is_available", "created_at"}).
			AddRow("p-1", "c-1", "Calabresa", "", "35.00", "", true, now).
			AddRow("p-2", "", "Margherita", "Clássica", "32.00", "/img/m.png", true, now))

	items, err := repo.ListMenuItems(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Calabresa", items[0].Name)
	assert.True(t, items[1].Price.Equal(decimal.RequireFromString("32")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMenuItem_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("FROM menu_items").WithArgs("missing").WillReturnError(sql.ErrNoRows)

	item, err := repo.GetMenuItem(context.Background(), "missing")

	assert.Nil(t, item)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateMenuItem(t *testing.T) {
	repo, mock := newMockRepo(t)
	item := &domain.MenuItem{Name: "Portuguesa", Price: decimal.RequireFromString("38.50"), Available: true}

	mock.ExpectQuery("INSERT INTO menu_items").
		WithArgs(sql.NullString{}, "Portuguesa", "", item.Price, "", true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("p-9", time.Now()))

	require.NoError(t, repo.CreateMenuItem(context.Background(), item))
	assert.Equal(t, "p-9", item.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderHeader_StoresEmptyNotesAsNull(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2026, 1, 2, 19, 30, 0, 0, time.UTC)
	header := &domain.OrderHeader{
		CustomerName:    "Maria",
		CustomerPhone:   "11988887777",
		CustomerAddress: "Av. Paulista, 1000",
		TotalAmount:     decimal.RequireFromString("99.00"),
		PaymentMethod:   domain.PaymentInstantTransfer,
		Status:          "pending",
	}

	mock.ExpectQuery("INSERT INTO orders").
		WithArgs("Maria", "11988887777", "Av. Paulista, 1000", header.TotalAmount, "instant_transfer", sql.NullString{}, "pending").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("abcdef12-3456-7890-abcd-ef1234567890", created))

	require.NoError(t, repo.CreateOrderHeader(context.Background(), header))
	assert.Equal(t, "abcdef12-3456-7890-abcd-ef1234567890", header.ID)
	assert.Equal(t, created, header.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderLines_SingleStatement(t *testing.T) {
	repo, mock := newMockRepo(t)
	lines := []domain.OrderLine{
		{MenuItemID: "p-1", ItemName: "Margherita", Quantity: 2, UnitPrice: decimal.RequireFromString("32")},
		{MenuItemID: "p-2", ItemName: "Calabresa", Quantity: 1, UnitPrice: decimal.RequireFromString("35")},
	}

	mock.ExpectExec(regexp.QuoteMeta("VALUES ($1, $2, $3, $4, $5), ($6, $7, $8, $9, $10)")).
		WithArgs("o-1", "p-1", "Margherita", 2, lines[0].UnitPrice, "o-1", "p-2", "Calabresa", 1, lines[1].UnitPrice).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.CreateOrderLines(context.Background(), "o-1", lines))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderLines_Empty(t *testing.T) {
	repo, mock := newMockRepo(t)

	require.NoError(t, repo.CreateOrderLines(context.Background(), "o-1", nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderLines_Error(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO order_items").WillReturnError(errors.New("fk violation"))

	err := repo.CreateOrderLines(context.Background(), "o-1", []domain.OrderLine{{MenuItemID: "p-1", Quantity: 1}})
	assert.EqualError(t, err, "fk violation")
}

func TestGetOrder_WithLines(t *testing.T) {
	repo, mock := newMockRepo(t)
	orderID := "abcdef12-3456-7890-abcd-ef1234567890"
	now := time.Now()

	mock.ExpectQuery("FROM orders WHERE id = \\$1").WithArgs(orderID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_name", "customer_phone", "customer_address", "total_amount", "payment_method", "notes", "status", "created_at"}).
			AddRow(orderID, "Maria", "11988887777", "Av. Paulista, 1000", "99.00", "cash_on_delivery", "", "pending", now))
	mock.ExpectQuery("FROM order_items").WithArgs(orderID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "menu_item_id", "item_name", "quantity", "unit_price"}).
			AddRow("l-1", orderID, "p-1", "Margherita", 2, "32.00").
			AddRow("l-2", orderID, "p-2", "Calabresa", 1, "35.00"))

	order, err := repo.GetOrder(context.Background(), orderID)

	require.NoError(t, err)
	assert.Equal(t, "ABCDEF12", order.ShortCode)
	assert.Equal(t, domain.PaymentCashOnDelivery, order.PaymentMethod)
	require.Len(t, order.Lines, 2)
	assert.Equal(t, 2, order.Lines[0].Quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrder_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("FROM orders").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetOrder(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListOrders(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("ORDER BY created_at DESC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_name", "customer_phone", "customer_address", "total_amount", "payment_method", "notes", "status", "created_at"}).
			AddRow("o-1", "Maria", "11988887777", "Av. Paulista, 1000", "99.00", "instant_transfer", "Sem cebola", "pending", time.Now()))

	orders, err := repo.ListOrders(context.Background())

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "Sem cebola", orders[0].Notes)
}

func TestQRCodeRoundTrip(t *testing.T) {
	repo, mock := newMockRepo(t)
	png := []byte{0x89, 'P', 'N', 'G'}

	mock.ExpectExec("UPDATE orders SET qr_code").WithArgs(png, "o-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT qr_code FROM orders").WithArgs("o-1").
		WillReturnRows(sqlmock.NewRows([]string{"qr_code"}).AddRow(png))
	mock.ExpectQuery("SELECT qr_code FROM orders").WithArgs("o-2").WillReturnError(sql.ErrNoRows)

	require.NoError(t, repo.SaveQRCode(context.Background(), "o-1", png))

	got, err := repo.GetQRCode(context.Background(), "o-1")
	require.NoError(t, err)
	assert.Equal(t, png, got)

	_, err = repo.GetQRCode(context.Background(), "o-2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEnsureSchema(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("CREATE EXTENSION IF NOT EXISTS pgcrypto").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS menu_categories").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS menu_items").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS orders").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS order_items").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema_ReportsFailingStatement(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("CREATE EXTENSION").WillReturnError(errors.New("permission denied"))

	err := repo.EnsureSchema(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CREATE EXTENSION IF NOT EXISTS pgcrypto")
}
