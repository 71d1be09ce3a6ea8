package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"pizzeria-storefront/storefront-svc/internal/domain"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, COALESCE(description, ''), created_at
		FROM menu_categories
		ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			continue
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *PostgresRepository) ListMenuItems(ctx context.Context) ([]domain.MenuItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, COALESCE(category_id::text, ''), name, COALESCE(description, ''), price,
		       COALESCE(image_url, ''), is_available, created_at
		FROM menu_items
		WHERE is_available = TRUE
		ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.MenuItem{}
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.ID, &item.CategoryID, &item.Name, &item.Description, &item.Price,
			&item.ImageURL, &item.Available, &item.CreatedAt); err != nil {
			continue
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) GetMenuItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	var item domain.MenuItem
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, COALESCE(category_id::text, ''), name, COALESCE(description, ''), price,
		       COALESCE(image_url, ''), is_available, created_at
		FROM menu_items
		WHERE id = $1`, id).
		Scan(&item.ID, &item.CategoryID, &item.Name, &item.Description, &item.Price,
			&item.ImageURL, &item.Available, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("menu item %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO menu_items (category_id, name, description, price, image_url, is_available)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		nullString(item.CategoryID), item.Name, item.Description, item.Price, item.ImageURL, item.Available).
		Scan(&item.ID, &item.CreatedAt)
}

func (r *PostgresRepository) CreateOrderHeader(ctx context.Context, header *domain.OrderHeader) error {
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO orders (customer_name, customer_phone, customer_address, total_amount, payment_method, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		header.CustomerName, header.CustomerPhone, header.CustomerAddress, header.TotalAmount,
		string(header.PaymentMethod), nullString(header.Notes), header.Status).
		Scan(&header.ID, &header.CreatedAt)
}

// CreateOrderLines writes every line in one INSERT, so either all lines of an
// order land or none do.
func (r *PostgresRepository) CreateOrderLines(ctx context.Context, orderID string, lines []domain.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(lines))
	args := make([]interface{}, 0, len(lines)*5)
	for i, line := range lines {
		n := i * 5
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5))
		args = append(args, orderID, line.MenuItemID, line.ItemName, line.Quantity, line.UnitPrice)
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO order_items (order_id, menu_item_id, item_name, quantity, unit_price)
		VALUES `+strings.Join(placeholders, ", "), args...)
	return err
}

func (r *PostgresRepository) GetOrder(ctx context.Context, orderID string) (*domain.OrderRecord, error) {
	var order domain.OrderRecord
	var paymentMethod string
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, customer_name, customer_phone, customer_address, total_amount, payment_method,
		       COALESCE(notes, ''), status, created_at
		FROM orders WHERE id = $1`, orderID).
		Scan(&order.ID, &order.CustomerName, &order.CustomerPhone, &order.CustomerAddress, &order.TotalAmount,
			&paymentMethod, &order.Notes, &order.Status, &order.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	order.PaymentMethod = domain.PaymentMethod(paymentMethod)
	order.ShortCode = domain.ShortCode(order.ID)

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, order_id, menu_item_id, item_name, quantity, unit_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at, id`, orderID)
	if err != nil {
		return &order, err
	}
	defer rows.Close()

	order.Lines = []domain.OrderLine{}
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ID, &line.OrderID, &line.MenuItemID, &line.ItemName, &line.Quantity, &line.UnitPrice); err != nil {
			continue
		}
		order.Lines = append(order.Lines, line)
	}

	return &order, rows.Err()
}

func (r *PostgresRepository) ListOrders(ctx context.Context) ([]domain.OrderHeader, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, customer_name, customer_phone, customer_address, total_amount, payment_method,
		       COALESCE(notes, ''), status, created_at
		FROM orders
		ORDER BY created_at DESC
		LIMIT 100`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.OrderHeader{}
	for rows.Next() {
		var order domain.OrderHeader
		var paymentMethod string
		if err := rows.Scan(&order.ID, &order.CustomerName, &order.CustomerPhone, &order.CustomerAddress,
			&order.TotalAmount, &paymentMethod, &order.Notes, &order.Status, &order.CreatedAt); err != nil {
			continue
		}
		order.PaymentMethod = domain.PaymentMethod(paymentMethod)
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *PostgresRepository) SaveQRCode(ctx context.Context, orderID string, qr []byte) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE orders SET qr_code = $1 WHERE id = $2`, qr, orderID)
	return err
}

func (r *PostgresRepository) GetQRCode(ctx context.Context, orderID string) ([]byte, error) {
	var qrCode []byte
	err := r.DB.QueryRowContext(ctx, "SELECT qr_code FROM orders WHERE id = $1", orderID).Scan(&qrCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return qrCode, nil
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
		`CREATE TABLE IF NOT EXISTS menu_categories (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			description TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS menu_items (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			category_id UUID REFERENCES menu_categories(id),
			name TEXT NOT NULL,
			description TEXT,
			price NUMERIC(10,2) NOT NULL CHECK (price > 0),
			image_url TEXT,
			is_available BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			customer_name TEXT NOT NULL,
			customer_phone TEXT NOT NULL,
			customer_address TEXT NOT NULL,
			total_amount NUMERIC(10,2) NOT NULL,
			payment_method TEXT NOT NULL,
			notes TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			qr_code BYTEA,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			menu_item_id UUID NOT NULL REFERENCES menu_items(id),
			item_name TEXT NOT NULL,
			quantity INT NOT NULL CHECK (quantity > 0),
			unit_price NUMERIC(10,2) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range statements {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func firstLine(stmt string) string {
	line, _, _ := strings.Cut(stmt, "\n")
	return strings.TrimSpace(strings.TrimSuffix(line, "("))
}
