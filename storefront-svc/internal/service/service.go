package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"pizzeria-storefront/storefront-svc/internal/checkout"
	"pizzeria-storefront/storefront-svc/internal/domain"
	"pizzeria-storefront/storefront-svc/internal/storage"
)

var ErrInvalidMenuItem = errors.New("menu item needs a name and a positive price")

type MenuRepository interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListMenuItems(ctx context.Context) ([]domain.MenuItem, error)
	GetMenuItem(ctx context.Context, id string) (*domain.MenuItem, error)
	CreateMenuItem(ctx context.Context, item *domain.MenuItem) error
}

type OrderRepository interface {
	checkout.OrderWriter
	GetOrder(ctx context.Context, orderID string) (*domain.OrderRecord, error)
	ListOrders(ctx context.Context) ([]domain.OrderHeader, error)
	SaveQRCode(ctx context.Context, orderID string, qr []byte) error
	GetQRCode(ctx context.Context, orderID string) ([]byte, error)
}

type CartMirror interface {
	Save(ctx context.Context, sessionID string, lines []domain.CartLine) error
	Load(ctx context.Context, sessionID string) ([]domain.CartLine, error)
	Delete(ctx context.Context, sessionID string) error
}

type MenuServiceInterface interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	List(ctx context.Context, categoryID string) ([]domain.MenuItem, error)
	Get(ctx context.Context, id string) (*domain.MenuItem, error)
	Create(ctx context.Context, item *domain.MenuItem) error
}

type OrderServiceInterface interface {
	Get(ctx context.Context, orderID string) (*domain.OrderRecord, error)
	List(ctx context.Context) ([]domain.OrderHeader, error)
	GetQRCode(ctx context.Context, orderID string) ([]byte, error)
	QRLink(orderID string) string
}

var (
	_ MenuRepository  = (*storage.PostgresRepository)(nil)
	_ OrderRepository = (*storage.PostgresRepository)(nil)
	_ CartMirror      = (*storage.RedisCartMirror)(nil)
)

type MenuService struct {
	repo MenuRepository
}

func NewMenuService(repo MenuRepository) *MenuService {
	return &MenuService{repo: repo}
}

func (s *MenuService) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

// List returns the items currently offered, ordered by name. A non-empty
// categoryID keeps only that category.
func (s *MenuService) List(ctx context.Context, categoryID string) ([]domain.MenuItem, error) {
	items, err := s.repo.ListMenuItems(ctx)
	if err != nil || categoryID == "" {
		return items, err
	}
	filtered := make([]domain.MenuItem, 0, len(items))
	for _, item := range items {
		if item.CategoryID == categoryID {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

func (s *MenuService) Get(ctx context.Context, id string) (*domain.MenuItem, error) {
	return s.repo.GetMenuItem(ctx, id)
}

func (s *MenuService) Create(ctx context.Context, item *domain.MenuItem) error {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" || !item.Price.IsPositive() {
		return ErrInvalidMenuItem
	}
	return s.repo.CreateMenuItem(ctx, item)
}

var _ MenuServiceInterface = (*MenuService)(nil)

// maxQRContent keeps generated codes well inside what a phone camera reads
// reliably. Longer handoff links fall back to the order reference link.
const maxQRContent = 1024

type OrderService struct {
	repo        OrderRepository
	qrEncoder   QRGenerator
	destination string
	log         *logrus.Entry
}

// NewOrderService serves stored orders. QR codes encode the handoff link
// addressed to destination.
func NewOrderService(repo OrderRepository, qr QRGenerator, destination string, log *logrus.Entry) *OrderService {
	return &OrderService{repo: repo, qrEncoder: qr, destination: destination, log: log}
}

func (s *OrderService) Get(ctx context.Context, orderID string) (*domain.OrderRecord, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.QRCode = s.QRLink(order.ID)
	return order, nil
}

func (s *OrderService) List(ctx context.Context) ([]domain.OrderHeader, error) {
	return s.repo.ListOrders(ctx)
}

// GetQRCode returns the stored PNG, generating and saving it on first use.
func (s *OrderService) GetQRCode(ctx context.Context, orderID string) ([]byte, error) {
	qr, err := s.repo.GetQRCode(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(qr) > 0 || s.qrEncoder == nil {
		return qr, nil
	}

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	regenerated, err := s.qrEncoder.Generate(s.qrContent(*order))
	if err != nil {
		return nil, fmt.Errorf("generate qr code for order %s: %w", orderID, err)
	}
	if err := s.repo.SaveQRCode(ctx, orderID, regenerated); err != nil {
		s.log.WithError(err).WithField("order_id", orderID).Warn("[orders] failed to store qr code")
	}
	return regenerated, nil
}

func (s *OrderService) qrContent(order domain.OrderRecord) string {
	link := checkout.RecordedHandoffLink(order, s.destination)
	if len(link) <= maxQRContent {
		return link
	}
	return checkout.OrderReferenceLink(order.ID, s.destination)
}

func (s *OrderService) QRLink(orderID string) string {
	return fmt.Sprintf("/api/orders/%s/qrcode", orderID)
}

var _ OrderServiceInterface = (*OrderService)(nil)
