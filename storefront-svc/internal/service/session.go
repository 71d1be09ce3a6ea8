package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"pizzeria-storefront/storefront-svc/internal/cart"
	"pizzeria-storefront/storefront-svc/internal/checkout"
	"pizzeria-storefront/storefront-svc/internal/domain"
	"pizzeria-storefront/storefront-svc/internal/metrics"
	"pizzeria-storefront/storefront-svc/internal/notify"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrItemUnavailable = errors.New("menu item is not available")
)

const mirrorTimeout = 2 * time.Second

// Session is one customer's visit: a cart, its pending toasts and the
// checkout submitter bound to that cart.
type Session struct {
	ID       string
	Cart     *cart.Store
	Toasts   *notify.Queue
	Checkout *checkout.Submitter

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

type CartLineView struct {
	Item     domain.MenuItem `json:"item"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type SessionView struct {
	SessionID     string          `json:"session_id"`
	Items         []CartLineView  `json:"items"`
	TotalItems    int             `json:"total_items"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	CheckoutState checkout.State  `json:"checkout_state"`
	Notifications []notify.Toast  `json:"notifications"`
}

// View renders the cart and drains pending toasts.
func (s *Session) View() SessionView {
	snap := s.Cart.Snapshot()
	items := make([]CartLineView, 0, len(snap.Lines))
	for _, line := range snap.Lines {
		items = append(items, CartLineView{Item: line.Item, Quantity: line.Quantity, Subtotal: line.Subtotal()})
	}
	return SessionView{
		SessionID:     s.ID,
		Items:         items,
		TotalItems:    snap.TotalItems,
		TotalPrice:    snap.TotalPrice,
		CheckoutState: s.Checkout.State(),
		Notifications: s.Toasts.Drain(),
	}
}

type SessionServiceInterface interface {
	Create(ctx context.Context) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Close(ctx context.Context, id string) error
	AddItem(ctx context.Context, id, itemID string) (*Session, error)
	UpdateQuantity(ctx context.Context, id, itemID string, quantity int) (*Session, error)
	RemoveItem(ctx context.Context, id, itemID string) (*Session, error)
	Checkout(ctx context.Context, id string, details domain.CustomerDetails) (*Session, *checkout.Result, error)
}

type SessionService struct {
	menu        MenuRepository
	orders      checkout.OrderWriter
	handoff     checkout.Handoff
	mirror      CartMirror
	destination string
	ttl         time.Duration
	log         *logrus.Entry
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

type SessionConfig struct {
	Destination string
	TTL         time.Duration
}

// NewSessionService wires sessions to their collaborators. mirror and handoff
// may be nil.
func NewSessionService(menu MenuRepository, orders checkout.OrderWriter, handoff checkout.Handoff, mirror CartMirror, cfg SessionConfig, log *logrus.Entry) *SessionService {
	return &SessionService{
		menu:        menu,
		orders:      orders,
		handoff:     handoff,
		mirror:      mirror,
		destination: cfg.Destination,
		ttl:         cfg.TTL,
		log:         log,
		now:         time.Now,
		sessions:    make(map[string]*Session),
	}
}

func (s *SessionService) Create(ctx context.Context) (*Session, error) {
	session, _ := s.open(uuid.NewString())
	s.log.WithField("session_id", session.ID).Debug("[session] opened")
	return session, nil
}

// Get returns a live session. A session unknown to this process is rebuilt
// from the cart mirror when one is stored for id.
func (s *SessionService) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	session, ok := s.sessions[id]
	s.mu.Unlock()
	if ok {
		session.touch(s.now())
		return session, nil
	}

	if s.mirror == nil {
		return nil, ErrSessionNotFound
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrSessionNotFound
	}
	lines, err := s.mirror.Load(ctx, id)
	if err != nil {
		s.log.WithError(err).WithField("session_id", id).Warn("[session] failed to load cart mirror")
		return nil, ErrSessionNotFound
	}
	if len(lines) == 0 {
		return nil, ErrSessionNotFound
	}

	session, created := s.open(id)
	if !created {
		session.touch(s.now())
		return session, nil
	}
	session.Cart.Restore(lines)
	s.log.WithFields(logrus.Fields{"session_id": id, "lines": len(lines)}).Info("[session] restored from mirror")
	return session, nil
}

func (s *SessionService) Close(ctx context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	metrics.ActiveSessions.Dec()
	if s.mirror != nil {
		if err := s.mirror.Delete(ctx, id); err != nil {
			s.log.WithError(err).WithField("session_id", id).Warn("[session] failed to drop cart mirror")
		}
	}
	return nil
}

// AddItem puts one unit of a currently offered menu item in the cart.
func (s *SessionService) AddItem(ctx context.Context, id, itemID string) (*Session, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	item, err := s.menu.GetMenuItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, fmt.Errorf("%s: %w", item.Name, ErrItemUnavailable)
	}
	session.Cart.AddItem(*item)
	return session, nil
}

func (s *SessionService) UpdateQuantity(ctx context.Context, id, itemID string, quantity int) (*Session, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	session.Cart.UpdateQuantity(itemID, quantity)
	return session, nil
}

func (s *SessionService) RemoveItem(ctx context.Context, id, itemID string) (*Session, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	session.Cart.RemoveItem(itemID)
	return session, nil
}

func (s *SessionService) Checkout(ctx context.Context, id string, details domain.CustomerDetails) (*Session, *checkout.Result, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	result, err := session.Checkout.Submit(ctx, details)
	return session, result, err
}

// Sweep closes sessions idle longer than the TTL. Sessions with a checkout
// in flight are kept. Their mirrored carts are left to expire on their own.
func (s *SessionService) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if now.Sub(session.idleSince()) < s.ttl || session.Checkout.Busy() {
			continue
		}
		delete(s.sessions, id)
		removed++
	}
	if removed > 0 {
		metrics.ActiveSessions.Sub(float64(removed))
		s.log.WithField("removed", removed).Info("[session] swept idle sessions")
	}
	return removed
}

func (s *SessionService) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(s.now())
		}
	}
}

func (s *SessionService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// open registers a new session under id, or returns the one already there.
func (s *SessionService) open(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[id]; ok {
		return existing, false
	}

	log := s.log.WithField("session_id", id)
	store := cart.NewStore()
	toasts := notify.NewQueue()

	session := &Session{
		ID:       id,
		Cart:     store,
		Toasts:   toasts,
		Checkout: checkout.NewSubmitter(store, s.orders, s.handoff, toasts, s.destination, log),
		lastSeen: s.now(),
	}

	store.Subscribe(notify.CartToasts(toasts))
	store.Subscribe(func(e cart.Event) {
		metrics.CartEvents.WithLabelValues(string(e.Type)).Inc()
	})
	if s.mirror != nil {
		store.Subscribe(s.mirrorCart(id, log))
	}

	s.sessions[id] = session
	metrics.ActiveSessions.Inc()
	return session, true
}

// mirrorCart saves the lines carried by each event. Saves run one at a time
// and an event older than the last saved one is dropped, so a slow
// subscriber never overwrites a newer cart.
func (s *SessionService) mirrorCart(id string, log *logrus.Entry) cart.Subscriber {
	var (
		mu    sync.Mutex
		saved uint64
	)
	return func(e cart.Event) {
		mu.Lock()
		defer mu.Unlock()
		if e.Version <= saved {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		defer cancel()
		if err := s.mirror.Save(ctx, id, e.Lines); err != nil {
			log.WithError(err).Warn("[session] failed to mirror cart")
			return
		}
		saved = e.Version
	}
}

var _ SessionServiceInterface = (*SessionService)(nil)
