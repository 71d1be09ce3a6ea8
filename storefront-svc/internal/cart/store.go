// Package cart holds the in-memory shopping cart of one storefront session.
//
// The Store is the single source of truth for what the customer intends to
// buy. Totals are never stored; every read recomputes them from the lines.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"pizzeria-storefront/storefront-svc/internal/domain"
)

type EventType string

const (
	ItemAdded       EventType = "item_added"
	ItemIncremented EventType = "item_incremented"
	QuantityChanged EventType = "quantity_changed"
	ItemRemoved     EventType = "item_removed"
	CartCleared     EventType = "cart_cleared"
)

// Event describes one applied mutation. Lines is the cart right after it,
// and Version increases with every mutation of the same store.
type Event struct {
	Type     EventType
	Item     domain.MenuItem
	Quantity int
	Lines    []domain.CartLine
	Version  uint64
}

type Subscriber func(Event)

type Snapshot struct {
	Lines      []domain.CartLine
	TotalItems int
	TotalPrice decimal.Decimal
}

type Store struct {
	mu          sync.Mutex
	lines       []domain.CartLine
	version     uint64
	subscribers []Subscriber
}

func NewStore() *Store {
	return &Store{}
}

// Subscribe registers fn for every later mutation. Subscribers run after the
// mutation is applied and outside the store lock.
func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) AddItem(item domain.MenuItem) {
	s.mu.Lock()
	event := Event{Type: ItemAdded, Item: item, Quantity: 1}
	if i := s.indexOf(item.ID); i >= 0 {
		s.lines[i].Quantity++
		event = Event{Type: ItemIncremented, Item: s.lines[i].Item, Quantity: s.lines[i].Quantity}
	} else {
		s.lines = append(s.lines, domain.CartLine{Item: item, Quantity: 1})
	}
	subs := s.stampLocked(&event)
	s.mu.Unlock()

	publish(subs, event)
}

func (s *Store) RemoveItem(itemID string) {
	s.mu.Lock()
	i := s.indexOf(itemID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	event := Event{Type: ItemRemoved, Item: s.lines[i].Item}
	s.lines = append(s.lines[:i:i], s.lines[i+1:]...)
	subs := s.stampLocked(&event)
	s.mu.Unlock()

	publish(subs, event)
}

// UpdateQuantity sets an absolute quantity. Anything below one removes the line.
func (s *Store) UpdateQuantity(itemID string, quantity int) {
	if quantity < 1 {
		s.RemoveItem(itemID)
		return
	}

	s.mu.Lock()
	i := s.indexOf(itemID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.lines[i].Quantity = quantity
	event := Event{Type: QuantityChanged, Item: s.lines[i].Item, Quantity: quantity}
	subs := s.stampLocked(&event)
	s.mu.Unlock()

	publish(subs, event)
}

func (s *Store) Clear() {
	s.mu.Lock()
	s.lines = nil
	event := Event{Type: CartCleared}
	subs := s.stampLocked(&event)
	s.mu.Unlock()

	publish(subs, event)
}

// Restore replaces the lines without emitting events. Lines with a quantity
// below one are dropped and repeated items are merged.
func (s *Store) Restore(lines []domain.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.version++
	s.lines = nil
	for _, line := range lines {
		if line.Quantity < 1 {
			continue
		}
		if i := s.indexOf(line.Item.ID); i >= 0 {
			s.lines[i].Quantity += line.Quantity
			continue
		}
		s.lines = append(s.lines, line)
	}
}

func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLines()
}

func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalItems(s.lines)
}

func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalPrice(s.lines)
}

// Snapshot returns lines and totals read under a single lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Lines:      s.copyLines(),
		TotalItems: totalItems(s.lines),
		TotalPrice: totalPrice(s.lines),
	}
}

func (s *Store) indexOf(itemID string) int {
	for i, line := range s.lines {
		if line.Item.ID == itemID {
			return i
		}
	}
	return -1
}

func (s *Store) copyLines() []domain.CartLine {
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// stampLocked attaches the post-mutation lines and the next version to event
// and returns the subscribers to notify.
func (s *Store) stampLocked(event *Event) []Subscriber {
	s.version++
	event.Version = s.version
	event.Lines = s.copyLines()
	return s.subscribersLocked()
}

func (s *Store) subscribersLocked() []Subscriber {
	subs := make([]Subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	return subs
}

func publish(subs []Subscriber, event Event) {
	for _, fn := range subs {
		fn(event)
	}
}

func totalItems(lines []domain.CartLine) int {
	total := 0
	for _, line := range lines {
		total += line.Quantity
	}
	return total
}

func totalPrice(lines []domain.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
	}
	return total
}
