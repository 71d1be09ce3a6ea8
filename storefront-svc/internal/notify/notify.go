package notify

import (
	"fmt"
	"sync"

	"pizzeria-storefront/storefront-svc/internal/cart"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

type Toast struct {
	Level       Level  `json:"level"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

const maxQueued = 20

// Queue buffers toasts for one session until the next response drains them.
type Queue struct {
	mu     sync.Mutex
	toasts []Toast
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Notify(level Level, title, description string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.toasts = append(q.toasts, Toast{Level: level, Title: title, Description: description})
	if len(q.toasts) > maxQueued {
		q.toasts = q.toasts[len(q.toasts)-maxQueued:]
	}
}

func (q *Queue) Drain() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.toasts
	q.toasts = nil
	if out == nil {
		return []Toast{}
	}
	return out
}

// CartToasts turns cart events into customer toasts. Only additions are
// announced; the cart panel already shows removals and quantity edits.
func CartToasts(q *Queue) cart.Subscriber {
	return func(e cart.Event) {
		switch e.Type {
		case cart.ItemAdded:
			q.Notify(LevelSuccess, "Adicionado ao carrinho", fmt.Sprintf("%s foi adicionada ao carrinho", e.Item.Name))
		case cart.ItemIncremented:
			q.Notify(LevelSuccess, "Quantidade atualizada", fmt.Sprintf("%s agora tem %d unidades", e.Item.Name, e.Quantity))
		}
	}
}
