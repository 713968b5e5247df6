// =============================================================================
// Docflow - Orders and Items
// =============================================================================
//
// Business records reconciliation runs against. An order carries exactly one
// item in the current design; reconciliation mutates the item in place and
// queues it for persistence through a Store.
//
// =============================================================================

package order

import (
	"fmt"
	"sync"
	"time"
)

// Item is the line being reconciled. Count, Price and Sum are rewritten from
// the received document on every reconciliation pass.
type Item struct {
	Number              string
	Count               float64
	Price               float64
	Sum                 float64
	PlannedDeliveryDate time.Time
}

// Order is one outbound order awaiting a counterpart response.
type Order struct {
	Number   string
	FilePath string
	Item     *Item
}

// Store resolves orders and persists reconciled items. Reconciliation runs
// for one order at a time; implementations must serialize writers per item.
type Store interface {
	// FindOrder resolves an order by number. ok is false when unknown.
	FindOrder(number string) (*Order, bool)

	// SaveItem persists a changed item for the given order.
	SaveItem(o *Order, it *Item) error
}

// MemoryStore is an in-process Store keyed by order number.
type MemoryStore struct {
	mu     sync.Mutex
	orders map[string]*Order
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{orders: make(map[string]*Order)}
}

// Put registers an order, replacing any existing record with the same
// number.
func (s *MemoryStore) Put(o *Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.Number] = o
}

// Len returns the number of registered orders.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func (s *MemoryStore) FindOrder(number string) (*Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[number]
	return o, ok
}

func (s *MemoryStore) SaveItem(o *Order, it *Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.orders[o.Number]
	if !ok {
		return fmt.Errorf("save item: unknown order %q", o.Number)
	}
	stored.Item = it
	return nil
}
