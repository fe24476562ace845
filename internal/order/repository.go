package order

import (
	"errors"
	"sort"
	"sync"
	"time"
)

var ErrNotFound = errors.New("order not found")

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ord Order) (Order, error)
	GetByID(id int) (Order, error)
	// Update persists every mutable field of the order row.
	Update(ord Order) error
	// List returns orders newest first with skip/limit pagination.
	List(skip, limit int) ([]Order, error)
	// LatestByCustomer returns the customer's most recent order.
	LatestByCustomer(customerID int) (Order, error)
	// ListDueForReminder returns automation-enabled orders with pending
	// payment, created inside (floor, cutoff], whose n-th reminder has not
	// been sent yet. n is 1 or 2.
	ListDueForReminder(n int, cutoff, floor time.Time) ([]Order, error)
	// ListSilent returns automation-enabled orders created before the
	// cutoff whose customer has never replied.
	ListSilent(cutoff time.Time) ([]Order, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu     sync.RWMutex
	nextID int
	orders []Order
}

func NewInMemoryRepository(seed []Order) *InMemoryRepository {
	r := &InMemoryRepository{nextID: 1}
	for _, ord := range seed {
		if ord.ID >= r.nextID {
			r.nextID = ord.ID + 1
		}
		r.orders = append(r.orders, ord)
	}
	return r
}

func (r *InMemoryRepository) Create(ord Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ord.ID = r.nextID
	r.nextID++
	r.orders = append(r.orders, ord)
	return ord, nil
}

func (r *InMemoryRepository) GetByID(id int) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, ord := range r.orders {
		if ord.ID == id {
			return ord, nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) Update(ord Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.orders {
		if r.orders[i].ID == ord.ID {
			r.orders[i] = ord
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) List(skip, limit int) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sorted := make([]Order, len(r.orders))
	copy(sorted, r.orders)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })

	if skip >= len(sorted) {
		return []Order{}, nil
	}
	sorted = sorted[skip:]
	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

func (r *InMemoryRepository) LatestByCustomer(customerID int) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest *Order
	for i := range r.orders {
		ord := r.orders[i]
		if ord.CustomerID != customerID {
			continue
		}
		if latest == nil || ord.CreatedAt.After(latest.CreatedAt) {
			latest = &ord
		}
	}
	if latest == nil {
		return Order{}, ErrNotFound
	}
	return *latest, nil
}

func (r *InMemoryRepository) ListDueForReminder(n int, cutoff, floor time.Time) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	due := make([]Order, 0)
	for _, ord := range r.orders {
		if ord.PaymentStatus != PaymentPending || !ord.AutomationEnabled {
			continue
		}
		sent := ord.PaymentReminder1SentAt
		if n == 2 {
			sent = ord.PaymentReminder2SentAt
		}
		if sent != nil {
			continue
		}
		if ord.CreatedAt.After(cutoff) || !ord.CreatedAt.After(floor) {
			continue
		}
		due = append(due, ord)
	}
	return due, nil
}

func (r *InMemoryRepository) ListSilent(cutoff time.Time) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	silent := make([]Order, 0)
	for _, ord := range r.orders {
		if !ord.AutomationEnabled || ord.LastCustomerReplyAt != nil {
			continue
		}
		if !ord.CreatedAt.Before(cutoff) {
			continue
		}
		silent = append(silent, ord)
	}
	return silent, nil
}
