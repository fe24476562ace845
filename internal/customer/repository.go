package customer

import (
	"errors"
	"sync"
	"time"
)

var ErrNotFound = errors.New("customer not found")

// Repository provides access to customer records.
type Repository interface {
	GetByID(id int) (Customer, error)
	GetByNumber(number string) (Customer, error)
	// Upsert finds the customer with the given WhatsApp number, creating
	// them if missing and updating the stored name if it changed.
	Upsert(name, number string) (Customer, error)
	// ListByIDs returns the customers whose id is present in ids. Missing
	// ids are skipped. An empty slice returns an empty result without a
	// database query.
	ListByIDs(ids []int) ([]Customer, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu        sync.RWMutex
	nextID    int
	customers []Customer
}

func NewInMemoryRepository(seed []Customer) *InMemoryRepository {
	r := &InMemoryRepository{nextID: 1}
	for _, c := range seed {
		if c.ID >= r.nextID {
			r.nextID = c.ID + 1
		}
		r.customers = append(r.customers, c)
	}
	return r
}

func (r *InMemoryRepository) GetByID(id int) (Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return Customer{}, ErrNotFound
}

func (r *InMemoryRepository) GetByNumber(number string) (Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.customers {
		if c.WhatsAppNumber == number {
			return c, nil
		}
	}
	return Customer{}, ErrNotFound
}

func (r *InMemoryRepository) Upsert(name, number string) (Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.customers {
		if c.WhatsAppNumber == number {
			if c.Name != name {
				c.Name = name
				r.customers[i] = c
			}
			return c, nil
		}
	}
	c := Customer{ID: r.nextID, Name: name, WhatsAppNumber: number, CreatedAt: time.Now().UTC()}
	r.nextID++
	r.customers = append(r.customers, c)
	return c, nil
}

func (r *InMemoryRepository) ListByIDs(ids []int) ([]Customer, error) {
	if len(ids) == 0 {
		return []Customer{}, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Customer, 0, len(ids))
	for _, id := range ids {
		for _, c := range r.customers {
			if c.ID == id {
				out = append(out, c)
				break
			}
		}
	}
	return out, nil
}
