package alert

import (
	"errors"
	"sort"
	"sync"
	"time"
)

var ErrNotFound = errors.New("alert not found")

// Repository defines persistence operations for alerts.
type Repository interface {
	Create(a Alert) (Alert, error)
	// List returns alerts newest first. resolved of nil lists all.
	List(resolved *bool, skip, limit int) ([]Alert, error)
	// Resolve marks a single alert resolved.
	Resolve(id int, at time.Time) error
	// ResolveByOrderAndReason resolves every unresolved alert for the
	// order with the given reason, returning how many were affected.
	ResolveByOrderAndReason(orderID int, reason Reason, at time.Time) (int, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu     sync.RWMutex
	nextID int
	alerts []Alert
}

func NewInMemoryRepository(seed []Alert) *InMemoryRepository {
	r := &InMemoryRepository{nextID: 1}
	for _, a := range seed {
		if a.ID >= r.nextID {
			r.nextID = a.ID + 1
		}
		r.alerts = append(r.alerts, a)
	}
	return r
}

func (r *InMemoryRepository) Create(a Alert) (Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = r.nextID
	r.nextID++
	r.alerts = append(r.alerts, a)
	return a, nil
}

func (r *InMemoryRepository) List(resolved *bool, skip, limit int) ([]Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Alert, 0, len(r.alerts))
	for _, a := range r.alerts {
		if resolved != nil && a.Resolved != *resolved {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if skip >= len(out) {
		return []Alert{}, nil
	}
	out = out[skip:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *InMemoryRepository) Resolve(id int, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.alerts {
		if r.alerts[i].ID == id {
			r.alerts[i].Resolved = true
			r.alerts[i].ResolvedAt = &at
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) ResolveByOrderAndReason(orderID int, reason Reason, at time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for i := range r.alerts {
		a := &r.alerts[i]
		if a.OrderID == orderID && a.Reason == reason && !a.Resolved {
			a.Resolved = true
			a.ResolvedAt = &at
			n++
		}
	}
	return n, nil
}
