package message

import (
	"sort"
	"sync"
)

// Repository defines persistence operations for message logs.
type Repository interface {
	Create(msg Message) (Message, error)
	// List returns messages newest first. orderID of nil lists messages
	// for every order.
	List(orderID *int, skip, limit int) ([]Message, error)
	// ExistsBySID reports whether a message with this provider SID is
	// already logged; used by sync to stay idempotent.
	ExistsBySID(sid string) (bool, error)
	// CountOutgoing counts messages we sent to the customer for an order.
	CountOutgoing(orderID int) (int, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu       sync.RWMutex
	nextID   int
	messages []Message
}

func NewInMemoryRepository(seed []Message) *InMemoryRepository {
	r := &InMemoryRepository{nextID: 1}
	for _, m := range seed {
		if m.ID >= r.nextID {
			r.nextID = m.ID + 1
		}
		r.messages = append(r.messages, m)
	}
	return r
}

func (r *InMemoryRepository) Create(msg Message) (Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.ID = r.nextID
	r.nextID++
	r.messages = append(r.messages, msg)
	return msg, nil
}

func (r *InMemoryRepository) List(orderID *int, skip, limit int) ([]Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Message, 0, len(r.messages))
	for _, m := range r.messages {
		if orderID != nil && m.OrderID != *orderID {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SentAt.After(out[j].SentAt) })

	if skip >= len(out) {
		return []Message{}, nil
	}
	out = out[skip:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *InMemoryRepository) CountOutgoing(orderID int) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, m := range r.messages {
		if m.OrderID == orderID && !m.IsIncoming {
			count++
		}
	}
	return count, nil
}

func (r *InMemoryRepository) ExistsBySID(sid string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.messages {
		if m.WhatsAppMessageID != nil && *m.WhatsAppMessageID == sid {
			return true, nil
		}
	}
	return false, nil
}
