package cart

import (
	"errors"
	"strings"

	"github.com/A-Mayank/Order-FollowUp-System/internal/catalog"
)

var ErrBadIndex = errors.New("cart index out of range")

// Cart is an ordered sequence of selected products. Adding the same product
// twice yields two entries; there is no quantity aggregation.
type Cart struct {
	items []catalog.Product
}

func New() *Cart {
	return &Cart{}
}

// Add appends the product to the end of the cart.
func (c *Cart) Add(p catalog.Product) {
	c.items = append(c.items, p)
}

// Remove deletes the entry at the given position; later entries shift down.
// A stale index returns ErrBadIndex instead of panicking.
func (c *Cart) Remove(i int) error {
	if i < 0 || i >= len(c.items) {
		return ErrBadIndex
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return nil
}

// Total sums PriceNum over all entries, 0 for an empty cart. It is
// recomputed on every call; the cart is small and mutation infrequent.
func (c *Cart) Total() int {
	total := 0
	for _, p := range c.items {
		total += p.PriceNum
	}
	return total
}

// ProductNames joins all entry names with ", " in cart order.
func (c *Cart) ProductNames() string {
	names := make([]string, len(c.items))
	for i, p := range c.items {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}

func (c *Cart) Len() int {
	return len(c.items)
}

// Items returns a copy so callers cannot mutate the sequence directly.
func (c *Cart) Items() []catalog.Product {
	out := make([]catalog.Product, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Clear() {
	c.items = nil
}
