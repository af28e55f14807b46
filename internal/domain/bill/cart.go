package bill

import (
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Cart is the mutable list of items being checked out. Build a Bill from
// Items() to get an immutable snapshot.
type Cart struct {
	mu    sync.Mutex
	items []RawItem
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// Add appends item and returns its ID, generating one when missing.
func (c *Cart) Add(item RawItem) string {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, item)
	return item.ID
}

// Remove deletes the first item with the given ID. It reports whether an
// item was removed.
func (c *Cart) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := slices.IndexFunc(c.items, func(it RawItem) bool { return it.ID == id })
	if i < 0 {
		return false
	}
	c.items = slices.Delete(c.items, i, i+1)
	return true
}

// Items returns a copy of the cart contents in insertion order.
func (c *Cart) Items() []RawItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

// Len returns the number of items in the cart.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}
