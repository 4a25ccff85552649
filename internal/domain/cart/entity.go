package cart

import (
	"strconv"
	"strings"

	itemdom "drip/internal/domain/item"
)

// Cart holds the items a buyer intends to purchase.
// Each item id appears at most once; quantity is always 1 (resale listings
// are unique). The total is computed on demand, never cached.
type Cart struct {
	OwnerID string         `json:"ownerId"`
	Items   []itemdom.Item `json:"items"`
}

func New(ownerID string) *Cart {
	return &Cart{
		OwnerID: strings.TrimSpace(ownerID),
		Items:   []itemdom.Item{},
	}
}

// Add appends the item unless its id is already present.
// Returns false on the duplicate no-op.
func (c *Cart) Add(it itemdom.Item) bool {
	if c.Contains(it.ID) {
		return false
	}
	c.Items = append(c.Items, it)
	return true
}

// Remove deletes the entry with the given item id; no-op when absent.
func (c *Cart) Remove(itemID string) bool {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Contains(itemID string) bool {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return true
		}
	}
	return false
}

func (c *Cart) Len() int { return len(c.Items) }

// Subtotal sums the parsed price over all entries.
// An unparsable price counts as 0 here, matching what the buyer sees in the
// cart screen; checkout separately refuses carts with unparsable prices.
func (c *Cart) Subtotal() float64 {
	var sum float64
	for i := range c.Items {
		v, err := strconv.ParseFloat(strings.TrimSpace(c.Items[i].Price), 64)
		if err != nil {
			continue
		}
		sum += v
	}
	return sum
}

// Clear drops all entries.
func (c *Cart) Clear() {
	c.Items = []itemdom.Item{}
}

// Snapshot returns a copy of the current entries.
func (c *Cart) Snapshot() []itemdom.Item {
	out := make([]itemdom.Item, len(c.Items))
	copy(out, c.Items)
	return out
}
