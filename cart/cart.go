// Package cart implements the pre-order shopping cart as an explicit state
// container: pure reducer-style operations over a list of line items plus a
// serialization boundary for client-local persistence. Identical product
// configurations merge into a single line keyed by a deterministic cart key.
package cart

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Item is one cart line: a product configuration (size, toppings) with a
// quantity and the display unit price resolved when the line was added.
type Item struct {
	ID        uint            `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	ImagePath *string         `json:"image_path,omitempty"`
	Size      string          `json:"size"`
	Toppings  []string        `json:"toppings"`
	CartKey   string          `json:"cartKey"`
}

// DeriveKey builds the identity key for a product configuration. Toppings
// are sorted first so any selection order yields the same key.
func DeriveKey(productID uint, size string, toppings []string) string {
	sorted := make([]string, len(toppings))
	copy(sorted, toppings)
	sort.Strings(sorted)
	return fmt.Sprintf("%d-%s-%s", productID, size, strings.Join(sorted, ","))
}

// Cart holds the prospective line items of a single client
type Cart struct {
	items []Item
}

// New returns an empty cart
func New() *Cart {
	return &Cart{}
}

// AddItem adds a product configuration to the cart. If a line with the same
// (product, size, topping set) already exists its quantity is incremented
// and price, size and toppings are left untouched; otherwise a new line
// with quantity 1 is appended. The input's Quantity and CartKey fields are
// ignored.
func (c *Cart) AddItem(item Item) {
	key := DeriveKey(item.ID, item.Size, item.Toppings)
	for i := range c.items {
		if c.items[i].CartKey == key {
			c.items[i].Quantity++
			return
		}
	}

	item.Quantity = 1
	item.CartKey = key
	c.items = append(c.items, item)
}

// RemoveItem deletes the line with the given key. Removing an absent key is
// a no-op, not an error.
func (c *Cart) RemoveItem(cartKey string) {
	kept := c.items[:0]
	for _, item := range c.items {
		if item.CartKey != cartKey {
			kept = append(kept, item)
		}
	}
	c.items = kept
}

// UpdateQuantity sets the quantity of the line with the given key, clamped
// at zero. A resulting quantity of zero removes the line: the cart never
// stores a line with quantity below one.
func (c *Cart) UpdateQuantity(cartKey string, quantity int) {
	if quantity < 0 {
		quantity = 0
	}

	kept := c.items[:0]
	for _, item := range c.items {
		if item.CartKey == cartKey {
			if quantity == 0 {
				continue
			}
			item.Quantity = quantity
		}
		kept = append(kept, item)
	}
	c.items = kept
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the cart lines
func (c *Cart) Items() []Item {
	items := make([]Item, len(c.items))
	copy(items, c.items)
	return items
}

// Len returns the number of distinct lines in the cart
func (c *Cart) Len() int {
	return len(c.items)
}

// Total computes the cart total as sum of price x quantity over all lines.
// It is computed fresh on every call in decimal arithmetic so repeated
// small topping surcharges never accumulate binary-float error.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
