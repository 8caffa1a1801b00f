package entity

import "sort"

// Cart is the ledger of requested quantities for the current table session,
// a mapping from product identifier to quantity. A line with quantity <= 0
// never exists; mutations that would produce one delete the line instead.
// Totals are derived lazily from the ledger and a ProductIndex, never
// cached incrementally.
type Cart struct {
	quantities map[ProductID]int
}

// CartLine is one resolved ledger entry, priced against the current catalog.
type CartLine struct {
	ProductID ProductID `json:"productId"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	UnitPrice Cents     `json:"unitPrice"`
	LineTotal Cents     `json:"lineTotal"`
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{quantities: make(map[ProductID]int)}
}

// Add increments the quantity for the product by one, creating the line
// if absent.
func (c *Cart) Add(id ProductID) {
	c.quantities[id]++
}

// ChangeQuantity adds delta to the product's quantity. A resulting
// quantity <= 0 removes the line. Unknown products are a no-op for
// negative deltas.
func (c *Cart) ChangeQuantity(id ProductID, delta int) {
	next := c.quantities[id] + delta
	if next <= 0 {
		delete(c.quantities, id)

		return
	}
	c.quantities[id] = next
}

// Remove deletes the product's line unconditionally.
func (c *Cart) Remove(id ProductID) {
	delete(c.quantities, id)
}

// Clear empties the ledger.
func (c *Cart) Clear() {
	c.quantities = make(map[ProductID]int)
}

// IsEmpty reports whether the ledger holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.quantities) == 0
}

// Count returns the total number of units across all lines.
func (c *Cart) Count() int {
	total := 0
	for _, qty := range c.quantities {
		total += qty
	}

	return total
}

// Quantity returns the quantity for a product, zero if no line exists.
func (c *Cart) Quantity(id ProductID) int {
	return c.quantities[id]
}

// ProductIDs returns the product identifiers currently in the ledger.
func (c *Cart) ProductIDs() []ProductID {
	ids := make([]ProductID, 0, len(c.quantities))
	for id := range c.quantities {
		ids = append(ids, id)
	}

	return ids
}

// Lines resolves the ledger against the index. Lines whose product is no
// longer resolvable are dropped. The result is sorted by line total
// descending, matching the order the patron sees in the order view.
func (c *Cart) Lines(index ProductIndex) []CartLine {
	lines := make([]CartLine, 0, len(c.quantities))
	for id, qty := range c.quantities {
		product, ok := index.Resolve(id)
		if !ok {
			continue
		}
		lines = append(lines, CartLine{
			ProductID: id,
			Name:      product.Name,
			Quantity:  qty,
			UnitPrice: product.UnitPrice,
			LineTotal: product.UnitPrice * Cents(qty),
		})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].LineTotal != lines[j].LineTotal {
			return lines[i].LineTotal > lines[j].LineTotal
		}

		return lines[i].ProductID < lines[j].ProductID
	})

	return lines
}

// Subtotal sums unit price times quantity over all resolvable lines.
func (c *Cart) Subtotal(index ProductIndex) Cents {
	var sum Cents
	for id, qty := range c.quantities {
		product, ok := index.Resolve(id)
		if !ok {
			continue
		}
		sum += product.UnitPrice * Cents(qty)
	}

	return sum
}
