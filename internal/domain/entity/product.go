// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

// ProductID is the stable identifier assigned to a product by the
// inventory collaborator. Cart lines reference products only through it.
type ProductID int64

// Product is a single sellable item as supplied by the inventory
// collaborator. It is immutable once fetched; the core never mutates it.
type Product struct {
	ID          ProductID // Stable product identifier from the inventory service.
	Name        string    // Display name shown on the menu.
	Description string    // Optional description shown under the name.
	UnitPrice   Cents     // Price per unit, non-negative.
	Category    string    // Display name of the owning category.
}

// Category is a named group of products within an organization.
type Category struct {
	ID   int64  // Category identifier from the inventory service.
	Name string // Display name, unique within the organization.
}

// ProductIndex resolves cart lines to products. A lookup that misses means
// the referenced product is no longer part of the loaded catalog and the
// line must be excluded from totals rather than silently defaulted.
type ProductIndex interface {
	Resolve(id ProductID) (Product, bool)
}

// MapIndex is a ProductIndex backed by a plain map.
type MapIndex map[ProductID]Product

// Resolve implements ProductIndex.
func (m MapIndex) Resolve(id ProductID) (Product, bool) {
	p, ok := m[id]

	return p, ok
}
