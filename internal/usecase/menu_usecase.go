// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"tabletab/internal/domain/entity"
)

// MenuCategory is one visible category with its items, already filtered
// and sorted for display.
type MenuCategory struct {
	Name  string           `json:"name"`
	Items []entity.Product `json:"items"`
}

// MenuView is the aggregated catalog shown to a seated patron. Categories
// without items are hidden; item order within a category is by name.
type MenuView struct {
	Categories []MenuCategory `json:"categories"`

	// Failed lists categories whose inventory call failed, with the
	// failing detail for diagnosis. They are excluded from Categories,
	// never silently defaulted to empty.
	Failed []CategoryFailure `json:"failed,omitempty"`
}

// CategoryFailure describes a per-category inventory load failure.
type CategoryFailure struct {
	Category string `json:"category"`
	Detail   string `json:"detail"`
}

// MenuUsecase defines the read side of the catalog: a read-through cache
// over the inventory collaborator, keyed by category name.
type MenuUsecase interface {
	// LoadMenu returns the aggregated menu, fetching through the cache.
	// A failing categories call fails the aggregate; a failing per
	// category inventory call surfaces in MenuView.Failed.
	LoadMenu(ctx context.Context) (*MenuView, error)

	// Index returns the product lookup for the currently cached catalog.
	Index(ctx context.Context) (entity.ProductIndex, error)

	// Invalidate drops the cache so the next load refetches.
	Invalidate()
}
