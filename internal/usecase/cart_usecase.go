package usecase

import (
	"context"

	"tabletab/internal/domain/entity"
	"tabletab/internal/domain/policy"

	"github.com/google/uuid"
)

// CartSummary is the derived view of one device's cart: resolved lines,
// totals, the discount evaluation and the age-gate flag. It is recomputed
// from the ledger on every read, never cached.
type CartSummary struct {
	Lines                []entity.CartLine `json:"lines"`
	Count                int               `json:"count"`
	Subtotal             entity.Cents      `json:"subtotal"`
	Discount             policy.Discount   `json:"discount"`
	RequiresVerification bool              `json:"requiresVerification"`
}

// CartUsecase defines the cart ledger operations for a device session.
// Mutations are total: unknown product identifiers on quantity change or
// removal are a no-op.
type CartUsecase interface {
	// AddItem adds one unit of a product, creating the line if absent.
	// The product must resolve against the loaded catalog.
	AddItem(ctx context.Context, deviceID uuid.UUID, productID entity.ProductID) (*CartSummary, error)

	// ChangeQuantity adds delta to a line, deleting it when the result
	// drops to zero or below.
	ChangeQuantity(ctx context.Context, deviceID uuid.UUID, productID entity.ProductID, delta int) (*CartSummary, error)

	// RemoveItem deletes a line unconditionally.
	RemoveItem(ctx context.Context, deviceID uuid.UUID, productID entity.ProductID) (*CartSummary, error)

	// Clear empties the ledger.
	Clear(ctx context.Context, deviceID uuid.UUID) (*CartSummary, error)

	// Summary returns the current derived totals.
	Summary(ctx context.Context, deviceID uuid.UUID) (*CartSummary, error)
}
