// Package policy holds the pure pricing and restriction rules of the
// ordering flow. Nothing here touches session state or performs IO.
package policy

import "tabletab/internal/domain/entity"

// Default volume discount: 5% off once the subtotal reaches 20.00 €.
const (
	DefaultDiscountThreshold = entity.Cents(2000)
	DefaultDiscountPercent   = 5
)

// Discount is the result of evaluating the volume discount against a
// subtotal.
type Discount struct {
	Active  bool         `json:"active"`
	Percent int          `json:"percent"`
	Missing entity.Cents `json:"missing"` // Amount still needed to activate; zero when active.
}

// EvaluateDiscount is a pure function of the subtotal. It never inspects
// the cart or the session.
func EvaluateDiscount(subtotal, threshold entity.Cents, percent int) Discount {
	missing := threshold - subtotal
	if missing < 0 {
		missing = 0
	}

	return Discount{
		Active:  subtotal >= threshold,
		Percent: percent,
		Missing: missing,
	}
}

// Apply returns the total after subtracting the discount, unchanged when
// the discount is inactive. Rounding is integral cent division.
func (d Discount) Apply(subtotal entity.Cents) entity.Cents {
	if !d.Active {
		return subtotal
	}

	return subtotal - subtotal*entity.Cents(d.Percent)/100
}
