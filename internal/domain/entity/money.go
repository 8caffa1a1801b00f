package entity

import (
	"fmt"
	"math"
)

// Cents is a euro amount in integral cents. Catalog prices arrive as
// decimal numbers and are converted exactly once at the boundary; all
// arithmetic inside the core stays integral so totals cannot drift.
type Cents int64

// CentsFromFloat converts a decimal euro amount (e.g. 19.99) to cents,
// rounding half away from zero.
func CentsFromFloat(amount float64) Cents {
	return Cents(math.Round(amount * 100))
}

// Float returns the amount as a decimal euro value.
func (c Cents) Float() float64 {
	return float64(c) / 100
}

// String formats the amount as a euro string, e.g. "19.99 €".
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}

	return fmt.Sprintf("%s%d.%02d €", sign, v/100, v%100)
}
