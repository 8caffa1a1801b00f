package usecase

import (
	"context"

	"tabletab/internal/domain/entity"

	"github.com/google/uuid"
)

// CheckoutView is the externally visible snapshot of one device's
// checkout machine: the active state variant, the session flags, and the
// receipt once a payment has completed.
type CheckoutView struct {
	State   entity.CheckoutState `json:"state"`
	Session entity.Session       `json:"session"`
	Receipt *entity.Receipt      `json:"receipt,omitempty"`
}

// CheckoutUsecase drives the per-device checkout state machine. Every
// method is an explicit transition; there are no implicit state changes
// apart from the machine's own timer-driven substeps, which discard
// themselves when the state has moved on.
type CheckoutUsecase interface {
	// State returns the current snapshot without transitioning.
	State(ctx context.Context, deviceID uuid.UUID) (*CheckoutView, error)

	// OpenView moves between the plain views (menu, order, login,
	// account). Account requires a logged-in session.
	OpenView(ctx context.Context, deviceID uuid.UUID, kind entity.StateKind) (*CheckoutView, error)

	// Checkout attempts payment from the menu or order view. An empty
	// cart is rejected; a cart with restricted items and no age
	// verification routes to the verification step instead.
	Checkout(ctx context.Context, deviceID uuid.UUID) (*CheckoutView, error)

	// StartSignup enters identity verification for account creation
	// from the login view.
	StartSignup(ctx context.Context, deviceID uuid.UUID) (*CheckoutView, error)

	// SubmitVerificationCode validates the code and advances the
	// verification from input to waiting; confirmation follows after
	// the simulated delay.
	SubmitVerificationCode(ctx context.Context, deviceID uuid.UUID, code string) (*CheckoutView, error)

	// CancelVerification abandons an unconfirmed verification and
	// returns to the state that requested it.
	CancelVerification(ctx context.Context, deviceID uuid.UUID) (*CheckoutView, error)

	// ContinueVerification applies a confirmed verification: signup
	// persists the flags and opens the account view, checkout keeps the
	// flag in memory and starts payment.
	ContinueVerification(ctx context.Context, deviceID uuid.UUID) (*CheckoutView, error)

	// Logout clears the session from the account view and returns to
	// the menu.
	Logout(ctx context.Context, deviceID uuid.UUID) (*CheckoutView, error)
}
