package usecase

import (
	"context"

	"tabletab/internal/domain/entity"

	"github.com/google/uuid"
)

// SessionUsecase manages the durable login/age-verification flags of a
// patron device. Loading normalizes stale values: a device that is not
// logged in can never come back age-verified.
type SessionUsecase interface {
	// Load reads the persisted flags, returning a zero session for an
	// unknown device.
	Load(ctx context.Context, deviceID uuid.UUID) (entity.Session, error)

	// MarkLoggedIn persists the logged-in flag.
	MarkLoggedIn(ctx context.Context, deviceID uuid.UUID) (entity.Session, error)

	// MarkAgeVerified records a completed verification. Only the signup
	// reason persists; a checkout-reason result is returned updated but
	// never written.
	MarkAgeVerified(ctx context.Context, deviceID uuid.UUID, current entity.Session, reason entity.VerificationReason) (entity.Session, error)

	// Logout clears the persisted flags.
	Logout(ctx context.Context, deviceID uuid.UUID) error
}
