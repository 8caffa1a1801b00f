// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"tabletab/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrFlagsNotFound is returned when no flags have been persisted yet for
// a device.
var ErrFlagsNotFound = errors.New("session flags not found")

// Persisted flag keys. Values are string-typed booleans ("true"/"false"),
// mirroring the key/value store of the original client.
const (
	FlagLoggedIn    = "loggedIn"
	FlagAgeVerified = "ageVerified"
)

// SessionFlagRepository persists the durable part of a patron session:
// the loggedIn and ageVerified flags. Only a signup-reason verification
// ever writes ageVerified; checkout-reason results stay in memory.
type SessionFlagRepository interface {
	// Load reads the persisted flags of a device. ErrFlagsNotFound when
	// the device has never persisted anything.
	Load(ctx context.Context, deviceID uuid.UUID) (entity.Session, error)

	// Save writes both flags for a device, creating or overwriting.
	Save(ctx context.Context, deviceID uuid.UUID, session entity.Session) error

	// Clear removes every persisted flag of a device.
	Clear(ctx context.Context, deviceID uuid.UUID) error
}
