// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"
	"sync"

	"tabletab/internal/domain/entity"
	"tabletab/internal/usecase"

	"github.com/google/uuid"
)

// patronTab is the in-memory state of one patron device: the cart ledger,
// the session flags, the active checkout variant and the receipt of the
// last completed payment. Every field is owned by the tab's mutex; cart
// mutations, guard evaluations and state transitions all run under it, so
// no two transitions interleave.
//
// epoch implements supersession for timer-driven substeps: every user
// action bumps it, and a delayed callback fires only if the epoch it was
// issued under is still current.
type patronTab struct {
	mu sync.Mutex

	cart    *entity.Cart
	session entity.Session
	state   entity.CheckoutState
	receipt *entity.Receipt

	epoch       uint64
	cancelTimer func()
}

// bump supersedes any queued timer event. Callers must hold mu.
func (t *patronTab) bump() {
	t.epoch++
	if t.cancelTimer != nil {
		t.cancelTimer()
		t.cancelTimer = nil
	}
}

// TabRegistry owns the per-device tabs. A tab is created on first access,
// seeded with the persisted session flags; the checkout-reason
// verification flag is in-memory only and therefore always starts false.
type TabRegistry struct {
	mu   sync.Mutex
	tabs map[uuid.UUID]*patronTab

	sessions usecase.SessionUsecase
	logger   *slog.Logger
}

// NewTabRegistry is the constructor for TabRegistry.
func NewTabRegistry(sessions usecase.SessionUsecase, logger *slog.Logger) *TabRegistry {
	return &TabRegistry{
		tabs:     make(map[uuid.UUID]*patronTab),
		sessions: sessions,
		logger:   logger,
	}
}

// tab returns the device's tab, creating and seeding it on first access.
func (r *TabRegistry) tab(ctx context.Context, deviceID uuid.UUID) (*patronTab, error) {
	r.mu.Lock()
	if existing, ok := r.tabs[deviceID]; ok {
		r.mu.Unlock()

		return existing, nil
	}
	r.mu.Unlock()

	// Load outside the registry lock; flag reads may hit the database.
	session, err := r.sessions.Load(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another request may have created the tab meanwhile; first one wins.
	if existing, ok := r.tabs[deviceID]; ok {
		return existing, nil
	}

	created := &patronTab{
		cart:    entity.NewCart(),
		session: session,
		state:   entity.MenuState(),
	}
	r.tabs[deviceID] = created

	r.logger.Debug("Created patron tab",
		slog.Any("device_id", deviceID),
		slog.Bool("logged_in", session.IsLoggedIn),
		slog.Bool("age_verified", session.IsAgeVerified),
	)

	return created, nil
}
