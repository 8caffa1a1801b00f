package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"tabletab/config"
	"tabletab/internal/domain/entity"
	"tabletab/internal/domain/repository"
	"tabletab/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// fakeScheduler records scheduled callbacks and fires them only when the
// test says so, making every timer-driven transition deterministic.
type fakeScheduler struct {
	mu      sync.Mutex
	pending []*scheduledCall
}

type scheduledCall struct {
	fn        func()
	cancelled bool
	fired     bool
}

func (s *fakeScheduler) Schedule(_ time.Duration, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	call := &scheduledCall{fn: fn}
	s.pending = append(s.pending, call)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		call.cancelled = true
	}
}

// Fire runs the oldest pending callback. Returns false when nothing was
// runnable.
func (s *fakeScheduler) Fire() bool {
	s.mu.Lock()
	var next *scheduledCall
	for _, call := range s.pending {
		if !call.fired && !call.cancelled {
			next = call

			break
		}
	}
	if next == nil {
		s.mu.Unlock()

		return false
	}
	next.fired = true
	s.mu.Unlock()

	next.fn()

	return true
}

// FireAll drains the queue, including callbacks scheduled by callbacks.
func (s *fakeScheduler) FireAll() {
	for s.Fire() {
	}
}

// FireStale runs every callback, cancelled or not, simulating timers
// that were already in flight when the state moved on.
func (s *fakeScheduler) FireStale() {
	s.mu.Lock()
	calls := make([]*scheduledCall, 0, len(s.pending))
	for _, call := range s.pending {
		if !call.fired {
			call.fired = true
			calls = append(calls, call)
		}
	}
	s.mu.Unlock()

	for _, call := range calls {
		call.fn()
	}
}

// fakeFlagRepo is the in-memory stand-in for the Postgres flag store.
type fakeFlagRepo struct {
	mu    sync.Mutex
	flags map[uuid.UUID]entity.Session
	saves int
}

func newFakeFlagRepo() *fakeFlagRepo {
	return &fakeFlagRepo{flags: make(map[uuid.UUID]entity.Session)}
}

func (r *fakeFlagRepo) Load(_ context.Context, deviceID uuid.UUID) (entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.flags[deviceID]
	if !ok {
		return entity.Session{}, repository.ErrFlagsNotFound
	}

	return session, nil
}

func (r *fakeFlagRepo) Save(_ context.Context, deviceID uuid.UUID, session entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.flags[deviceID] = session
	r.saves++

	return nil
}

func (r *fakeFlagRepo) Clear(_ context.Context, deviceID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.flags, deviceID)

	return nil
}

// fakeCatalog serves a fixed venue: one restricted category, one plain
// one, one explicitly non-alcoholic, plus hooks for failure injection.
type fakeCatalog struct {
	mu             sync.Mutex
	fetches        int
	categoriesErr  error
	failCategories map[int64]error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{failCategories: make(map[int64]error)}
}

func (c *fakeCatalog) FetchCategories(_ context.Context, _ int64) ([]entity.Category, error) {
	c.mu.Lock()
	c.fetches++
	err := c.categoriesErr
	c.mu.Unlock()

	if err != nil {
		return nil, err
	}

	return []entity.Category{
		{ID: 1, Name: "Õlu"},
		{ID: 2, Name: "Desserts"},
		{ID: 3, Name: "Alkovaba õlu"},
		{ID: 4, Name: "Empty shelf"},
	}, nil
}

func (c *fakeCatalog) FetchInventory(_ context.Context, categoryID, _ int64) ([]entity.Product, error) {
	c.mu.Lock()
	err := c.failCategories[categoryID]
	c.mu.Unlock()

	if err != nil {
		return nil, err
	}

	switch categoryID {
	case 1:
		return []entity.Product{
			{ID: 11, Name: "Pilsner", UnitPrice: 450},
			{ID: 12, Name: "IPA", UnitPrice: 650},
		}, nil
	case 2:
		return []entity.Product{
			{ID: 21, Name: "Cake", UnitPrice: 1200},
			{ID: 22, Name: "Brownie", UnitPrice: 800},
		}, nil
	case 3:
		return []entity.Product{
			{ID: 31, Name: "Zero Lager", UnitPrice: 400},
		}, nil
	default:
		return nil, nil
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Catalog = &config.CatalogConfig{
		OrganizationID: 7,
		CacheTTL:       time.Hour,
	}
	cfg.Discount = &config.DiscountConfig{ThresholdCents: 2000, Percent: 5}
	cfg.Verification = &config.VerificationConfig{CodeLength: 11, ConfirmDelay: time.Millisecond}
	cfg.Payment = &config.PaymentConfig{
		PreparingDelay:   time.Millisecond,
		RedirectingDelay: time.Millisecond,
		AwaitingDelay:    time.Millisecond,
	}

	return cfg
}

// testEnv wires the whole usecase layer over in-memory fakes. Restart
// builds a fresh process over the same flag store, which is exactly what
// the durability rules are about.
type testEnv struct {
	flags    *fakeFlagRepo
	sched    *fakeScheduler
	catalog  *fakeCatalog
	sessions usecase.SessionUsecase
	registry *TabRegistry
	menu     usecase.MenuUsecase
	cart     usecase.CartUsecase
	checkout usecase.CheckoutUsecase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	return restartEnv(t, newFakeFlagRepo())
}

func restartEnv(t *testing.T, flags *fakeFlagRepo) *testEnv {
	t.Helper()

	logger := testLogger()
	cfg := newTestConfig()
	catalog := newFakeCatalog()
	sched := &fakeScheduler{}

	sessions := NewSessionService(flags, logger)
	registry := NewTabRegistry(sessions, logger)
	menu := NewMenuService(catalog, cfg, logger)
	cart := NewCartService(registry, menu, cfg, logger)
	checkout := NewCheckoutService(registry, menu, sessions, sched, cfg, logger)

	return &testEnv{
		flags:    flags,
		sched:    sched,
		catalog:  catalog,
		sessions: sessions,
		registry: registry,
		menu:     menu,
		cart:     cart,
		checkout: checkout,
	}
}

func (e *testEnv) mustAdd(t *testing.T, deviceID uuid.UUID, productID entity.ProductID, times int) {
	t.Helper()

	for range times {
		_, err := e.cart.AddItem(context.Background(), deviceID, productID)
		require.NoError(t, err)
	}
}

var errBoom = errors.New("boom")
