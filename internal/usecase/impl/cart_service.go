package impl

import (
	"context"
	"log/slog"

	"tabletab/config"
	deliverycontext "tabletab/internal/delivery/context"
	"tabletab/internal/domain/entity"
	domainerrors "tabletab/internal/domain/errors"
	"tabletab/internal/domain/policy"
	"tabletab/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// cartService implements the CartUsecase interface. The ledger lives on
// the device's tab; every method mutates under the tab lock and returns
// the freshly derived summary.
type cartService struct {
	tabs              *TabRegistry
	menu              usecase.MenuUsecase
	discountThreshold entity.Cents
	discountPercent   int
	logger            *slog.Logger
}

// NewCartService is the constructor for cartService.
func NewCartService(
	tabs *TabRegistry,
	menu usecase.MenuUsecase,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.CartUsecase {
	return &cartService{
		tabs:              tabs,
		menu:              menu,
		discountThreshold: entity.Cents(cfg.Discount.ThresholdCents),
		discountPercent:   cfg.Discount.Percent,
		logger:            logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// AddItem adds one unit of a product. Unlike the ledger's other
// mutations, adding validates against the loaded catalog: a patron can
// only add what the menu actually shows.
func (srv *cartService) AddItem(ctx context.Context, deviceID uuid.UUID, productID entity.ProductID) (*usecase.CartSummary, error) {
	index, err := srv.menu.Index(ctx)
	if err != nil {
		return nil, err
	}

	if _, ok := index.Resolve(productID); !ok {
		return nil, errors.Wrapf(domainerrors.ErrProductNotFound, "product %d is not on the menu", productID)
	}

	tab, err := srv.tabs.tab(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	tab.mu.Lock()
	tab.cart.Add(productID)
	summary := srv.summaryLocked(tab, index)
	tab.mu.Unlock()

	srv.log(ctx).Debug("Cart item added",
		slog.Any("device_id", deviceID),
		slog.Int64("product_id", int64(productID)),
		slog.Int("count", summary.Count),
	)

	return summary, nil
}

// ChangeQuantity adds delta to a line. The line is deleted when the
// result drops to zero or below; an unknown product is a no-op.
func (srv *cartService) ChangeQuantity(ctx context.Context, deviceID uuid.UUID, productID entity.ProductID, delta int) (*usecase.CartSummary, error) {
	return srv.mutate(ctx, deviceID, func(cart *entity.Cart) {
		cart.ChangeQuantity(productID, delta)
	})
}

// RemoveItem deletes a line unconditionally.
func (srv *cartService) RemoveItem(ctx context.Context, deviceID uuid.UUID, productID entity.ProductID) (*usecase.CartSummary, error) {
	return srv.mutate(ctx, deviceID, func(cart *entity.Cart) {
		cart.Remove(productID)
	})
}

// Clear empties the ledger.
func (srv *cartService) Clear(ctx context.Context, deviceID uuid.UUID) (*usecase.CartSummary, error) {
	return srv.mutate(ctx, deviceID, func(cart *entity.Cart) {
		cart.Clear()
	})
}

// Summary returns the current derived totals without mutating.
func (srv *cartService) Summary(ctx context.Context, deviceID uuid.UUID) (*usecase.CartSummary, error) {
	return srv.mutate(ctx, deviceID, nil)
}

// mutate applies an optional ledger mutation under the tab lock and
// derives the summary from the result.
func (srv *cartService) mutate(ctx context.Context, deviceID uuid.UUID, apply func(cart *entity.Cart)) (*usecase.CartSummary, error) {
	index, err := srv.menu.Index(ctx)
	if err != nil {
		return nil, err
	}

	tab, err := srv.tabs.tab(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	tab.mu.Lock()
	defer tab.mu.Unlock()

	if apply != nil {
		apply(tab.cart)
	}

	return srv.summaryLocked(tab, index), nil
}

// summaryLocked derives lines, totals and the discount evaluation from
// the ledger. Callers must hold the tab lock.
func (srv *cartService) summaryLocked(tab *patronTab, index entity.ProductIndex) *usecase.CartSummary {
	subtotal := tab.cart.Subtotal(index)

	return &usecase.CartSummary{
		Lines:                tab.cart.Lines(index),
		Count:                tab.cart.Count(),
		Subtotal:             subtotal,
		Discount:             policy.EvaluateDiscount(subtotal, srv.discountThreshold, srv.discountPercent),
		RequiresVerification: policy.CartRequiresVerification(tab.cart, index),
	}
}
