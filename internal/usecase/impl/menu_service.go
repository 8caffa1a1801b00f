package impl

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"tabletab/config"
	deliverycontext "tabletab/internal/delivery/context"
	"tabletab/internal/domain/entity"
	domainerrors "tabletab/internal/domain/errors"
	"tabletab/internal/domain/service"
	"tabletab/internal/usecase"

	"github.com/pkg/errors"
)

// menuService implements the MenuUsecase interface as a read-through
// cache over the inventory collaborator. One aggregate is cached for the
// whole venue; concurrent loaders collapse onto a single fetch by
// holding the mutex across the refresh.
type menuService struct {
	catalog        service.CatalogService
	organizationID int64
	cacheTTL       time.Duration
	logger         *slog.Logger

	mu        sync.Mutex
	view      *usecase.MenuView
	index     entity.MapIndex
	fetchedAt time.Time
}

// NewMenuService is the constructor for menuService.
func NewMenuService(
	catalog service.CatalogService,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.MenuUsecase {
	return &menuService{
		catalog:        catalog,
		organizationID: cfg.Catalog.OrganizationID,
		cacheTTL:       cfg.Catalog.CacheTTL,
		logger:         logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *menuService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// LoadMenu returns the aggregated menu, refreshing through the cache
// when the TTL has lapsed.
func (srv *menuService) LoadMenu(ctx context.Context) (*usecase.MenuView, error) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if err := srv.refreshLocked(ctx); err != nil {
		return nil, err
	}

	return srv.view, nil
}

// Index returns the product lookup for the cached catalog, refreshing it
// first when stale. Cart resolution and the restriction check both read
// through this.
func (srv *menuService) Index(ctx context.Context) (entity.ProductIndex, error) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if err := srv.refreshLocked(ctx); err != nil {
		return nil, err
	}

	return srv.index, nil
}

// Invalidate drops the cache so the next read refetches.
func (srv *menuService) Invalidate() {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	srv.view = nil
	srv.index = nil
	srv.fetchedAt = time.Time{}
}

// refreshLocked refetches the aggregate when the cache is empty or
// stale. Callers must hold mu.
//
// A failing categories call fails the whole load; a failing inventory
// call drops only that category and records the failure on the view, so
// one broken category never blanks the rest of the menu.
func (srv *menuService) refreshLocked(ctx context.Context) error {
	if srv.view != nil && time.Since(srv.fetchedAt) < srv.cacheTTL {
		return nil
	}

	categories, err := srv.catalog.FetchCategories(ctx, srv.organizationID)
	if err != nil {
		srv.log(ctx).Error("Catalog categories fetch failed", slog.String("error", err.Error()))

		return errors.Wrap(domainerrors.ErrCatalogUnavailable, err.Error())
	}

	view := &usecase.MenuView{}
	index := entity.MapIndex{}

	for _, category := range categories {
		products, err := srv.catalog.FetchInventory(ctx, category.ID, srv.organizationID)
		if err != nil {
			srv.log(ctx).Warn("Catalog inventory fetch failed",
				slog.String("category", category.Name),
				slog.String("error", err.Error()),
			)
			view.Failed = append(view.Failed, usecase.CategoryFailure{
				Category: category.Name,
				Detail:   err.Error(),
			})

			continue
		}

		// Categories with nothing sellable are hidden, not shown empty.
		if len(products) == 0 {
			continue
		}

		for i := range products {
			products[i].Category = category.Name
			index[products[i].ID] = products[i]
		}

		sort.Slice(products, func(i, j int) bool {
			return products[i].Name < products[j].Name
		})

		view.Categories = append(view.Categories, usecase.MenuCategory{
			Name:  category.Name,
			Items: products,
		})
	}

	srv.view = view
	srv.index = index
	srv.fetchedAt = time.Now()

	srv.log(ctx).Debug("Menu cache refreshed",
		slog.Int("categories", len(view.Categories)),
		slog.Int("failed", len(view.Failed)),
		slog.Int("products", len(index)),
	)

	return nil
}
