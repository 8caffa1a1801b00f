package service

import (
	"context"

	"tabletab/internal/domain/entity"
)

// CatalogService is the boundary to the external inventory collaborator.
// Both calls are read-only, cache-disabled and credentialed; failures are
// returned, never swallowed into empty results.
type CatalogService interface {
	// FetchCategories lists the categories of an organization.
	FetchCategories(ctx context.Context, organizationID int64) ([]entity.Category, error)

	// FetchInventory lists the sellable items of one category.
	FetchInventory(ctx context.Context, categoryID, organizationID int64) ([]entity.Product, error)
}
