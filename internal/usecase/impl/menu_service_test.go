package impl

import (
	"context"
	"testing"

	"tabletab/internal/domain/entity"
	domainerrors "tabletab/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuService_AggregatesAndSorts(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	view, err := env.menu.LoadMenu(context.Background())
	require.NoError(t, err)

	// "Empty shelf" has no items and must be hidden.
	require.Len(t, view.Categories, 3)
	assert.Empty(t, view.Failed)

	names := make([]string, 0, len(view.Categories))
	for _, category := range view.Categories {
		names = append(names, category.Name)
	}
	assert.Equal(t, []string{"Õlu", "Desserts", "Alkovaba õlu"}, names)

	// Items within a category are sorted by name.
	beers := view.Categories[0]
	assert.Equal(t, "IPA", beers.Items[0].Name)
	assert.Equal(t, "Pilsner", beers.Items[1].Name)
	assert.Equal(t, "Õlu", beers.Items[0].Category)
}

func TestMenuService_PerCategoryFailureSurfaced(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.catalog.failCategories[2] = errBoom

	view, err := env.menu.LoadMenu(context.Background())
	require.NoError(t, err)

	assert.Len(t, view.Categories, 2)
	require.Len(t, view.Failed, 1)
	assert.Equal(t, "Desserts", view.Failed[0].Category)
	assert.Contains(t, view.Failed[0].Detail, "boom")
}

func TestMenuService_CategoriesFailureFailsAggregate(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.catalog.categoriesErr = errBoom

	_, err := env.menu.LoadMenu(context.Background())
	assert.ErrorIs(t, err, domainerrors.ErrCatalogUnavailable)
}

func TestMenuService_CachesWithinTTL(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	_, err := env.menu.LoadMenu(context.Background())
	require.NoError(t, err)
	_, err = env.menu.LoadMenu(context.Background())
	require.NoError(t, err)
	_, err = env.menu.Index(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, env.catalog.fetches)

	env.menu.Invalidate()

	_, err = env.menu.LoadMenu(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, env.catalog.fetches)
}

func TestMenuService_IndexResolvesAllProducts(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	index, err := env.menu.Index(context.Background())
	require.NoError(t, err)

	product, ok := index.Resolve(entity.ProductID(31))
	require.True(t, ok)
	assert.Equal(t, "Zero Lager", product.Name)
	assert.Equal(t, "Alkovaba õlu", product.Category)

	_, ok = index.Resolve(entity.ProductID(999))
	assert.False(t, ok)
}
