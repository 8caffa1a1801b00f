package impl

import (
	"context"
	"testing"

	"tabletab/internal/domain/entity"
	domainerrors "tabletab/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService_AddUnknownProductRejected(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	_, err := env.cart.AddItem(context.Background(), uuid.New(), entity.ProductID(999))
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

func TestCartService_SummaryDerivation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	deviceID := uuid.New()

	// 2x IPA (6.50) + Cake (12.00) = 25.00
	env.mustAdd(t, deviceID, 12, 2)
	env.mustAdd(t, deviceID, 21, 1)

	summary, err := env.cart.Summary(context.Background(), deviceID)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, entity.Cents(2500), summary.Subtotal)
	assert.True(t, summary.Discount.Active)
	assert.True(t, summary.RequiresVerification)

	// Lines ordered by line sum, largest first.
	require.Len(t, summary.Lines, 2)
	assert.Equal(t, entity.ProductID(12), summary.Lines[0].ProductID)
	assert.Equal(t, entity.Cents(1300), summary.Lines[0].LineTotal)
	assert.Equal(t, entity.ProductID(21), summary.Lines[1].ProductID)
}

func TestCartService_DiscountBoundary(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	deviceID := uuid.New()

	// Brownie (8.00) + Cake (12.00) = exactly 20.00.
	env.mustAdd(t, deviceID, 22, 1)

	summary, err := env.cart.Summary(context.Background(), deviceID)
	require.NoError(t, err)
	assert.False(t, summary.Discount.Active)
	assert.Equal(t, entity.Cents(1200), summary.Discount.Missing)

	env.mustAdd(t, deviceID, 21, 1)

	summary, err = env.cart.Summary(context.Background(), deviceID)
	require.NoError(t, err)
	assert.True(t, summary.Discount.Active)
	assert.Zero(t, summary.Discount.Missing)
}

func TestCartService_QuantityLifecycle(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	deviceID := uuid.New()
	env.mustAdd(t, deviceID, 21, 1)

	summary, err := env.cart.ChangeQuantity(context.Background(), deviceID, 21, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Count)

	// Dropping to zero deletes the line instead of keeping a zero.
	summary, err = env.cart.ChangeQuantity(context.Background(), deviceID, 21, -3)
	require.NoError(t, err)
	assert.Empty(t, summary.Lines)
	assert.Zero(t, summary.Count)

	// Changing an absent line is a no-op.
	summary, err = env.cart.ChangeQuantity(context.Background(), deviceID, 21, -1)
	require.NoError(t, err)
	assert.Zero(t, summary.Count)
}

func TestCartService_RemoveAndClear(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	deviceID := uuid.New()
	env.mustAdd(t, deviceID, 21, 2)
	env.mustAdd(t, deviceID, 22, 1)

	summary, err := env.cart.RemoveItem(context.Background(), deviceID, 21)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Count)

	summary, err = env.cart.Clear(context.Background(), deviceID)
	require.NoError(t, err)
	assert.Zero(t, summary.Count)
	assert.Zero(t, summary.Subtotal)
}

func TestCartService_NonAlcoholicDoesNotRequireVerification(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	deviceID := uuid.New()
	env.mustAdd(t, deviceID, 31, 1)
	env.mustAdd(t, deviceID, 21, 1)

	summary, err := env.cart.Summary(context.Background(), deviceID)
	require.NoError(t, err)
	assert.False(t, summary.RequiresVerification)
}
