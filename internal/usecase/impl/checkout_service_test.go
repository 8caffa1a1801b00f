package impl

import (
	"context"
	"testing"

	"tabletab/internal/domain/entity"
	domainerrors "tabletab/internal/domain/errors"
	"tabletab/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCode = "39005150000"

func TestCheckout_EmptyCartRejected(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	deviceID := uuid.New()

	_, err := env.checkout.Checkout(context.Background(), deviceID)
	assert.ErrorIs(t, err, domainerrors.ErrEmptyCart)

	view, err := env.checkout.State(context.Background(), deviceID)
	require.NoError(t, err)
	assert.Equal(t, entity.StateMenu, view.State.Kind)
}

func TestCheckout_UnrestrictedCartRunsPaymentToConfirmation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	deviceID := uuid.New()

	// 2x Cake (12.00) + Brownie (8.00) = 32.00, discount active.
	env.mustAdd(t, deviceID, 21, 2)
	env.mustAdd(t, deviceID, 22, 1)

	view, err := env.checkout.Checkout(context.Background(), deviceID)
	require.NoError(t, err)
	require.Equal(t, entity.StatePayment, view.State.Kind)
	assert.Equal(t, entity.PaymentPreparing, view.State.Payment.Step)

	env.sched.FireAll()

	view, err = env.checkout.State(context.Background(), deviceID)
	require.NoError(t, err)
	require.Equal(t, entity.StateConfirmed, view.State.Kind)
	require.NotNil(t, view.Receipt)
	assert.Equal(t, entity.Cents(3200), view.Receipt.Subtotal)
	assert.True(t, view.Receipt.DiscountActive)
	assert.Equal(t, entity.Cents(3040), view.Receipt.Total)

	summary, err := env.cart.Summary(context.Background(), deviceID)
	require.NoError(t, err)
	assert.Zero(t, summary.Count)
}

func TestCheckout_PaymentStepsAdvanceInOrder(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	deviceID := uuid.New()
	env.mustAdd(t, deviceID, 22, 1)

	_, err := env.checkout.Checkout(context.Background(), deviceID)
	require.NoError(t, err)

	steps := []entity.PaymentStep{entity.PaymentRedirect, entity.PaymentAwaiting}
	for _, want := range steps {
		require.True(t, env.sched.Fire())

		view, err := env.checkout.State(context.Background(), deviceID)
		require.NoError(t, err)
		require.Equal(t, entity.StatePayment, view.State.Kind)
		assert.Equal(t, want, view.State.Payment.Step)
	}

	require.True(t, env.sched.Fire())

	view, err := env.checkout.State(context.Background(), deviceID)
	require.NoError(t, err)
	assert.Equal(t, entity.StateConfirmed, view.State.Kind)
}

func TestCheckout_RestrictedCartRoutesThroughVerification(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	deviceID := uuid.New()
	env.mustAdd(t, deviceID, 11, 1)

	view, err := env.checkout.Checkout(context.Background(), deviceID)
	require.NoError(t, err)
	require.Equal(t, entity.StateVerification, view.State.Kind)
	assert.Equal(t, entity.VerificationInput, view.State.Verification.Step)
	assert.Equal(t, entity.ReasonCheckout, view.State.Verification.Reason)

	// Wrong length is rejected without leaving the input step.
	_, err = env.checkout.SubmitVerificationCode(context.Background(), deviceID, "1234")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidVerificationCode)

	_, err = env.checkout.SubmitVerificationCode(context.Background(), deviceID, "3900515000a")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidVerificationCode)

	view, err = env.checkout.SubmitVerificationCode(context.Background(), deviceID, validCode)
	require.NoError(t, err)
	assert.Equal(t, entity.VerificationWaiting, view.State.Verification.Step)

	env.sched.FireAll()

	view, err = env.checkout.State(context.Background(), deviceID)
	require.NoError(t, err)
	require.Equal(t, entity.StateVerification, view.State.Kind)
	assert.Equal(t, entity.VerificationConfirmed, view.State.Verification.Step)

	view, err = env.checkout.ContinueVerification(context.Background(), deviceID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatePayment, view.State.Kind)
	assert.True(t, view.Session.IsAgeVerified)
	assert.False(t, view.Session.IsLoggedIn)

	// A checkout-reason verification must never reach the flag store.
	_, err = env.flags.Load(context.Background(), deviceID)
	assert.ErrorIs(t, err, repository.ErrFlagsNotFound)
}

func TestCheckout_SecondRestrictedCheckoutSkipsVerification(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	deviceID := uuid.New()
	env.mustAdd(t, deviceID, 11, 1)

	_, err := env.checkout.Checkout(context.Background(), deviceID)
	require.NoError(t, err)
	_, err = env.checkout.SubmitVerificationCode(context.Background(), deviceID, validCode)
	require.NoError(t, err)
	env.sched.FireAll()
	_, err = env.checkout.ContinueVerification(context.Background(), deviceID)
	require.NoError(t, err)
	env.sched.FireAll()

	// Next restricted order in the same process goes straight to payment.
	_, err = env.checkout.OpenView(context.Background(), deviceID, entity.StateMenu)
	require.NoError(t, err)
	env.mustAdd(t, deviceID, 12, 1)
	view, err := env.checkout.Checkout(context.Background(), deviceID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatePayment, view.State.Kind)
}

func TestCheckout_CheckoutVerificationForgottenAfterRestart(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	deviceID := uuid.New()
	env.mustAdd(t, deviceID, 11, 1)

	_, err := env.checkout.Checkout(context.Background(), deviceID)
	require.NoError(t, err)
	_, err = env.checkout.SubmitVerificationCode(context.Background(), deviceID, validCode)
	require.NoError(t, err)
	env.sched.FireAll()
	_, err = env.checkout.ContinueVerification(context.Background(), deviceID)
	require.NoError(t, err)
	env.sched.FireAll()

	restarted := restartEnv(t, env.flags)
	restarted.mustAdd(t, deviceID, 11, 1)

	view, err := restarted.checkout.Checkout(context.Background(), deviceID)
	require.NoError(t, err)
	assert.Equal(t, entity.StateVerification, view.State.Kind)
}

func TestSignup_PersistsAcrossRestart(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	deviceID := uuid.New()

	_, err := env.checkout.OpenView(context.Background(), deviceID, entity.StateLogin)
	require.NoError(t, err)

	view, err := env.checkout.StartSignup(context.Background(), deviceID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReasonSignup, view.State.Verification.Reason)

	_, err = env.checkout.SubmitVerificationCode(context.Background(), deviceID, validCode)
	require.NoError(t, err)
	env.sched.FireAll()

	view, err = env.checkout.ContinueVerification(context.Background(), deviceID)
	require.NoError(t, err)
	assert.Equal(t, entity.StateAccount, view.State.Kind)
	assert.True(t, view.Session.IsLoggedIn)
	assert.True(t, view.Session.IsAgeVerified)

	restarted := restartEnv(t, env.flags)
	restarted.mustAdd(t, deviceID, 11, 1)

	// The persisted signup verification carries over: no gate.
	stateView, err := restarted.checkout.Checkout(context.Background(), deviceID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatePayment, stateView.State.Kind)
}

func TestVerification_CancelReturnsToRequester(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want entity.StateKind
		open func(env *testEnv, deviceID uuid.UUID) error
	}{
		{
			name: "checkout gate returns to order view",
			want: entity.StateOrder,
			open: func(env *testEnv, deviceID uuid.UUID) error {
				env.mustAdd(t, deviceID, 11, 1)
				if _, err := env.checkout.OpenView(context.Background(), deviceID, entity.StateOrder); err != nil {
					return err
				}
				_, err := env.checkout.Checkout(context.Background(), deviceID)

				return err
			},
		},
		{
			name: "signup returns to login view",
			want: entity.StateLogin,
			open: func(env *testEnv, deviceID uuid.UUID) error {
				if _, err := env.checkout.OpenView(context.Background(), deviceID, entity.StateLogin); err != nil {
					return err
				}
				_, err := env.checkout.StartSignup(context.Background(), deviceID)

				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			deviceID := uuid.New()

			require.NoError(t, tt.open(env, deviceID))

			view, err := env.checkout.CancelVerification(context.Background(), deviceID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, view.State.Kind)
		})
	}
}

func TestVerification_StaleConfirmTimerDiscarded(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	deviceID := uuid.New()
	env.mustAdd(t, deviceID, 11, 1)

	_, err := env.checkout.Checkout(context.Background(), deviceID)
	require.NoError(t, err)
	_, err = env.checkout.SubmitVerificationCode(context.Background(), deviceID, validCode)
	require.NoError(t, err)

	_, err = env.checkout.CancelVerification(context.Background(), deviceID)
	require.NoError(t, err)

	// The confirmation timer was already queued; firing it must not
	// resurrect the verification.
	env.sched.FireStale()

	view, err := env.checkout.State(context.Background(), deviceID)
	require.NoError(t, err)
	assert.Equal(t, entity.StateOrder, view.State.Kind)
	assert.Equal(t, entity.Session{}, view.Session)
}

func TestOpenView_AccountRequiresLogin(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	deviceID := uuid.New()

	_, err := env.checkout.OpenView(context.Background(), deviceID, entity.StateAccount)
	assert.ErrorIs(t, err, domainerrors.ErrLoginRequired)
}

func TestOpenView_RejectsUnknownTarget(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	deviceID := uuid.New()

	_, err := env.checkout.OpenView(context.Background(), deviceID, entity.StatePayment)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestOpenView_BlockedDuringVerification(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	deviceID := uuid.New()
	env.mustAdd(t, deviceID, 11, 1)

	_, err := env.checkout.Checkout(context.Background(), deviceID)
	require.NoError(t, err)

	_, err = env.checkout.OpenView(context.Background(), deviceID, entity.StateMenu)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
}

func TestPayment_AbandonedByNavigation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	deviceID := uuid.New()
	env.mustAdd(t, deviceID, 21, 1)

	_, err := env.checkout.Checkout(context.Background(), deviceID)
	require.NoError(t, err)

	view, err := env.checkout.OpenView(context.Background(), deviceID, entity.StateMenu)
	require.NoError(t, err)
	assert.Equal(t, entity.StateMenu, view.State.Kind)

	// In-flight payment timers must not complete the abandoned payment.
	env.sched.FireStale()

	view, err = env.checkout.State(context.Background(), deviceID)
	require.NoError(t, err)
	assert.Equal(t, entity.StateMenu, view.State.Kind)
	assert.Nil(t, view.Receipt)

	summary, err := env.cart.Summary(context.Background(), deviceID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Count)
}

func TestPayment_AbortsWhenCartEmptiedMidFlight(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	deviceID := uuid.New()
	env.mustAdd(t, deviceID, 21, 1)

	_, err := env.checkout.Checkout(context.Background(), deviceID)
	require.NoError(t, err)

	_, err = env.cart.Clear(context.Background(), deviceID)
	require.NoError(t, err)

	env.sched.FireAll()

	view, err := env.checkout.State(context.Background(), deviceID)
	require.NoError(t, err)
	assert.Equal(t, entity.StateOrder, view.State.Kind)
	assert.Nil(t, view.Receipt)
}

func TestCheckout_OnlyFromMenuOrOrder(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	deviceID := uuid.New()
	env.mustAdd(t, deviceID, 21, 1)

	_, err := env.checkout.OpenView(context.Background(), deviceID, entity.StateLogin)
	require.NoError(t, err)

	_, err = env.checkout.Checkout(context.Background(), deviceID)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
}

func TestStartSignup_OnlyFromLogin(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	deviceID := uuid.New()

	_, err := env.checkout.StartSignup(context.Background(), deviceID)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
}

func TestLogout_ClearsSessionAndReturnsToMenu(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	deviceID := uuid.New()

	_, err := env.checkout.OpenView(context.Background(), deviceID, entity.StateLogin)
	require.NoError(t, err)
	_, err = env.checkout.StartSignup(context.Background(), deviceID)
	require.NoError(t, err)
	_, err = env.checkout.SubmitVerificationCode(context.Background(), deviceID, validCode)
	require.NoError(t, err)
	env.sched.FireAll()
	_, err = env.checkout.ContinueVerification(context.Background(), deviceID)
	require.NoError(t, err)

	view, err := env.checkout.Logout(context.Background(), deviceID)
	require.NoError(t, err)
	assert.Equal(t, entity.StateMenu, view.State.Kind)
	assert.False(t, view.Session.IsLoggedIn)
	assert.False(t, view.Session.IsAgeVerified)

	_, err = env.flags.Load(context.Background(), deviceID)
	assert.ErrorIs(t, err, repository.ErrFlagsNotFound)
}

func TestLogout_OnlyFromAccount(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	deviceID := uuid.New()

	_, err := env.checkout.Logout(context.Background(), deviceID)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
}
