package impl

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"tabletab/config"
	deliverycontext "tabletab/internal/delivery/context"
	"tabletab/internal/domain/entity"
	domainerrors "tabletab/internal/domain/errors"
	"tabletab/internal/domain/policy"
	"tabletab/internal/domain/service"
	"tabletab/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// checkoutService implements the CheckoutUsecase interface. It is the
// only writer of the tab's state field; every transition runs under the
// tab lock and user-driven transitions bump the epoch so that pending
// timer events discard themselves.
type checkoutService struct {
	tabs      *TabRegistry
	menu      usecase.MenuUsecase
	sessions  usecase.SessionUsecase
	scheduler service.Scheduler
	cfg       *config.Config

	codePattern *regexp.Regexp
	logger      *slog.Logger
}

// NewCheckoutService is the constructor for checkoutService.
func NewCheckoutService(
	tabs *TabRegistry,
	menu usecase.MenuUsecase,
	sessions usecase.SessionUsecase,
	scheduler service.Scheduler,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.CheckoutUsecase {
	return &checkoutService{
		tabs:        tabs,
		menu:        menu,
		sessions:    sessions,
		scheduler:   scheduler,
		cfg:         cfg,
		codePattern: regexp.MustCompile(fmt.Sprintf(`^\d{%d}$`, cfg.Verification.CodeLength)),
		logger:      logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *checkoutService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// State returns the current snapshot without transitioning.
func (srv *checkoutService) State(ctx context.Context, deviceID uuid.UUID) (*usecase.CheckoutView, error) {
	tab, err := srv.tabs.tab(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	tab.mu.Lock()
	defer tab.mu.Unlock()

	return viewLocked(tab), nil
}

// OpenView navigates between the plain views. Navigating away from a
// running payment abandons it; a pending verification must be cancelled
// explicitly first, so a patron cannot wander off mid-verification by
// accident.
func (srv *checkoutService) OpenView(ctx context.Context, deviceID uuid.UUID, kind entity.StateKind) (*usecase.CheckoutView, error) {
	var target entity.CheckoutState
	switch kind {
	case entity.StateMenu:
		target = entity.MenuState()
	case entity.StateOrder:
		target = entity.OrderState()
	case entity.StateLogin:
		target = entity.LoginState()
	case entity.StateAccount:
		target = entity.AccountState()
	default:
		return nil, errors.Wrapf(domainerrors.ErrInvalidInput, "cannot navigate to %q", kind)
	}

	tab, err := srv.tabs.tab(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	tab.mu.Lock()
	defer tab.mu.Unlock()

	if tab.state.Kind == entity.StateVerification {
		return nil, errors.Wrap(domainerrors.ErrInvalidTransition, "verification in progress, cancel it first")
	}

	if kind == entity.StateAccount && !tab.session.IsLoggedIn {
		return nil, errors.Wrap(domainerrors.ErrLoginRequired, "account view requires login")
	}

	if tab.state.Kind == entity.StatePayment {
		srv.log(ctx).Info("Payment abandoned by navigation",
			slog.Any("device_id", deviceID),
			slog.String("step", string(tab.state.Payment.Step)),
			slog.String("target", string(kind)),
		)
	}

	tab.bump()
	tab.state = target

	return viewLocked(tab), nil
}

// Checkout attempts payment from the menu or order view. An empty cart
// is rejected without transitioning. A cart holding restricted items
// routes through identity verification first unless the session is
// already age-verified.
func (srv *checkoutService) Checkout(ctx context.Context, deviceID uuid.UUID) (*usecase.CheckoutView, error) {
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

	if tab.state.Kind != entity.StateMenu && tab.state.Kind != entity.StateOrder {
		return nil, errors.Wrapf(domainerrors.ErrInvalidTransition, "cannot check out from %q", tab.state.Kind)
	}

	if tab.cart.IsEmpty() {
		return nil, errors.Wrap(domainerrors.ErrEmptyCart, "cart is empty")
	}

	if policy.CartRequiresVerification(tab.cart, index) && !tab.session.IsAgeVerified {
		tab.bump()
		tab.state = entity.VerificationStateOf(entity.VerificationInput, entity.ReasonCheckout)

		srv.log(ctx).Info("Checkout gated on identity verification", slog.Any("device_id", deviceID))

		return viewLocked(tab), nil
	}

	srv.startPaymentLocked(ctx, tab, deviceID)

	return viewLocked(tab), nil
}

// StartSignup enters identity verification for account creation. Only
// reachable from the login view.
func (srv *checkoutService) StartSignup(ctx context.Context, deviceID uuid.UUID) (*usecase.CheckoutView, error) {
	tab, err := srv.tabs.tab(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	tab.mu.Lock()
	defer tab.mu.Unlock()

	if tab.state.Kind != entity.StateLogin {
		return nil, errors.Wrapf(domainerrors.ErrInvalidTransition, "cannot start signup from %q", tab.state.Kind)
	}

	tab.bump()
	tab.state = entity.VerificationStateOf(entity.VerificationInput, entity.ReasonSignup)

	return viewLocked(tab), nil
}

// SubmitVerificationCode validates the personal code and advances the
// verification to the waiting step. The out-of-band confirmation is
// simulated by a delayed event; a rejected code leaves the state alone so
// the patron can retype.
func (srv *checkoutService) SubmitVerificationCode(ctx context.Context, deviceID uuid.UUID, code string) (*usecase.CheckoutView, error) {
	tab, err := srv.tabs.tab(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	tab.mu.Lock()
	defer tab.mu.Unlock()

	if tab.state.Kind != entity.StateVerification || tab.state.Verification.Step != entity.VerificationInput {
		return nil, errors.Wrap(domainerrors.ErrInvalidTransition, "no verification awaiting a code")
	}

	if !srv.codePattern.MatchString(code) {
		return nil, errors.Wrapf(domainerrors.ErrInvalidVerificationCode, "code must be %d digits", srv.cfg.Verification.CodeLength)
	}

	reason := tab.state.Verification.Reason

	tab.bump()
	tab.state = entity.VerificationStateOf(entity.VerificationWaiting, reason)

	epoch := tab.epoch
	tab.cancelTimer = srv.scheduler.Schedule(srv.cfg.Verification.ConfirmDelay, func() {
		srv.confirmVerification(tab, epoch)
	})

	srv.log(ctx).Info("Verification code accepted",
		slog.Any("device_id", deviceID),
		slog.String("reason", string(reason)),
	)

	return viewLocked(tab), nil
}

// confirmVerification is the delayed out-of-band confirmation. It only
// applies while the waiting step it was scheduled under is still
// current.
func (srv *checkoutService) confirmVerification(tab *patronTab, epoch uint64) {
	tab.mu.Lock()
	defer tab.mu.Unlock()

	if tab.epoch != epoch {
		return
	}
	if tab.state.Kind != entity.StateVerification || tab.state.Verification.Step != entity.VerificationWaiting {
		return
	}

	tab.cancelTimer = nil
	tab.state = entity.VerificationStateOf(entity.VerificationConfirmed, tab.state.Verification.Reason)
}

// CancelVerification abandons an unconfirmed verification and returns to
// the view that requested it: the order view for a checkout gate, the
// login view for a signup. A confirmed verification can no longer be
// cancelled, only continued.
func (srv *checkoutService) CancelVerification(ctx context.Context, deviceID uuid.UUID) (*usecase.CheckoutView, error) {
	tab, err := srv.tabs.tab(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	tab.mu.Lock()
	defer tab.mu.Unlock()

	if tab.state.Kind != entity.StateVerification {
		return nil, errors.Wrap(domainerrors.ErrInvalidTransition, "no verification in progress")
	}
	if tab.state.Verification.Step == entity.VerificationConfirmed {
		return nil, errors.Wrap(domainerrors.ErrInvalidTransition, "verification already confirmed")
	}

	reason := tab.state.Verification.Reason

	tab.bump()
	if reason == entity.ReasonCheckout {
		tab.state = entity.OrderState()
	} else {
		tab.state = entity.LoginState()
	}

	srv.log(ctx).Info("Verification cancelled",
		slog.Any("device_id", deviceID),
		slog.String("reason", string(reason)),
	)

	return viewLocked(tab), nil
}

// ContinueVerification applies a confirmed verification. The signup
// reason persists both flags and opens the account view; the checkout
// reason keeps the verified flag in memory only and proceeds straight to
// payment.
func (srv *checkoutService) ContinueVerification(ctx context.Context, deviceID uuid.UUID) (*usecase.CheckoutView, error) {
	tab, err := srv.tabs.tab(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	tab.mu.Lock()
	defer tab.mu.Unlock()

	if tab.state.Kind != entity.StateVerification || tab.state.Verification.Step != entity.VerificationConfirmed {
		return nil, errors.Wrap(domainerrors.ErrInvalidTransition, "no confirmed verification to continue")
	}

	reason := tab.state.Verification.Reason

	session, err := srv.sessions.MarkAgeVerified(ctx, deviceID, tab.session, reason)
	if err != nil {
		return nil, err
	}
	tab.session = session

	tab.bump()
	if reason == entity.ReasonSignup {
		tab.state = entity.AccountState()
	} else {
		srv.startPaymentLocked(ctx, tab, deviceID)
	}

	return viewLocked(tab), nil
}

// Logout clears the session from the account view and returns to the
// menu.
func (srv *checkoutService) Logout(ctx context.Context, deviceID uuid.UUID) (*usecase.CheckoutView, error) {
	tab, err := srv.tabs.tab(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	tab.mu.Lock()
	defer tab.mu.Unlock()

	if tab.state.Kind != entity.StateAccount {
		return nil, errors.Wrapf(domainerrors.ErrInvalidTransition, "cannot log out from %q", tab.state.Kind)
	}

	if err := srv.sessions.Logout(ctx, deviceID); err != nil {
		return nil, err
	}

	tab.session = entity.Session{}
	tab.bump()
	tab.state = entity.MenuState()

	return viewLocked(tab), nil
}

// startPaymentLocked enters the payment flow and arms the first timer.
// Callers must hold the tab lock and have already checked the cart.
func (srv *checkoutService) startPaymentLocked(ctx context.Context, tab *patronTab, deviceID uuid.UUID) {
	tab.bump()
	tab.state = entity.PaymentStateOf(entity.PaymentPreparing)

	srv.log(ctx).Info("Payment started", slog.Any("device_id", deviceID))

	srv.schedulePaymentStepLocked(tab, deviceID, entity.PaymentPreparing)
}

// schedulePaymentStepLocked arms the timer that moves the payment past
// the given step. Callers must hold the tab lock; the whole chain runs
// under the epoch current at arming time, so any user action kills it.
func (srv *checkoutService) schedulePaymentStepLocked(tab *patronTab, deviceID uuid.UUID, step entity.PaymentStep) {
	var delay = srv.cfg.Payment.PreparingDelay
	switch step {
	case entity.PaymentRedirect:
		delay = srv.cfg.Payment.RedirectingDelay
	case entity.PaymentAwaiting:
		delay = srv.cfg.Payment.AwaitingDelay
	}

	epoch := tab.epoch
	tab.cancelTimer = srv.scheduler.Schedule(delay, func() {
		srv.advancePayment(tab, deviceID, epoch, step)
	})
}

// advancePayment is the delayed transition past one payment step. A
// stale epoch or a state that moved on discards the event. A cart that
// was emptied while the payment ran aborts back to the order view; there
// is nothing left to pay for.
func (srv *checkoutService) advancePayment(tab *patronTab, deviceID uuid.UUID, epoch uint64, from entity.PaymentStep) {
	tab.mu.Lock()
	defer tab.mu.Unlock()

	if tab.epoch != epoch {
		return
	}
	if tab.state.Kind != entity.StatePayment || tab.state.Payment.Step != from {
		return
	}

	tab.cancelTimer = nil

	if tab.cart.IsEmpty() {
		tab.bump()
		tab.state = entity.OrderState()

		srv.logger.Warn("Payment aborted, cart emptied mid-flight", slog.Any("device_id", deviceID))

		return
	}

	switch from {
	case entity.PaymentPreparing:
		tab.state = entity.PaymentStateOf(entity.PaymentRedirect)
		srv.schedulePaymentStepLocked(tab, deviceID, entity.PaymentRedirect)
	case entity.PaymentRedirect:
		tab.state = entity.PaymentStateOf(entity.PaymentAwaiting)
		srv.schedulePaymentStepLocked(tab, deviceID, entity.PaymentAwaiting)
	case entity.PaymentAwaiting:
		srv.completePaymentLocked(tab, deviceID)
	}
}

// completePaymentLocked snapshots the receipt, clears the ledger and
// lands on the confirmed view. Callers must hold the tab lock.
func (srv *checkoutService) completePaymentLocked(tab *patronTab, deviceID uuid.UUID) {
	index, err := srv.menu.Index(context.Background())
	if err != nil {
		// The receipt still totals what resolved while shopping; an
		// unreachable catalog at this instant must not lose the order.
		srv.logger.Error("Receipt built without catalog", slog.String("error", err.Error()))
		index = entity.MapIndex{}
	}

	subtotal := tab.cart.Subtotal(index)
	discount := policy.EvaluateDiscount(subtotal, entity.Cents(srv.cfg.Discount.ThresholdCents), srv.cfg.Discount.Percent)

	tab.receipt = &entity.Receipt{
		Lines:          tab.cart.Lines(index),
		Subtotal:       subtotal,
		DiscountActive: discount.Active,
		DiscountPct:    discount.Percent,
		Total:          discount.Apply(subtotal),
	}
	tab.cart.Clear()
	tab.state = entity.ConfirmedState()

	srv.logger.Info("Payment confirmed",
		slog.Any("device_id", deviceID),
		slog.String("total", tab.receipt.Total.String()),
	)
}

// viewLocked snapshots the tab for the caller. Callers must hold the tab
// lock.
func viewLocked(tab *patronTab) *usecase.CheckoutView {
	return &usecase.CheckoutView{
		State:   tab.state,
		Session: tab.session,
		Receipt: tab.receipt,
	}
}
