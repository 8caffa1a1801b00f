package entity

// StateKind names the active checkout screen. Exactly one kind is active
// at any time; it is the single source of truth for which logic is live.
type StateKind string

const (
	StateMenu         StateKind = "menu"
	StateOrder        StateKind = "order"
	StateLogin        StateKind = "login"
	StateVerification StateKind = "verification"
	StatePayment      StateKind = "payment"
	StateConfirmed    StateKind = "confirmed"
	StateAccount      StateKind = "account"
)

// VerificationStep is the linear substate of an identity verification.
// Input -> Waiting -> Confirmed, no skipping.
type VerificationStep string

const (
	VerificationInput     VerificationStep = "input"
	VerificationWaiting   VerificationStep = "waiting"
	VerificationConfirmed VerificationStep = "confirmed"
)

// PaymentStep is the strictly time-sequenced substate of the simulated
// payment. Not user-cancellable once started.
type PaymentStep string

const (
	PaymentPreparing PaymentStep = "preparing"
	PaymentRedirect  PaymentStep = "redirecting"
	PaymentAwaiting  PaymentStep = "awaiting_confirmation"
)

// CheckoutState is the tagged variant driving the ordering flow.
// Verification is set only for StateVerification, Payment only for
// StatePayment.
type CheckoutState struct {
	Kind         StateKind          `json:"kind"`
	Verification *VerificationState `json:"verification,omitempty"`
	Payment      *PaymentState      `json:"payment,omitempty"`
}

// VerificationState carries the verification substate and the reason the
// step was entered, which also decides where cancel returns to.
type VerificationState struct {
	Step   VerificationStep   `json:"step"`
	Reason VerificationReason `json:"reason"`
}

// PaymentState carries the payment substate.
type PaymentState struct {
	Step PaymentStep `json:"step"`
}

// MenuState and friends construct the variants explicitly so transitions
// read as intent rather than struct literals.
func MenuState() CheckoutState      { return CheckoutState{Kind: StateMenu} }
func OrderState() CheckoutState     { return CheckoutState{Kind: StateOrder} }
func LoginState() CheckoutState     { return CheckoutState{Kind: StateLogin} }
func AccountState() CheckoutState   { return CheckoutState{Kind: StateAccount} }
func ConfirmedState() CheckoutState { return CheckoutState{Kind: StateConfirmed} }

// VerificationStateOf constructs an identity verification variant.
func VerificationStateOf(step VerificationStep, reason VerificationReason) CheckoutState {
	return CheckoutState{
		Kind:         StateVerification,
		Verification: &VerificationState{Step: step, Reason: reason},
	}
}

// PaymentStateOf constructs a payment variant.
func PaymentStateOf(step PaymentStep) CheckoutState {
	return CheckoutState{
		Kind:    StatePayment,
		Payment: &PaymentState{Step: step},
	}
}

// Receipt is the snapshot taken from the cart when a payment completes.
// The ledger is cleared at that moment; the confirmed view and the
// receipt view render from this snapshot.
type Receipt struct {
	Lines          []CartLine `json:"lines"`
	Subtotal       Cents      `json:"subtotal"`
	DiscountActive bool       `json:"discountActive"`
	DiscountPct    int        `json:"discountPct"`
	Total          Cents      `json:"total"`
}
