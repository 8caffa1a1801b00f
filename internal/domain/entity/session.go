package entity

// VerificationReason says why an identity verification was entered.
// The reason decides what completing the verification is allowed to do:
// a signup verification creates a durable account state, a checkout
// verification only unlocks the current process lifetime.
type VerificationReason string

const (
	// ReasonSignup is account creation started from the login view.
	ReasonSignup VerificationReason = "signup"

	// ReasonCheckout is the one-off age gate in front of a restricted
	// checkout. Its result must never be persisted.
	ReasonCheckout VerificationReason = "checkout"
)

// Session is the small flag set describing login and age-verification
// status for one patron device.
//
// IsAgeVerified is durable only together with IsLoggedIn for the signup
// reason; a checkout-reason verification lives in memory and dies with
// the process.
type Session struct {
	IsLoggedIn    bool `json:"isLoggedIn"`
	IsAgeVerified bool `json:"isAgeVerified"`
}

// Normalize enforces the load invariant: verification without an account
// is never durable, so a logged-out session cannot carry a persisted
// age-verified flag.
func (s Session) Normalize() Session {
	if !s.IsLoggedIn {
		s.IsAgeVerified = false
	}

	return s
}
