package domain

import "time"

// OneTimeKind distinguishes what a one-time token may be redeemed for.
type OneTimeKind string

const (
	OneTimeEmailVerification OneTimeKind = "email_verification"
	OneTimePasswordReset     OneTimeKind = "password_reset"
)

// OneTimeToken is a single-use secret mailed to a user.
type OneTimeToken struct {
	Value   string
	UserID  int64
	Kind    OneTimeKind
	Expires time.Time
}
