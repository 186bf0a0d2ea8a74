package verification

import (
	"context"
	"time"

	"github.com/Abraxas-365/turnkey/pkg/kernel"
)

// Repository persists OTP rows. A user has at most one active row at a
// time; Replace enforces that by deleting any existing row first.
type Repository interface {
	// Replace removes any existing row for the user, then stores v.
	Replace(ctx context.Context, v *EmailVerification) error

	// FindActiveByUser returns the user's current OTP row, or nil when
	// none exists.
	FindActiveByUser(ctx context.Context, userID kernel.UserID) (*EmailVerification, error)

	// IncrementAttempts bumps the attempt counter atomically and
	// returns the new value.
	IncrementAttempts(ctx context.Context, id string) (int, error)

	// DeleteByID destroys a single OTP row.
	DeleteByID(ctx context.Context, id string) error

	// DeleteExpired reaps rows whose window has elapsed, returning the
	// number removed.
	DeleteExpired(ctx context.Context) (int64, error)
}

// Mailer delivers the verification code to the user's inbox.
type Mailer interface {
	SendOTP(ctx context.Context, email, otp string, ttl time.Duration) error
}
