package verification

import (
	"crypto/rand"
	"math/big"
	"net/http"
	"time"

	"github.com/Abraxas-365/turnkey/pkg/errx"
	"github.com/Abraxas-365/turnkey/pkg/kernel"
)

// EmailVerification is the single active OTP row for a user. Creating a
// new one replaces any prior row; the row is destroyed on successful
// verification, expiry detection, or exceeding the attempt ceiling.
type EmailVerification struct {
	ID        string        `db:"id" json:"id"`
	UserID    kernel.UserID `db:"user_id" json:"user_id"`
	Email     string        `db:"email" json:"email"`
	OTP       string        `db:"otp" json:"-"`
	ExpiresAt time.Time     `db:"expires_at" json:"expires_at"`
	Attempts  int           `db:"attempts" json:"attempts"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}

// IsExpired checks if the code's window has elapsed.
func (v *EmailVerification) IsExpired() bool {
	return time.Now().After(v.ExpiresAt)
}

// GenerateCode returns a uniformly random decimal code of the given
// length with a non-zero leading digit, so a 6-digit code falls in
// [100000, 999999]. String-encoded for exact comparison.
func GenerateCode(length int) (string, error) {
	if length < 1 {
		length = 6
	}
	min := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length-1)), nil)
	span := new(big.Int).Mul(min, big.NewInt(9))
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", err
	}
	return n.Add(n, min).String(), nil
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("OTP")

var (
	CodeInvalidOTP          = ErrRegistry.Register("INVALID_OTP", errx.TypeValidation, http.StatusBadRequest, "Invalid OTP")
	CodeOTPExpired          = ErrRegistry.Register("EXPIRED", errx.TypeValidation, http.StatusBadRequest, "OTP has expired")
	CodeTooManyAttempts     = ErrRegistry.Register("TOO_MANY_ATTEMPTS", errx.TypeBusiness, http.StatusTooManyRequests, "Too many attempts. Please request a new OTP")
	CodeAlreadyVerified     = ErrRegistry.Register("ALREADY_VERIFIED", errx.TypeBusiness, http.StatusBadRequest, "Email is already verified")
	CodeEmailDeliveryFailed = ErrRegistry.Register("DELIVERY_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to send verification email")
)

func ErrInvalidOTP() *errx.Error {
	return ErrRegistry.New(CodeInvalidOTP)
}

func ErrOTPExpired() *errx.Error {
	return ErrRegistry.New(CodeOTPExpired)
}

func ErrTooManyAttempts() *errx.Error {
	return ErrRegistry.New(CodeTooManyAttempts)
}

func ErrAlreadyVerified() *errx.Error {
	return ErrRegistry.New(CodeAlreadyVerified)
}

func ErrEmailDeliveryFailed() *errx.Error {
	return ErrRegistry.New(CodeEmailDeliveryFailed)
}
