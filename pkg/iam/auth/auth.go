package auth

import (
	"net/http"
	"time"

	"github.com/Abraxas-365/turnkey/pkg/errx"
	"github.com/Abraxas-365/turnkey/pkg/iam/user"
	"github.com/Abraxas-365/turnkey/pkg/kernel"
)

// ============================================================================
// Token Types
// ============================================================================

// RefreshToken is a ledger row for an issued refresh token. Unlike access
// tokens, refresh tokens are revocable: a token is only valid while its row
// exists and expires_at is in the future. Deleting the row is the sole
// revocation mechanism. A user may hold several live rows at once; every
// login creates a new one.
type RefreshToken struct {
	ID        string        `db:"id" json:"id"`
	Token     string        `db:"token" json:"token"`
	UserID    kernel.UserID `db:"user_id" json:"user_id"`
	ExpiresAt time.Time     `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}

// IsExpired checks if the refresh token has expired
func (r *RefreshToken) IsExpired() bool {
	return time.Now().After(r.ExpiresAt)
}

// TokenClaims is the verified payload of an access token.
type TokenClaims struct {
	UserID    kernel.UserID `json:"user_id"`
	AppID     kernel.AppID  `json:"app_id"`
	Email     string        `json:"email"`
	Role      user.Role     `json:"role"`
	IssuedAt  time.Time     `json:"iat"`
	ExpiresAt time.Time     `json:"exp"`
}

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("AUTH")

var (
	// Bad-email and bad-password deliberately share one code and message so
	// callers cannot enumerate registered addresses.
	CodeInvalidCredentials    = ErrRegistry.Register("INVALID_CREDENTIALS", errx.TypeAuthorization, http.StatusUnauthorized, "Invalid credentials")
	CodeInvalidToken          = ErrRegistry.Register("INVALID_TOKEN", errx.TypeAuthorization, http.StatusUnauthorized, "Invalid or expired token")
	CodeInvalidRefreshToken   = ErrRegistry.Register("INVALID_REFRESH_TOKEN", errx.TypeAuthorization, http.StatusUnauthorized, "Invalid refresh token")
	CodeRefreshTokenExpired   = ErrRegistry.Register("REFRESH_TOKEN_EXPIRED", errx.TypeAuthorization, http.StatusUnauthorized, "Refresh token expired")
	CodeTokenGenerationFailed = ErrRegistry.Register("TOKEN_GENERATION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Token generation failed")
)

// Helper functions
func ErrInvalidCredentials() *errx.Error {
	return ErrRegistry.New(CodeInvalidCredentials)
}

func ErrInvalidToken() *errx.Error {
	return ErrRegistry.New(CodeInvalidToken)
}

func ErrInvalidRefreshToken() *errx.Error {
	return ErrRegistry.New(CodeInvalidRefreshToken)
}

func ErrRefreshTokenExpired() *errx.Error {
	return ErrRegistry.New(CodeRefreshTokenExpired)
}

func ErrTokenGenerationFailed() *errx.Error {
	return ErrRegistry.New(CodeTokenGenerationFailed)
}
