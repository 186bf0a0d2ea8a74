package auth

import (
	"context"
	"time"

	"github.com/Abraxas-365/turnkey/pkg/iam/user"
	"github.com/Abraxas-365/turnkey/pkg/kernel"
)

// TokenRepository defines the contract for refresh-token persistence.
// DeleteByToken is idempotent: removing an absent row is not an error.
type TokenRepository interface {
	Save(ctx context.Context, token RefreshToken) error
	FindByTokenAndUser(ctx context.Context, tokenValue string, userID kernel.UserID) (*RefreshToken, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByToken(ctx context.Context, tokenValue string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// TokenService defines the contract for the stateless token codec.
type TokenService interface {
	GenerateAccessToken(u *user.User) (string, error)
	GenerateRefreshToken(userID kernel.UserID) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
	ValidateRefreshToken(token string) (kernel.UserID, error)
	RefreshTokenTTL() time.Duration
}

// PasswordService hashes and verifies passwords. Compare must be constant
// time with respect to the candidate password.
type PasswordService interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// AuditService defines the contract for authentication audit logging.
type AuditService interface {
	LogAccountCreated(ctx context.Context, userID kernel.UserID, appID kernel.AppID)
	LogLoginAttempt(ctx context.Context, email string, appID kernel.AppID, success bool)
	LogTokenRefresh(ctx context.Context, userID kernel.UserID)
	LogLogout(ctx context.Context, userID kernel.UserID)
	LogOTPVerification(ctx context.Context, email string, appID kernel.AppID, success bool)
}
