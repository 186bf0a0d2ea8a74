package auth

import (
	"fmt"
	"time"

	"github.com/Abraxas-365/turnkey/pkg/config"
	"github.com/Abraxas-365/turnkey/pkg/iam/user"
	"github.com/Abraxas-365/turnkey/pkg/kernel"
	"github.com/golang-jwt/jwt/v5"
)

// JWTService implements TokenService with HS256-signed JWTs. One symmetric
// secret covers both token kinds; the signing algorithm is pinned at verify
// time so a token presenting any other algorithm is rejected outright.
type JWTService struct {
	secretKey       []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	issuer          string
}

// NewJWTService creates a new JWT token service.
func NewJWTService(secretKey string, accessTokenTTL, refreshTokenTTL time.Duration, issuer string) *JWTService {
	if accessTokenTTL == 0 {
		accessTokenTTL = time.Hour
	}
	if refreshTokenTTL == 0 {
		refreshTokenTTL = 7 * 24 * time.Hour
	}
	if issuer == "" {
		issuer = "turnkey"
	}

	return &JWTService{
		secretKey:       []byte(secretKey),
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
		issuer:          issuer,
	}
}

// NewJWTServiceFromConfig builds the service from the loaded config.
func NewJWTServiceFromConfig(cfg *config.JWTConfig) *JWTService {
	return NewJWTService(cfg.Secret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, cfg.Issuer)
}

// accessClaims is the JWT payload of an access token.
type accessClaims struct {
	UserID kernel.UserID `json:"id"`
	Email  string        `json:"email"`
	AppID  kernel.AppID  `json:"app_id"`
	Role   user.Role     `json:"role"`
	jwt.RegisteredClaims
}

// refreshClaims is the JWT payload of a refresh token. Only the owning
// user id travels in it.
type refreshClaims struct {
	UserID kernel.UserID `json:"user_id"`
	jwt.RegisteredClaims
}

// GenerateAccessToken signs a short-lived token carrying the user's
// identity and role.
func (j *JWTService) GenerateAccessToken(u *user.User) (string, error) {
	now := time.Now()

	claims := accessClaims{
		UserID: u.ID,
		Email:  u.Email,
		AppID:  u.AppID,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   u.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.accessTokenTTL)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", ErrTokenGenerationFailed().WithDetail("error", err.Error())
	}
	return tokenString, nil
}

// GenerateRefreshToken signs a long-lived token carrying only the user id.
func (j *JWTService) GenerateRefreshToken(userID kernel.UserID) (string, error) {
	now := time.Now()

	claims := refreshClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.refreshTokenTTL)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", ErrTokenGenerationFailed().WithDetail("error", err.Error())
	}
	return tokenString, nil
}

// ValidateAccessToken verifies signature and expiry and returns the claims.
func (j *JWTService) ValidateAccessToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, j.keyFunc)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken()
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok {
		return nil, ErrInvalidToken()
	}

	return &TokenClaims{
		UserID:    claims.UserID,
		AppID:     claims.AppID,
		Email:     claims.Email,
		Role:      claims.Role,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// ValidateRefreshToken verifies signature and expiry and returns the
// embedded user id.
func (j *JWTService) ValidateRefreshToken(tokenString string) (kernel.UserID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &refreshClaims{}, j.keyFunc)
	if err != nil || !token.Valid {
		return "", ErrInvalidRefreshToken()
	}

	claims, ok := token.Claims.(*refreshClaims)
	if !ok || claims.UserID.IsEmpty() {
		return "", ErrInvalidRefreshToken()
	}
	return claims.UserID, nil
}

// RefreshTokenTTL exposes the configured refresh lifetime so the ledger
// row expiry matches the token's own expiry claim.
func (j *JWTService) RefreshTokenTTL() time.Duration {
	return j.refreshTokenTTL
}

func (j *JWTService) keyFunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return j.secretKey, nil
}
