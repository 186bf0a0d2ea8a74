package auth

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/Abraxas-365/turnkey/pkg/config"
	"github.com/Abraxas-365/turnkey/pkg/errx"
	"github.com/Abraxas-365/turnkey/pkg/iam/app"
	"github.com/Abraxas-365/turnkey/pkg/iam/user"
	"github.com/Abraxas-365/turnkey/pkg/kernel"
	"github.com/Abraxas-365/turnkey/pkg/logx"
	"github.com/google/uuid"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService owns the credential and session business rules: registration,
// login, token validation, refresh, and logout. It is stateless; every
// dependency arrives through the constructor.
type AuthService struct {
	users       user.Repository
	apps        app.Repository
	tokens      TokenRepository
	codec       TokenService
	passwords   PasswordService
	audit       AuditService
	passwordCfg config.PasswordConfig
}

// NewAuthService creates a new auth service.
func NewAuthService(
	users user.Repository,
	apps app.Repository,
	tokens TokenRepository,
	codec TokenService,
	passwords PasswordService,
	audit AuditService,
	passwordCfg config.PasswordConfig,
) *AuthService {
	return &AuthService{
		users:       users,
		apps:        apps,
		tokens:      tokens,
		codec:       codec,
		passwords:   passwords,
		audit:       audit,
		passwordCfg: passwordCfg,
	}
}

// RegisterInput carries the registration request fields.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	AppID    kernel.AppID
	Role     user.Role
}

// LoginResult carries both tokens plus the user's public profile.
type LoginResult struct {
	Tokens TokenPair
	User   user.Profile
}

// Register validates the input, resolves the tenant, and creates the user
// with a hashed password. The password is hashed before the insert is
// attempted, so an abandoned registration never leaves a partial row.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (user.Profile, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" || in.AppID.IsEmpty() {
		return user.Profile{}, errx.Validation("All fields are required")
	}

	name := strings.TrimSpace(in.Name)
	if len(name) < 2 {
		return user.Profile{}, errx.Validation("Name must be at least 2 characters")
	}

	if !emailPattern.MatchString(in.Email) {
		return user.Profile{}, errx.Validation("Invalid email format")
	}

	if len(in.Password) < s.passwordCfg.MinLength {
		return user.Profile{}, errx.Validation("Password is too short")
	}

	role := in.Role
	if role == "" {
		role = user.RoleUser
	}
	if !role.IsValid() {
		return user.Profile{}, errx.Validation("Invalid role")
	}

	if _, err := s.apps.FindByID(ctx, in.AppID); err != nil {
		return user.Profile{}, err
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return user.Profile{}, errx.Wrap(err, "failed to hash password", errx.TypeInternal)
	}

	now := time.Now()
	u := &user.User{
		ID:           kernel.NewUserID(uuid.NewString()),
		Name:         name,
		Email:        user.NormalizeEmail(in.Email),
		PasswordHash: hash,
		AppID:        in.AppID,
		Role:         role,
		IsVerified:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The store's unique constraint on (email, app_id) decides races:
	// exactly one of two concurrent registrations wins.
	if err := s.users.Create(ctx, u); err != nil {
		return user.Profile{}, err
	}

	s.audit.LogAccountCreated(ctx, u.ID, u.AppID)
	return u.Profile(), nil
}

// Login authenticates the tenant-scoped credentials and mints a token pair.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string, appID kernel.AppID) (*LoginResult, error) {
	if email == "" || password == "" || appID.IsEmpty() {
		return nil, errx.Validation("Email, password and app_id are required")
	}

	u, err := s.users.FindByEmailAndApp(ctx, user.NormalizeEmail(email), appID)
	if err != nil {
		s.audit.LogLoginAttempt(ctx, email, appID, false)
		if errx.Is(err, user.ErrUserNotFound()) {
			return nil, ErrInvalidCredentials()
		}
		return nil, errx.Wrap(err, "login lookup failed", errx.TypeInternal)
	}

	if err := s.passwords.Compare(u.PasswordHash, password); err != nil {
		s.audit.LogLoginAttempt(ctx, email, appID, false)
		return nil, ErrInvalidCredentials()
	}

	accessToken, err := s.codec.GenerateAccessToken(u)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.codec.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, err
	}

	// Ledger persistence is best effort: if the row cannot be written the
	// caller still gets both tokens, just without durable refresh capability.
	row := RefreshToken{
		ID:        uuid.NewString(),
		Token:     refreshToken,
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(s.codec.RefreshTokenTTL()),
		CreatedAt: time.Now(),
	}
	if err := s.tokens.Save(ctx, row); err != nil {
		logx.WithError(err).WithField("user_id", u.ID).Error("refresh token storage failed, continuing degraded")
	}

	s.audit.LogLoginAttempt(ctx, email, appID, true)

	return &LoginResult{
		Tokens: TokenPair{AccessToken: accessToken, RefreshToken: refreshToken},
		User:   u.Profile(),
	}, nil
}

// ValidateToken verifies an access token and reconfirms the user still
// exists. Decode failures, signature failures, and deleted users all
// surface as the same invalid-token error.
func (s *AuthService) ValidateToken(ctx context.Context, accessToken string) (user.Profile, error) {
	if accessToken == "" {
		return user.Profile{}, errx.Validation("Token is required")
	}

	claims, err := s.codec.ValidateAccessToken(accessToken)
	if err != nil {
		return user.Profile{}, ErrInvalidToken()
	}

	u, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return user.Profile{}, ErrInvalidToken()
	}

	return u.Profile(), nil
}

// RefreshToken mints a new access token for a live refresh token. The
// signature is verified before any storage lookup; the ledger row must
// exist for the embedded user and be unexpired. The refresh token itself
// is not rotated: it stays valid until its own expiry or logout.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", errx.Validation("Refresh token required")
	}

	userID, err := s.codec.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}

	row, err := s.tokens.FindByTokenAndUser(ctx, refreshToken, userID)
	if err != nil {
		return "", ErrInvalidRefreshToken()
	}

	if row.IsExpired() {
		if err := s.tokens.DeleteByID(ctx, row.ID); err != nil {
			logx.WithError(err).Warn("failed to delete expired refresh token")
		}
		return "", ErrRefreshTokenExpired()
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", ErrInvalidRefreshToken()
	}

	accessToken, err := s.codec.GenerateAccessToken(u)
	if err != nil {
		return "", err
	}

	s.audit.LogTokenRefresh(ctx, userID)
	return accessToken, nil
}

// Logout revokes a refresh token by deleting its ledger rows. Idempotent:
// deleting a token that was never stored, or is already gone, succeeds.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return errx.Validation("Refresh token required")
	}

	if err := s.tokens.DeleteByToken(ctx, refreshToken); err != nil {
		return errx.Wrap(err, "logout failed", errx.TypeInternal)
	}

	if userID, err := s.codec.ValidateRefreshToken(refreshToken); err == nil {
		s.audit.LogLogout(ctx, userID)
	}
	return nil
}
