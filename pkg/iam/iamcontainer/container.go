package iamcontainer

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/Abraxas-365/turnkey/pkg/config"
	"github.com/Abraxas-365/turnkey/pkg/iam/app/appinfra"
	"github.com/Abraxas-365/turnkey/pkg/iam/auth"
	"github.com/Abraxas-365/turnkey/pkg/iam/auth/authinfra"
	"github.com/Abraxas-365/turnkey/pkg/iam/user/userinfra"
	"github.com/Abraxas-365/turnkey/pkg/iam/user/usersrv"
	"github.com/Abraxas-365/turnkey/pkg/iam/verification"
	"github.com/Abraxas-365/turnkey/pkg/iam/verification/verificationinfra"
	"github.com/Abraxas-365/turnkey/pkg/logx"
	"github.com/Abraxas-365/turnkey/pkg/notifx"
	"github.com/Abraxas-365/turnkey/pkg/ratelimit"
)

// ---------------------------------------------------------------------------
// Deps: explicit external dependencies this bounded context requires.
// No hidden globals, no ambient state — everything comes through here.
// ---------------------------------------------------------------------------

type Deps struct {
	DB    *sqlx.DB
	Redis *redis.Client
	Cfg   *config.Config

	// Notifier is a cross-context dependency injected as a client so the
	// IAM module has zero knowledge of the concrete email provider.
	Notifier *notifx.Client
}

// ---------------------------------------------------------------------------
// Container: the public surface of the IAM module.
// Only expose what other modules or cmd/ actually need.
// Internal repos, infra details, etc. stay private.
// ---------------------------------------------------------------------------

type Container struct {
	// Services — available for cross-module consumption
	AuthService         *auth.AuthService
	UserService         *usersrv.UserService
	VerificationService *verification.VerificationService
	TokenService        auth.TokenService

	// Handlers — needed by cmd/ to register routes
	AuthHandlers         *auth.AuthHandlers
	UserHandlers         *usersrv.UserHandlers
	VerificationHandlers *verification.VerificationHandlers

	// Middleware — needed by cmd/ to protect route groups
	AuthMiddleware *auth.TokenMiddleware

	// Background services
	CleanupService *authinfra.CleanupService
}

// ---------------------------------------------------------------------------
// New: constructs the entire IAM dependency graph.
// Order matters: infra → repos → services → handlers → middleware.
// ---------------------------------------------------------------------------

func New(deps Deps) (*Container, error) {
	logx.Info("Initializing IAM container...")

	c := &Container{}

	// ── Repositories ─────────────────────────────────────────────────────

	appRepo := appinfra.NewPostgresAppRepository(deps.DB)
	userRepo := userinfra.NewPostgresUserRepository(deps.DB)
	tokenRepo := authinfra.NewPostgresTokenRepository(deps.DB)
	otpRepo := verificationinfra.NewPostgresVerificationRepository(deps.DB)

	// ── Infrastructure services ──────────────────────────────────────────

	passwordSvc := authinfra.NewBcryptPasswordService(deps.Cfg.Auth.Password.BcryptCost)
	auditSvc := authinfra.NewLogxAuditService()
	c.TokenService = auth.NewJWTServiceFromConfig(&deps.Cfg.Auth.JWT)

	mailer, err := verification.NewNotifxMailer(deps.Notifier, deps.Cfg.Notifx.FromAddress)
	if err != nil {
		return nil, err
	}

	var otpLimiter ratelimit.Limiter
	if deps.Redis != nil {
		otpLimiter = ratelimit.NewRedisLimiter(
			deps.Redis,
			"otp",
			deps.Cfg.RateLimit.Requests,
			deps.Cfg.RateLimit.Window,
		)
	} else {
		otpLimiter = ratelimit.NewMemoryLimiter(deps.Cfg.RateLimit.Requests, deps.Cfg.RateLimit.Window)
		logx.Warn("Using in-memory rate limiter (not recommended for production)")
	}

	// ── Domain services ──────────────────────────────────────────────────

	c.AuthService = auth.NewAuthService(
		userRepo,
		appRepo,
		tokenRepo,
		c.TokenService,
		passwordSvc,
		auditSvc,
		deps.Cfg.Auth.Password,
	)

	c.UserService = usersrv.NewUserService(userRepo)

	c.VerificationService = verification.NewVerificationService(
		otpRepo,
		userRepo,
		mailer,
		auditSvc,
		deps.Cfg.Auth.OTP,
	)

	// ── Middleware ───────────────────────────────────────────────────────

	c.AuthMiddleware = auth.NewTokenMiddleware(c.TokenService)

	// ── Handlers ─────────────────────────────────────────────────────────

	c.AuthHandlers = auth.NewAuthHandlers(c.AuthService, c.AuthMiddleware)
	c.UserHandlers = usersrv.NewUserHandlers(c.UserService, c.AuthMiddleware)
	c.VerificationHandlers = verification.NewVerificationHandlers(
		c.VerificationService,
		ratelimit.Middleware(otpLimiter),
	)

	// ── Background services ──────────────────────────────────────────────

	c.CleanupService = authinfra.NewCleanupService(
		deps.Cfg.Auth.Cleanup.Interval,
		tokenRepo,
		otpRepo,
	)

	logx.Info("IAM container initialized")
	return c, nil
}

// StartBackgroundServices starts IAM-specific background workers.
func (c *Container) StartBackgroundServices(ctx context.Context) {
	go c.CleanupService.Start(ctx)
	logx.Info("IAM cleanup service started")
}
