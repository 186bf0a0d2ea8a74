package config

import "time"

// AuthConfig groups the credential and token lifecycle policy.
type AuthConfig struct {
	JWT      JWTConfig
	Password PasswordConfig
	OTP      OTPConfig
	Cleanup  CleanupConfig
}

// JWTConfig configures the token codec. A single symmetric secret signs
// both access and refresh tokens.
type JWTConfig struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	Issuer          string
}

// PasswordConfig is the password policy. MinLength is deliberately a
// config value, not a literal in the validation code.
type PasswordConfig struct {
	MinLength  int
	BcryptCost int
}

// OTPConfig configures email verification codes.
type OTPConfig struct {
	Length      int
	TTL         time.Duration
	MaxAttempts int
}

// CleanupConfig configures the expired-row reaper.
type CleanupConfig struct {
	Interval time.Duration
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		JWT: JWTConfig{
			Secret:          getEnv("JWT_SECRET", ""),
			AccessTokenTTL:  getEnvDuration("JWT_ACCESS_TTL", time.Hour),
			RefreshTokenTTL: getEnvDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
			Issuer:          getEnv("JWT_ISSUER", "turnkey"),
		},
		Password: PasswordConfig{
			MinLength:  getEnvInt("AUTH_PASSWORD_MIN_LENGTH", 6),
			BcryptCost: getEnvInt("AUTH_BCRYPT_COST", 10),
		},
		OTP: OTPConfig{
			Length:      getEnvInt("AUTH_OTP_LENGTH", 6),
			TTL:         getEnvDuration("AUTH_OTP_TTL", 10*time.Minute),
			MaxAttempts: getEnvInt("AUTH_OTP_MAX_ATTEMPTS", 5),
		},
		Cleanup: CleanupConfig{
			Interval: getEnvDuration("AUTH_CLEANUP_INTERVAL", time.Hour),
		},
	}
}

// RateLimitConfig configures the per-IP sliding window limiter in front of
// the OTP endpoints.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

func loadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Requests: getEnvInt("RATE_LIMIT_REQUESTS", 3),
		Window:   getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
	}
}
