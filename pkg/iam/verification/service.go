package verification

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Abraxas-365/turnkey/pkg/config"
	"github.com/Abraxas-365/turnkey/pkg/iam/user"
	"github.com/Abraxas-365/turnkey/pkg/kernel"
	"github.com/Abraxas-365/turnkey/pkg/logx"
)

// Auditor records verification outcomes. Satisfied by the auth audit
// service.
type Auditor interface {
	LogOTPVerification(ctx context.Context, email string, appID kernel.AppID, success bool)
}

// VerificationService drives the email verification flow: issuing
// codes, checking them against the ledger, and flipping the user's
// verified flag on success.
type VerificationService struct {
	otps   Repository
	users  user.Repository
	mailer Mailer
	audit  Auditor
	cfg    config.OTPConfig
}

func NewVerificationService(
	otps Repository,
	users user.Repository,
	mailer Mailer,
	audit Auditor,
	cfg config.OTPConfig,
) *VerificationService {
	return &VerificationService{
		otps:   otps,
		users:  users,
		mailer: mailer,
		audit:  audit,
		cfg:    cfg,
	}
}

// SendVerificationEmail issues a fresh code for the user identified by
// (email, appID) and delivers it. Any previously active code for the
// user stops working the moment the new one is stored.
func (s *VerificationService) SendVerificationEmail(ctx context.Context, email string, appID kernel.AppID) error {
	email = user.NormalizeEmail(email)

	u, err := s.users.FindByEmailAndApp(ctx, email, appID)
	if err != nil {
		return err
	}
	if u.IsVerified {
		return ErrAlreadyVerified()
	}

	code, err := GenerateCode(s.cfg.Length)
	if err != nil {
		return ErrRegistry.NewWithCause(CodeEmailDeliveryFailed, err)
	}

	v := &EmailVerification{
		ID:        uuid.New().String(),
		UserID:    u.ID,
		Email:     u.Email,
		OTP:       code,
		ExpiresAt: time.Now().Add(s.cfg.TTL),
		Attempts:  0,
		CreatedAt: time.Now(),
	}
	if err := s.otps.Replace(ctx, v); err != nil {
		return err
	}

	if err := s.mailer.SendOTP(ctx, u.Email, code, s.cfg.TTL); err != nil {
		// Undelivered codes are useless; drop the row so the user can
		// immediately request another.
		if delErr := s.otps.DeleteByID(ctx, v.ID); delErr != nil {
			logx.WithError(delErr).Warn("Failed to remove OTP after delivery failure")
		}
		return ErrRegistry.NewWithCause(CodeEmailDeliveryFailed, err)
	}

	logx.WithFields(logx.Fields{
		"user_id": u.ID,
		"app_id":  appID,
	}).Info("Verification email sent")
	return nil
}

// ResendOTP replaces the user's active code with a new one. Identical
// to the initial send; the distinction exists only at the HTTP surface
// where resends are rate limited separately.
func (s *VerificationService) ResendOTP(ctx context.Context, email string, appID kernel.AppID) error {
	return s.SendVerificationEmail(ctx, email, appID)
}

// VerifyEmail checks a submitted code. Every submission against an
// active row consumes one attempt; the row is destroyed on success,
// on expiry, and when the attempt ceiling is exceeded.
func (s *VerificationService) VerifyEmail(ctx context.Context, email string, appID kernel.AppID, otp string) error {
	email = user.NormalizeEmail(email)

	u, err := s.users.FindByEmailAndApp(ctx, email, appID)
	if err != nil {
		return err
	}
	if u.IsVerified {
		return ErrAlreadyVerified()
	}

	v, err := s.otps.FindActiveByUser(ctx, u.ID)
	if err != nil {
		return err
	}
	if v == nil {
		s.audit.LogOTPVerification(ctx, email, appID, false)
		return ErrInvalidOTP()
	}

	if v.IsExpired() {
		if err := s.otps.DeleteByID(ctx, v.ID); err != nil {
			return err
		}
		s.audit.LogOTPVerification(ctx, email, appID, false)
		return ErrOTPExpired()
	}

	if v.Attempts >= s.cfg.MaxAttempts {
		if err := s.otps.DeleteByID(ctx, v.ID); err != nil {
			return err
		}
		s.audit.LogOTPVerification(ctx, email, appID, false)
		return ErrTooManyAttempts()
	}

	if _, err := s.otps.IncrementAttempts(ctx, v.ID); err != nil {
		return err
	}

	if v.OTP != otp {
		s.audit.LogOTPVerification(ctx, email, appID, false)
		return ErrInvalidOTP()
	}

	if err := s.users.MarkVerified(ctx, u.ID); err != nil {
		return err
	}
	if err := s.otps.DeleteByID(ctx, v.ID); err != nil {
		logx.WithError(err).Warn("Failed to remove consumed OTP")
	}

	s.audit.LogOTPVerification(ctx, email, appID, true)
	return nil
}
