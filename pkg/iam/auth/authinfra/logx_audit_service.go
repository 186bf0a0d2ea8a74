package authinfra

import (
	"context"

	"github.com/Abraxas-365/turnkey/pkg/kernel"
	"github.com/Abraxas-365/turnkey/pkg/logx"
)

// LogxAuditService implements auth.AuditService using structured logging.
// Audit detail is operator-facing; caller-visible messages stay generic.
type LogxAuditService struct{}

func NewLogxAuditService() *LogxAuditService {
	return &LogxAuditService{}
}

func (s *LogxAuditService) LogAccountCreated(_ context.Context, userID kernel.UserID, appID kernel.AppID) {
	logx.WithFields(logx.Fields{
		"audit_event": "account_created",
		"user_id":     userID,
		"app_id":      appID,
	}).Info("Audit: account created")
}

func (s *LogxAuditService) LogLoginAttempt(_ context.Context, email string, appID kernel.AppID, success bool) {
	logx.WithFields(logx.Fields{
		"audit_event": "login_attempt",
		"email":       email,
		"app_id":      appID,
		"success":     success,
	}).Info("Audit: login attempt")
}

func (s *LogxAuditService) LogTokenRefresh(_ context.Context, userID kernel.UserID) {
	logx.WithFields(logx.Fields{
		"audit_event": "token_refresh",
		"user_id":     userID,
	}).Info("Audit: token refresh")
}

func (s *LogxAuditService) LogLogout(_ context.Context, userID kernel.UserID) {
	logx.WithFields(logx.Fields{
		"audit_event": "logout",
		"user_id":     userID,
	}).Info("Audit: logout")
}

func (s *LogxAuditService) LogOTPVerification(_ context.Context, email string, appID kernel.AppID, success bool) {
	logx.WithFields(logx.Fields{
		"audit_event": "otp_verification",
		"email":       email,
		"app_id":      appID,
		"success":     success,
	}).Info("Audit: OTP verification")
}
