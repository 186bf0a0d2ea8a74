package notifxconsole

import (
	"context"

	"github.com/Abraxas-365/turnkey/pkg/logx"
	"github.com/Abraxas-365/turnkey/pkg/notifx"
)

// ConsoleProvider implements notifx.EmailSender by logging the message.
// Intended for local development where no mail transport is configured.
type ConsoleProvider struct{}

// NewConsoleProvider creates a new console email provider.
func NewConsoleProvider() *ConsoleProvider {
	return &ConsoleProvider{}
}

// SendEmail logs the email instead of delivering it.
func (p *ConsoleProvider) SendEmail(_ context.Context, msg notifx.EmailMessage) error {
	logx.WithFields(logx.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
		"text":    msg.TextBody,
	}).Info("console email provider: message not delivered")
	return nil
}
