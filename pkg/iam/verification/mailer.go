package verification

import (
	"context"
	"fmt"
	"time"

	"github.com/Abraxas-365/turnkey/pkg/notifx"
)

const otpTemplateName = "verification_otp"

const otpTemplate = `<!DOCTYPE html>
<html>
  <body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
    <div style="max-width: 480px; margin: 0 auto; background-color: #ffffff; border-radius: 8px; padding: 32px;">
      <h2 style="color: #333333; margin-top: 0;">Verify your email</h2>
      <p style="color: #555555;">Use the code below to verify your email address:</p>
      <p style="font-size: 32px; font-weight: bold; letter-spacing: 8px; text-align: center; color: #1a1a1a;">{{.OTP}}</p>
      <p style="color: #555555;">This code expires in {{.ExpiresIn}} minutes.</p>
      <p style="color: #999999; font-size: 12px;">If you did not request this code, you can safely ignore this email.</p>
    </div>
  </body>
</html>`

// NotifxMailer delivers OTP codes through the notifx client.
type NotifxMailer struct {
	client *notifx.Client
	from   string
}

func NewNotifxMailer(client *notifx.Client, fromAddress string) (*NotifxMailer, error) {
	if err := client.RegisterTemplate(otpTemplateName, otpTemplate); err != nil {
		return nil, err
	}
	return &NotifxMailer{client: client, from: fromAddress}, nil
}

func (m *NotifxMailer) SendOTP(ctx context.Context, email, otp string, ttl time.Duration) error {
	minutes := int(ttl.Minutes())
	data := struct {
		OTP       string
		ExpiresIn int
	}{OTP: otp, ExpiresIn: minutes}

	msg := notifx.EmailMessage{
		From:     m.from,
		To:       []string{email},
		Subject:  "Verify your email",
		TextBody: fmt.Sprintf("Your verification code is: %s. It will expire in %d minutes.", otp, minutes),
	}
	return m.client.SendTemplatedEmail(ctx, otpTemplateName, data, msg)
}
