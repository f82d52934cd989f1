package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"github.com/aquawatch/aquawatch/internal/config"
	"github.com/aquawatch/aquawatch/internal/pkg/logger"
)

// ResendSender implements EmailSender via the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
	logger *logger.Logger
}

// NewResendSender creates a new Resend email sender. With no API key
// configured the sender is disabled and delivery attempts fail.
func NewResendSender(cfg config.AlertingConfig, log *logger.Logger) *ResendSender {
	s := &ResendSender{from: cfg.EmailFrom, logger: log}
	if cfg.ResendAPIKey == "" {
		log.Warn("RESEND_API_KEY not set, email notifications disabled")
		return s
	}
	s.client = resend.NewClient(cfg.ResendAPIKey)
	return s
}

// Send sends an email notification
func (s *ResendSender) Send(ctx context.Context, to, subject, body string) error {
	if s.client == nil {
		return fmt.Errorf("email sender not configured")
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("resend send to %s: %w", to, err)
	}

	s.logger.WithFields(map[string]interface{}{
		"to":       to,
		"email_id": sent.Id,
	}).Debug("Email notification sent")
	return nil
}
