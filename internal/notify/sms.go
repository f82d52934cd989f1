package notify

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/aquawatch/aquawatch/internal/config"
	"github.com/aquawatch/aquawatch/internal/pkg/logger"
)

// TwilioSender implements SMSSender via the Twilio messaging API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
	logger *logger.Logger
}

// NewTwilioSender creates a new Twilio SMS sender. With no credentials
// configured the sender is disabled and delivery attempts fail.
func NewTwilioSender(cfg config.AlertingConfig, log *logger.Logger) *TwilioSender {
	s := &TwilioSender{from: cfg.TwilioFromNumber, logger: log}
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" {
		log.Warn("Twilio credentials not set, SMS notifications disabled")
		return s
	}
	s.client = twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})
	return s
}

// Send sends an SMS notification. The Twilio SDK does not take a
// context; the dispatch deadline is enforced by the caller's timeout.
func (s *TwilioSender) Send(ctx context.Context, to, message string) error {
	if s.client == nil {
		return fmt.Errorf("sms sender not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(message)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio send to %s: %w", to, err)
	}

	s.logger.With("to", to).Debug("SMS notification sent")
	return nil
}
