// Package notify routes alert notifications to recipients across
// heterogeneous channels. The channel is derived from the address shape,
// never stored.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/aquawatch/aquawatch/internal/domain/alert"
	"github.com/aquawatch/aquawatch/internal/pkg/logger"
	"github.com/aquawatch/aquawatch/internal/pkg/metrics"
)

// Channel identifies the delivery channel inferred from a recipient address.
type Channel string

const (
	ChannelEmail        Channel = "email"
	ChannelSMS          Channel = "sms"
	ChannelUnrecognized Channel = "unrecognized"
)

// ClassifyRecipient infers the delivery channel from the address shape.
// Addresses containing "@" are email-like; addresses made of digits with
// an optional leading "+" and common separators are phone-like; anything
// else is unrecognized and will not be delivered.
func ClassifyRecipient(addr string) Channel {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return ChannelUnrecognized
	}
	if strings.Contains(addr, "@") {
		return ChannelEmail
	}
	digits := 0
	for i, r := range addr {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return ChannelUnrecognized
		}
	}
	if digits < 5 {
		return ChannelUnrecognized
	}
	return ChannelSMS
}

// EmailSender sends a message to an email-like address.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMSSender sends a short message to a phone-like address.
type SMSSender interface {
	Send(ctx context.Context, to, message string) error
}

// Dispatcher fans an alert out to its recipients, one attempt per
// recipient. Failures are isolated per recipient and logged; Dispatch
// itself never fails the caller.
type Dispatcher struct {
	email  EmailSender
	sms    SMSSender
	logger *logger.Logger
}

// NewDispatcher creates a new notification dispatcher
func NewDispatcher(email EmailSender, sms SMSSender, log *logger.Logger) *Dispatcher {
	return &Dispatcher{email: email, sms: sms, logger: log}
}

// Dispatch sends one notification per recipient of the alert.
func (d *Dispatcher) Dispatch(ctx context.Context, a *alert.Alert) {
	for _, recipient := range a.Recipients {
		d.dispatchOne(ctx, a, recipient)
	}
}

func (d *Dispatcher) dispatchOne(ctx context.Context, a *alert.Alert, recipient string) {
	channel := ClassifyRecipient(recipient)

	var err error
	switch channel {
	case ChannelEmail:
		subject := fmt.Sprintf("Water Quality Alert: %s", a.Severity)
		err = d.email.Send(ctx, recipient, subject, a.Description)
	case ChannelSMS:
		err = d.sms.Send(ctx, recipient, "Alert: "+a.Description)
	default:
		d.logger.WithFields(map[string]interface{}{
			"alert_id":  a.ID,
			"recipient": recipient,
		}).Warn("Unrecognized recipient address shape, skipping")
		metrics.RecordNotification(string(ChannelUnrecognized), "skipped")
		return
	}

	if err != nil {
		d.logger.WithFields(map[string]interface{}{
			"alert_id":  a.ID,
			"recipient": recipient,
			"channel":   string(channel),
		}).ErrorWithErr(err, "Failed to send notification")
		metrics.RecordNotification(string(channel), "failure")
		return
	}

	metrics.RecordNotification(string(channel), "success")
}
