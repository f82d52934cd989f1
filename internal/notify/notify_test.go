package notify

import (
	"context"
	"fmt"
	"testing"

	"github.com/aquawatch/aquawatch/internal/domain/alert"
	"github.com/aquawatch/aquawatch/internal/pkg/logger"
)

type fakeEmailSender struct {
	sent []string
	err  error
}

func (f *fakeEmailSender) Send(ctx context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakeSMSSender struct {
	sent []string
	err  error
}

func (f *fakeSMSSender) Send(ctx context.Context, to, message string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

func TestClassifyRecipient(t *testing.T) {
	tests := []struct {
		addr string
		want Channel
	}{
		{"ops@example.com", ChannelEmail},
		{"water.team@agency.gov", ChannelEmail},
		{"+15555550123", ChannelSMS},
		{"5555550123", ChannelSMS},
		{"+1 (555) 555-0123", ChannelSMS},
		{"", ChannelUnrecognized},
		{"   ", ChannelUnrecognized},
		{"not-an-address", ChannelUnrecognized},
		{"123", ChannelUnrecognized},
		{"555+0123", ChannelUnrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			if got := ClassifyRecipient(tt.addr); got != tt.want {
				t.Errorf("ClassifyRecipient(%q) = %v, want %v", tt.addr, got, tt.want)
			}
		})
	}
}

func testAlert(recipients ...string) *alert.Alert {
	return &alert.Alert{
		ID:          1,
		StationID:   "STN001",
		Type:        alert.TypeAnomalyDetected,
		Severity:    alert.SeverityHigh,
		Description: "Anomaly detected at station STN001",
		Recipients:  recipients,
		Status:      alert.StatusTriggered,
	}
}

func TestDispatch_Routing(t *testing.T) {
	email := &fakeEmailSender{}
	sms := &fakeSMSSender{}
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	d := NewDispatcher(email, sms, log)

	d.Dispatch(context.Background(), testAlert("ops@example.com", "+15555550123", "garbage!"))

	if len(email.sent) != 1 || email.sent[0] != "ops@example.com" {
		t.Errorf("email.sent = %v, want [ops@example.com]", email.sent)
	}
	if len(sms.sent) != 1 || sms.sent[0] != "+15555550123" {
		t.Errorf("sms.sent = %v, want [+15555550123]", sms.sent)
	}
}

func TestDispatch_IsolatesFailures(t *testing.T) {
	email := &fakeEmailSender{err: fmt.Errorf("provider down")}
	sms := &fakeSMSSender{}
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	d := NewDispatcher(email, sms, log)

	// The failing email recipient must not prevent the SMS delivery.
	d.Dispatch(context.Background(), testAlert("ops@example.com", "+15555550123"))

	if len(sms.sent) != 1 {
		t.Errorf("sms.sent = %v, want one delivery despite email failure", sms.sent)
	}
}

func TestDispatch_EmptyRecipients(t *testing.T) {
	email := &fakeEmailSender{}
	sms := &fakeSMSSender{}
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	d := NewDispatcher(email, sms, log)

	d.Dispatch(context.Background(), testAlert())

	if len(email.sent) != 0 || len(sms.sent) != 0 {
		t.Error("Dispatch() with no recipients attempted deliveries")
	}
}
