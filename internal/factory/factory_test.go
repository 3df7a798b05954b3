package factory

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/bakkerme/courier/internal/config"
	"github.com/bakkerme/courier/internal/delivery"
	"github.com/bakkerme/courier/internal/email"
)

func TestNewEmailSender(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	cases := []struct {
		name    string
		env     config.EnvConfig
		wantErr bool
	}{
		{name: "default provider", env: config.EnvConfig{SendGrid: config.SendGridEnvConfig{APIKey: "sg-key"}}},
		{name: "sendgrid", env: config.EnvConfig{
			Email:    config.EmailEnvConfig{Provider: "SendGrid"},
			SendGrid: config.SendGridEnvConfig{APIKey: "sg-key"},
		}},
		{name: "sendgrid without key", env: config.EnvConfig{Email: config.EmailEnvConfig{Provider: "sendgrid"}}, wantErr: true},
		{name: "smtp", env: config.EnvConfig{
			Email: config.EmailEnvConfig{Provider: "smtp"},
			SMTP:  config.SMTPEnvConfig{Host: "localhost", Port: 1025, TLSMode: "disabled"},
		}},
		{name: "smtp without host", env: config.EnvConfig{
			Email: config.EmailEnvConfig{Provider: "smtp"},
			SMTP:  config.SMTPEnvConfig{Port: 1025},
		}, wantErr: true},
		{name: "unknown provider", env: config.EnvConfig{Email: config.EmailEnvConfig{Provider: "pigeon"}}, wantErr: true},
	}

	for _, tc := range cases {
		f := NewFromEnvConfig(logger, tc.env, delivery.PolicyReject)
		sender, err := f.NewEmailSender()
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%s: expected error", tc.name)
			}
			continue
		}
		if err != nil || sender == nil {
			t.Fatalf("%s: NewEmailSender()=%v, %v", tc.name, sender, err)
		}
	}
}

func TestNewEmailSender_RejectsBeforeSending(t *testing.T) {
	// The host is unroutable, so reaching the network would fail with a
	// transport error rather than a missing-fields error.
	env := config.EnvConfig{SendGrid: config.SendGridEnvConfig{APIKey: "sg-key", Host: "http://127.0.0.1:1"}}
	f := NewFromEnvConfig(nil, env, delivery.PolicyReject)
	sender, err := f.NewEmailSender()
	if err != nil {
		t.Fatalf("NewEmailSender error: %v", err)
	}
	outcome := sender.Send(context.Background(), email.Message{From: "a@example.com"})
	var missing *delivery.MissingFieldsError
	if outcome.OK() || !errors.As(outcome.Err, &missing) {
		t.Fatalf("expected missing fields failure, got %+v", outcome)
	}
}

func TestNewSMSSender(t *testing.T) {
	f := NewFromEnvConfig(nil, config.EnvConfig{}, delivery.PolicyReject)
	if _, err := f.NewSMSSender(); err == nil {
		t.Fatalf("expected error without twilio credentials")
	}

	f.Env.Twilio = config.TwilioEnvConfig{AccountSID: "AC123", AuthToken: "secret"}
	sender, err := f.NewSMSSender()
	if err != nil || sender == nil {
		t.Fatalf("NewSMSSender()=%v, %v", sender, err)
	}
}
