package factory

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bakkerme/courier/internal/config"
	"github.com/bakkerme/courier/internal/delivery"
	"github.com/bakkerme/courier/internal/email"
	"github.com/bakkerme/courier/internal/email/sendgrid"
	"github.com/bakkerme/courier/internal/email/smtp"
	"github.com/bakkerme/courier/internal/sms"
	"github.com/bakkerme/courier/internal/sms/twilio"
)

const (
	ProviderSendGrid = "sendgrid"
	ProviderSMTP     = "smtp"
)

// Factory turns environment configuration into ready-to-use senders.
type Factory struct {
	Logger *slog.Logger
	Env    config.EnvConfig
	Policy delivery.MissingFieldPolicy
}

func NewFromEnvConfig(logger *slog.Logger, env config.EnvConfig, policy delivery.MissingFieldPolicy) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{Logger: logger, Env: env, Policy: policy}
}

// NewEmailSender picks the provider named by EMAIL_PROVIDER.
func (f *Factory) NewEmailSender() (*email.Sender, error) {
	provider := strings.ToLower(strings.TrimSpace(f.Env.Email.Provider))
	if provider == "" {
		provider = ProviderSendGrid
	}

	var client email.Client
	switch provider {
	case ProviderSendGrid:
		sgClient, err := sendgrid.NewClient(f.Env.SendGrid.APIKey, f.Env.SendGrid.Host, f.Env.Timeout)
		if err != nil {
			return nil, err
		}
		client = sgClient
	case ProviderSMTP:
		smtpClient, err := smtp.NewClient(smtp.Config{
			Host:               f.Env.SMTP.Host,
			Port:               f.Env.SMTP.Port,
			Username:           f.Env.SMTP.User,
			Password:           f.Env.SMTP.Password,
			TLSMode:            f.Env.SMTP.TLSMode,
			InsecureSkipVerify: f.Env.SMTP.InsecureSkipVerify,
			Timeout:            f.Env.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("smtp: %w", err)
		}
		client = smtpClient
	default:
		return nil, fmt.Errorf("unknown email provider %q (want %s or %s)", provider, ProviderSendGrid, ProviderSMTP)
	}

	f.Logger.Debug("email sender configured", "provider", provider, "policy", string(f.Policy))
	return email.NewSender(client, email.WithProvider(provider), email.WithPolicy(f.Policy)), nil
}

func (f *Factory) NewSMSSender() (*sms.Sender, error) {
	client, err := twilio.NewClient(f.Env.Twilio.AccountSID, f.Env.Twilio.AuthToken, f.Env.Timeout)
	if err != nil {
		return nil, err
	}
	f.Logger.Debug("sms sender configured", "provider", "twilio", "policy", string(f.Policy))
	return sms.NewSender(client, sms.WithPolicy(f.Policy)), nil
}
