package smtp

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	mail "github.com/wneessen/go-mail"

	"github.com/bakkerme/courier/internal/email"
)

// TLSMode determines how the SMTP client should negotiate TLS.
type TLSMode string

const (
	// TLSModeAuto uses port-based defaults (implicit TLS on 465, STARTTLS otherwise).
	TLSModeAuto TLSMode = "auto"
	// TLSModeDisabled forces cleartext SMTP.
	TLSModeDisabled TLSMode = "disabled"
	// TLSModeStartTLS requires STARTTLS on the SMTP connection.
	TLSModeStartTLS TLSMode = "starttls"
	// TLSModeImplicit uses implicit TLS (SMTPS), typically on port 465.
	TLSModeImplicit TLSMode = "implicit"
)

type Config struct {
	Host               string
	Port               int
	Username           string
	Password           string
	TLSMode            string
	InsecureSkipVerify bool
	Timeout            time.Duration
}

// Client hands messages to an SMTP relay. A completed hand-off is reported
// as 202 Accepted so it maps onto the same outcome as an API provider.
type Client struct {
	cfg  Config
	mode TLSMode
}

func NewClient(cfg Config) (*Client, error) {
	cfg.Host = strings.TrimSpace(cfg.Host)
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if cfg.Port <= 0 {
		return nil, fmt.Errorf("smtp port must be positive")
	}
	mode, err := resolveTLSMode(cfg.TLSMode, cfg.Port)
	if err != nil {
		return nil, err
	}
	return &Client{cfg: cfg, mode: mode}, nil
}

func (c *Client) Send(ctx context.Context, message email.Message) (email.Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if message.From == "" {
		message.From = c.cfg.Username
	}

	m := mail.NewMsg()
	if err := m.From(message.From); err != nil {
		return email.Response{}, fmt.Errorf("invalid from address %q: %w", message.From, err)
	}
	if err := m.ToFromString(message.To); err != nil {
		return email.Response{}, fmt.Errorf("invalid to address(es) %q: %w", message.To, err)
	}
	m.Subject(message.Subject)
	m.SetBodyString(mail.TypeTextHTML, message.HTML)
	if err := m.EnvelopeFrom(message.From); err != nil {
		return email.Response{}, fmt.Errorf("invalid envelope from address %q: %w", message.From, err)
	}

	err := c.dialAndSend(ctx, m, c.cfg.Username != "")
	// Mailpit (and similar local SMTP sinks) do not support SMTP AUTH.
	// If credentials were configured but we are sending to a local sink, retry without auth.
	if err != nil && c.cfg.Username != "" && isAuthUnsupported(err) && isLocalDevSMTPHost(c.cfg.Host) {
		err = c.dialAndSend(ctx, m, false)
	}
	if err != nil {
		return email.Response{}, err
	}
	return email.Response{StatusCode: http.StatusAccepted}, nil
}

func (c *Client) dialAndSend(ctx context.Context, m *mail.Msg, enableAuth bool) error {
	clientOpts := []mail.Option{
		mail.WithPort(c.cfg.Port),
		// Allow self-signed or otherwise invalid TLS certs when explicitly configured.
		mail.WithTLSConfig(&tls.Config{
			ServerName:         c.cfg.Host,
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: c.cfg.InsecureSkipVerify,
		}),
	}
	if c.cfg.Timeout > 0 {
		clientOpts = append(clientOpts, mail.WithTimeout(c.cfg.Timeout))
	}

	switch c.mode {
	case TLSModeDisabled:
		clientOpts = append(clientOpts, mail.WithTLSPortPolicy(mail.NoTLS))
	case TLSModeStartTLS:
		clientOpts = append(clientOpts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	case TLSModeImplicit:
		clientOpts = append(clientOpts, mail.WithSSL())
	default:
		return fmt.Errorf("unsupported smtp tls mode %q", c.mode)
	}

	if enableAuth {
		clientOpts = append(
			clientOpts,
			mail.WithUsername(c.cfg.Username),
			mail.WithPassword(c.cfg.Password),
			mail.WithSMTPAuth(mail.SMTPAuthAutoDiscover),
		)
	}

	client, err := mail.NewClient(c.cfg.Host, clientOpts...)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// resolveTLSMode returns the configured TLS behavior, falling back to port defaults.
func resolveTLSMode(raw string, port int) (TLSMode, error) {
	mode, err := parseTLSMode(raw)
	if err != nil {
		return "", err
	}
	if mode == TLSModeAuto {
		if port == 465 {
			return TLSModeImplicit, nil
		}
		return TLSModeStartTLS, nil
	}
	return mode, nil
}

// parseTLSMode normalizes the TLS mode string and validates supported values.
func parseTLSMode(mode string) (TLSMode, error) {
	normalized := strings.TrimSpace(strings.ToLower(mode))
	if normalized == "" || normalized == string(TLSModeAuto) {
		return TLSModeAuto, nil
	}
	switch normalized {
	case "disabled", "off", "none":
		return TLSModeDisabled, nil
	case "starttls", "start_tls":
		return TLSModeStartTLS, nil
	case "implicit", "smtptls", "smtp_tls":
		return TLSModeImplicit, nil
	default:
		return "", fmt.Errorf("invalid smtp tls mode %q (expected: auto, disabled/off/none, starttls/start_tls, implicit/smtptls/smtp_tls)", mode)
	}
}

func isAuthUnsupported(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "server does not support SMTP AUTH") ||
		strings.Contains(msg, "SMTP Auth autodiscover was not able to detect a supported authentication mechanism")
}

func isLocalDevSMTPHost(host string) bool {
	host = strings.TrimSpace(strings.ToLower(host))
	if host == "" {
		return false
	}
	if host == "localhost" || host == "mailpit" {
		return true
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return true
	}
	return false
}
