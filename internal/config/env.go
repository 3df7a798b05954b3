package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvConfig is read once per process and handed to the senders.
type EnvConfig struct {
	ConfigPath    string
	Timeout       time.Duration
	MissingFields string
	LogLevel      string
	Email         EmailEnvConfig
	SendGrid      SendGridEnvConfig
	Twilio        TwilioEnvConfig
	SMTP          SMTPEnvConfig
	OTel          OTelEnvConfig
}

type EmailEnvConfig struct {
	Provider string // "sendgrid" or "smtp"
	Markdown bool
}

type SendGridEnvConfig struct {
	APIKey string
	Host   string
}

type TwilioEnvConfig struct {
	AccountSID string
	AuthToken  string
}

type SMTPEnvConfig struct {
	Host               string
	Port               int
	User               string
	Password           string
	TLSMode            string
	InsecureSkipVerify bool
}

type OTelEnvConfig struct {
	Enabled     bool
	ServiceName string
	Endpoint    string
	Protocol    string // "grpc" or "http/protobuf"
	Headers     map[string]string
	Insecure    bool
	SampleRatio float64
}

// Load reads the optional defaults file named by COURIER_CONFIG, then the
// environment. Environment values win over file values.
func Load() (EnvConfig, error) {
	return LoadFrom(envString("COURIER_CONFIG", ""))
}

// LoadFrom is Load with an explicit defaults file path; an empty path skips the file.
func LoadFrom(path string) (EnvConfig, error) {
	file, err := LoadFile(path)
	if err != nil {
		return EnvConfig{}, err
	}
	cfg := loadEnv(file)
	cfg.ConfigPath = path

	timeoutRaw := envString("COURIER_TIMEOUT", file.Timeout)
	timeout, err := ParseDuration(timeoutRaw)
	if err != nil {
		return EnvConfig{}, fmt.Errorf("COURIER_TIMEOUT: %w", err)
	}
	if timeout < 0 {
		return EnvConfig{}, fmt.Errorf("COURIER_TIMEOUT must not be negative")
	}
	cfg.Timeout = timeout
	return cfg, nil
}

func loadEnv(file FileConfig) EnvConfig {
	otlpEndpoint := strings.TrimSpace(envString("OTEL_EXPORTER_OTLP_ENDPOINT", file.OTel.Endpoint))

	return EnvConfig{
		MissingFields: envString("COURIER_MISSING_FIELDS", file.MissingFields),
		LogLevel:      strings.ToLower(envString("LOG_LEVEL", orDefault(file.LogLevel, "warn"))),
		Email: EmailEnvConfig{
			Provider: strings.ToLower(envString("EMAIL_PROVIDER", orDefault(file.Email.Provider, "sendgrid"))),
			Markdown: envBool("EMAIL_MARKDOWN", file.Email.Markdown),
		},
		SendGrid: SendGridEnvConfig{
			APIKey: envString("SENDGRID_API_KEY", envString("API_KEY", "")),
			Host:   envString("SENDGRID_API_HOST", file.SendGrid.Host),
		},
		Twilio: TwilioEnvConfig{
			AccountSID: envString("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  envString("TWILIO_AUTH_TOKEN", ""),
		},
		SMTP: SMTPEnvConfig{
			Host:               envString("SMTP_HOST", file.SMTP.Host),
			Port:               envInt("SMTP_PORT", orDefaultInt(file.SMTP.Port, 587)),
			User:               envString("SMTP_USER", file.SMTP.User),
			Password:           envString("SMTP_PASSWORD", ""),
			TLSMode:            envString("SMTP_TLS_MODE", file.SMTP.TLSMode),
			InsecureSkipVerify: envBool("SMTP_INSECURE_SKIP_VERIFY", file.SMTP.InsecureSkipVerify),
		},
		OTel: OTelEnvConfig{
			Enabled:     envBool("OTEL_ENABLED", file.OTel.Enabled),
			ServiceName: strings.TrimSpace(envString("OTEL_SERVICE_NAME", orDefault(file.OTel.ServiceName, "courier"))),
			Endpoint:    otlpEndpoint,
			Protocol:    strings.ToLower(strings.TrimSpace(envString("OTEL_EXPORTER_OTLP_PROTOCOL", orDefault(file.OTel.Protocol, "grpc")))),
			Headers:     parseHeaders(envString("OTEL_EXPORTER_OTLP_HEADERS", "")),
			Insecure:    envBool("OTEL_EXPORTER_OTLP_INSECURE", defaultInsecure(otlpEndpoint)),
			SampleRatio: clamp01(envFloat("OTEL_TRACES_SAMPLE_RATIO", 1.0)),
		},
	}
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func envFloat(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func orDefaultInt(v, fallback int) int {
	if v != 0 {
		return v
	}
	return fallback
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func parseHeaders(raw string) map[string]string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	out := map[string]string{}
	for _, part := range strings.Split(raw, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	return out
}

func defaultInsecure(endpoint string) bool {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return true
	}
	if strings.Contains(endpoint, "://") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return false
		}
		return u.Scheme == "http"
	}
	return strings.HasPrefix(endpoint, "localhost:") ||
		strings.HasPrefix(endpoint, "127.0.0.1:") ||
		strings.HasPrefix(endpoint, "0.0.0.0:")
}
