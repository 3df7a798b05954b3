package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileConfig holds non-secret defaults from a YAML file. Credentials are only
// ever read from the environment.
type FileConfig struct {
	Timeout       string `yaml:"timeout,omitempty"`
	MissingFields string `yaml:"missing_fields,omitempty"`
	LogLevel      string `yaml:"log_level,omitempty"`
	Email         struct {
		Provider string `yaml:"provider,omitempty"`
		Markdown bool   `yaml:"markdown,omitempty"`
	} `yaml:"email,omitempty"`
	SendGrid struct {
		Host string `yaml:"host,omitempty"`
	} `yaml:"sendgrid,omitempty"`
	SMTP struct {
		Host               string `yaml:"host,omitempty"`
		Port               int    `yaml:"port,omitempty"`
		User               string `yaml:"user,omitempty"`
		TLSMode            string `yaml:"tls_mode,omitempty"`
		InsecureSkipVerify bool   `yaml:"insecure_skip_verify,omitempty"`
	} `yaml:"smtp,omitempty"`
	OTel struct {
		Enabled     bool   `yaml:"enabled,omitempty"`
		ServiceName string `yaml:"service_name,omitempty"`
		Endpoint    string `yaml:"endpoint,omitempty"`
		Protocol    string `yaml:"protocol,omitempty"`
	} `yaml:"otel,omitempty"`
}

// LoadFile parses the defaults file at path. An empty path returns zero defaults.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	path = strings.TrimSpace(path)
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}
