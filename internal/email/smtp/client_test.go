package smtp

import (
	"errors"
	"testing"
)

func TestIsLocalDevSMTPHost(t *testing.T) {
	cases := []struct {
		host string
		want bool
	}{
		{"localhost", true},
		{"127.0.0.1", true},
		{"::1", true},
		{"mailpit", true},
		{"smtp.example.com", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := isLocalDevSMTPHost(tc.host); got != tc.want {
			t.Fatalf("isLocalDevSMTPHost(%q)=%v want %v", tc.host, got, tc.want)
		}
	}
}

func TestResolveTLSMode(t *testing.T) {
	cases := []struct {
		raw  string
		port int
		want TLSMode
	}{
		{"", 465, TLSModeImplicit},
		{"auto", 587, TLSModeStartTLS},
		{"off", 1025, TLSModeDisabled},
		{"START_TLS", 25, TLSModeStartTLS},
		{"smtptls", 2465, TLSModeImplicit},
	}
	for _, tc := range cases {
		got, err := resolveTLSMode(tc.raw, tc.port)
		if err != nil {
			t.Fatalf("resolveTLSMode(%q, %d) unexpected error: %v", tc.raw, tc.port, err)
		}
		if got != tc.want {
			t.Fatalf("resolveTLSMode(%q, %d)=%q want %q", tc.raw, tc.port, got, tc.want)
		}
	}
	if _, err := resolveTLSMode("sometimes", 25); err == nil {
		t.Fatalf("expected error for unknown tls mode")
	}
}

func TestNewClient_Validation(t *testing.T) {
	if _, err := NewClient(Config{Port: 25}); err == nil {
		t.Fatalf("expected error for empty host")
	}
	if _, err := NewClient(Config{Host: "localhost"}); err == nil {
		t.Fatalf("expected error for zero port")
	}
	if _, err := NewClient(Config{Host: "localhost", Port: 25, TLSMode: "bogus"}); err == nil {
		t.Fatalf("expected error for bad tls mode")
	}
	c, err := NewClient(Config{Host: " mailpit ", Port: 1025, TLSMode: "disabled"})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	if c.cfg.Host != "mailpit" || c.mode != TLSModeDisabled {
		t.Fatalf("unexpected client config: %+v mode=%q", c.cfg, c.mode)
	}
}

func TestIsAuthUnsupported(t *testing.T) {
	if isAuthUnsupported(nil) {
		t.Fatalf("nil error should not be auth unsupported")
	}
	if !isAuthUnsupported(errors.New("failed to send email: server does not support SMTP AUTH")) {
		t.Fatalf("expected auth unsupported match")
	}
	if isAuthUnsupported(errors.New("connection refused")) {
		t.Fatalf("unexpected auth unsupported match")
	}
}
