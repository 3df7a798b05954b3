package otelx

import (
	"context"
	"strings"
	"testing"

	"github.com/bakkerme/courier/internal/config"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
)

func TestStart_DisabledIsInert(t *testing.T) {
	tracing, err := Start(context.Background(), nil, config.OTelEnvConfig{Enabled: false}, "email")
	if err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if tracing.Enabled() {
		t.Fatalf("expected tracing to be disabled")
	}
	tracing.Shutdown(context.Background())

	var nilTracing *Tracing
	nilTracing.Shutdown(context.Background())
}

func TestStart_UnsupportedProtocol(t *testing.T) {
	_, err := Start(context.Background(), nil, config.OTelEnvConfig{Enabled: true, Protocol: "carrier-pigeon"}, "sms")
	if err == nil {
		t.Fatalf("expected error for unsupported protocol")
	}
}

func TestResolveTarget(t *testing.T) {
	cases := []struct {
		cfg     config.OTelEnvConfig
		want    target
		wantErr bool
	}{
		{cfg: config.OTelEnvConfig{}, want: target{protocol: protocolGRPC, endpoint: "localhost:4317"}},
		{cfg: config.OTelEnvConfig{Protocol: "http"}, want: target{protocol: protocolHTTP, endpoint: "localhost:4318"}},
		{cfg: config.OTelEnvConfig{Protocol: "HTTP/PROTOBUF", Endpoint: "collector:4318"}, want: target{protocol: protocolHTTP, endpoint: "collector:4318"}},
		{cfg: config.OTelEnvConfig{Endpoint: "http://collector:4317"}, want: target{protocol: protocolGRPC, endpoint: "collector:4317"}},
		{cfg: config.OTelEnvConfig{Protocol: "http/protobuf", Endpoint: "https://otel.example.com/v1/traces"}, want: target{protocol: protocolHTTP, endpoint: "https://otel.example.com/v1/traces", isURL: true}},
		{cfg: config.OTelEnvConfig{Endpoint: "http://"}, wantErr: true},
		{cfg: config.OTelEnvConfig{Protocol: "udp"}, wantErr: true},
	}
	for _, tc := range cases {
		got, err := resolveTarget(tc.cfg)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("resolveTarget(%+v) expected error", tc.cfg)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("resolveTarget(%+v)=%+v, %v want %+v", tc.cfg, got, err, tc.want)
		}
	}
}

func TestResourceAttributes(t *testing.T) {
	got := attribute.NewSet(resourceAttributes("", "sms")...)
	if v, ok := got.Value(semconv.ServiceNameKey); !ok || v.AsString() != "courier" {
		t.Fatalf("service.name=%v want courier", v)
	}
	if v, ok := got.Value(CommandKey); !ok || v.AsString() != "sms" {
		t.Fatalf("courier.command=%v want sms", v)
	}

	got = attribute.NewSet(resourceAttributes("notify", "")...)
	if v, _ := got.Value(semconv.ServiceNameKey); v.AsString() != "notify" {
		t.Fatalf("service.name=%v want notify", v)
	}
	if _, ok := got.Value(CommandKey); ok {
		t.Fatalf("expected no command attribute")
	}
}

func TestSampler(t *testing.T) {
	cases := []struct {
		ratio float64
		want  string
	}{
		{1, "AlwaysOnSampler"},
		{5, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{-1, "AlwaysOffSampler"},
		{0.5, "TraceIDRatioBased{0.5}"},
	}
	for _, tc := range cases {
		desc := sampler(tc.ratio).Description()
		if !strings.Contains(desc, tc.want) {
			t.Fatalf("sampler(%v)=%q want root %q", tc.ratio, desc, tc.want)
		}
	}
}
