package otelx

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/bakkerme/courier/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
)

// CommandKey tags every span with the binary that produced it ("email" or "sms").
const CommandKey = attribute.Key("courier.command")

const (
	defaultServiceName  = "courier"
	defaultFlushTimeout = 5 * time.Second

	protocolGRPC = "grpc"
	protocolHTTP = "http/protobuf"
)

// Tracing owns the tracer provider for one command run. The zero value and a
// nil *Tracing are valid and do nothing.
type Tracing struct {
	provider     *sdktrace.TracerProvider
	logger       *slog.Logger
	flushTimeout time.Duration
}

// Start installs a global OTLP tracer provider for command. When tracing is
// disabled it returns an inert Tracing, so callers can always defer Shutdown.
func Start(ctx context.Context, logger *slog.Logger, cfg config.OTelEnvConfig, command string) (*Tracing, error) {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Tracing{logger: logger, flushTimeout: defaultFlushTimeout}
	if !cfg.Enabled {
		return t, nil
	}

	target, err := resolveTarget(cfg)
	if err != nil {
		return t, err
	}
	exp, err := newExporter(ctx, target, cfg)
	if err != nil {
		return t, fmt.Errorf("build otlp exporter: %w", err)
	}

	res, err := resource.New(
		ctx,
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithHost(),
		resource.WithAttributes(resourceAttributes(cfg.ServiceName, command)...),
	)
	if err != nil {
		return t, fmt.Errorf("build otel resource: %w", err)
	}

	// A run sends one message; export as soon as the span ends.
	t.provider = sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exp, sdktrace.WithBatchTimeout(200*time.Millisecond)),
		sdktrace.WithSampler(sampler(cfg.SampleRatio)),
	)
	otel.SetTracerProvider(t.provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Debug("tracing started",
		"command", command,
		"otlp_protocol", target.protocol,
		"otlp_endpoint", target.endpoint,
		"sample_ratio", cfg.SampleRatio,
	)
	return t, nil
}

func (t *Tracing) Enabled() bool {
	return t != nil && t.provider != nil
}

// Shutdown flushes pending spans on its own time budget, detached from ctx
// cancellation, so spans from a timed-out or interrupted run still export.
func (t *Tracing) Shutdown(ctx context.Context) {
	if !t.Enabled() {
		return
	}
	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), t.flushTimeout)
	defer cancel()
	if err := t.provider.Shutdown(flushCtx); err != nil {
		t.logger.Warn("tracing shutdown failed", "error", err)
	}
}

func resourceAttributes(serviceName, command string) []attribute.KeyValue {
	serviceName = strings.TrimSpace(serviceName)
	if serviceName == "" {
		serviceName = defaultServiceName
	}
	attrs := []attribute.KeyValue{semconv.ServiceName(serviceName)}
	if command = strings.TrimSpace(command); command != "" {
		attrs = append(attrs, CommandKey.String(command))
	}
	return attrs
}

func sampler(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	case ratio <= 0:
		return sdktrace.ParentBased(sdktrace.NeverSample())
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}

// target is the normalized collector address for one protocol. For grpc the
// endpoint is always host:port; for http it may be a full URL.
type target struct {
	protocol string
	endpoint string
	isURL    bool
}

func resolveTarget(cfg config.OTelEnvConfig) (target, error) {
	var t target
	switch p := strings.ToLower(strings.TrimSpace(cfg.Protocol)); p {
	case "", protocolGRPC:
		t.protocol = protocolGRPC
	case "http", protocolHTTP:
		t.protocol = protocolHTTP
	default:
		return target{}, fmt.Errorf("unsupported OTEL_EXPORTER_OTLP_PROTOCOL %q (want grpc or http/protobuf)", cfg.Protocol)
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		if t.protocol == protocolHTTP {
			t.endpoint = "localhost:4318"
		} else {
			t.endpoint = "localhost:4317"
		}
		return t, nil
	}
	if !strings.Contains(endpoint, "://") {
		t.endpoint = endpoint
		return t, nil
	}

	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return target{}, fmt.Errorf("invalid OTEL_EXPORTER_OTLP_ENDPOINT %q", endpoint)
	}
	if t.protocol == protocolGRPC {
		t.endpoint = u.Host
		return t, nil
	}
	t.endpoint = endpoint
	t.isURL = true
	return t, nil
}

func newExporter(ctx context.Context, t target, cfg config.OTelEnvConfig) (*otlptrace.Exporter, error) {
	if t.protocol == protocolHTTP {
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(t.endpoint)}
		if t.isURL {
			opts = []otlptracehttp.Option{otlptracehttp.WithEndpointURL(t.endpoint)}
		}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		if len(cfg.Headers) > 0 {
			opts = append(opts, otlptracehttp.WithHeaders(cfg.Headers))
		}
		return otlptracehttp.New(ctx, opts...)
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(t.endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlptracegrpc.WithHeaders(cfg.Headers))
	}
	return otlptracegrpc.New(ctx, opts...)
}
