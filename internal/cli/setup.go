package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/bakkerme/courier/internal/config"
	"github.com/bakkerme/courier/internal/delivery"
	"github.com/bakkerme/courier/internal/observability/otelx"
)

// CommonFlags are shared by the email and sms commands. Flags given on the
// command line win over the environment, which wins over the defaults file.
type CommonFlags struct {
	ConfigPath        string
	Timeout           string
	ContinueOnMissing bool

	fs *flag.FlagSet
}

func (f *CommonFlags) Register(fs *flag.FlagSet) {
	f.fs = fs
	fs.StringVar(&f.ConfigPath, "config", "", "path to a YAML defaults file (default $COURIER_CONFIG)")
	fs.StringVar(&f.Timeout, "timeout", "", "per-request timeout, e.g. 10s (default: wait for the response)")
	fs.BoolVar(&f.ContinueOnMissing, "continue-on-missing", false, "call the remote service even when a required argument is empty")
}

// IsSet reports whether the named flag was given on the command line.
func (f *CommonFlags) IsSet(name string) bool {
	if f.fs == nil {
		return false
	}
	set := false
	f.fs.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			set = true
		}
	})
	return set
}

// Load reads configuration and applies flag overrides.
func (f *CommonFlags) Load() (config.EnvConfig, delivery.MissingFieldPolicy, error) {
	var (
		cfg config.EnvConfig
		err error
	)
	if strings.TrimSpace(f.ConfigPath) == "" {
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFrom(f.ConfigPath)
	}
	if err != nil {
		return config.EnvConfig{}, "", err
	}

	if strings.TrimSpace(f.Timeout) != "" {
		timeout, err := config.ParseDuration(f.Timeout)
		if err != nil {
			return config.EnvConfig{}, "", fmt.Errorf("-timeout: %w", err)
		}
		if timeout < 0 {
			return config.EnvConfig{}, "", fmt.Errorf("-timeout must not be negative")
		}
		cfg.Timeout = timeout
	}

	switch {
	case f.ContinueOnMissing:
		cfg.MissingFields = string(delivery.PolicyContinue)
	case f.IsSet("continue-on-missing"):
		cfg.MissingFields = string(delivery.PolicyReject)
	}
	policy, err := delivery.ParsePolicy(cfg.MissingFields)
	if err != nil {
		return config.EnvConfig{}, "", err
	}
	return cfg, policy, nil
}

// ResolveEmailOptions applies -markdown over EMAIL_MARKDOWN and the defaults file.
func ResolveEmailOptions(cfg config.EnvConfig, flags *CommonFlags, markdown bool) EmailOptions {
	opts := EmailOptions{Markdown: cfg.Email.Markdown}
	if flags.IsSet("markdown") {
		opts.Markdown = markdown
	}
	return opts
}

// NewLogger builds the stderr text logger used by both commands.
func NewLogger(level string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// Bootstrap attaches the logger to ctx, applies the timeout, and starts
// tracing for command. The returned func must be called before exit.
func Bootstrap(ctx context.Context, cfg config.EnvConfig, logger *slog.Logger, command string) (context.Context, func()) {
	ctx = delivery.WithLogger(ctx, logger)

	tracing, err := otelx.Start(ctx, logger, cfg.OTel, command)
	if err != nil {
		logger.Warn("tracing disabled", "error", err)
	}

	cancel := func() {}
	if cfg.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
	}

	return ctx, func() {
		cancel()
		tracing.Shutdown(ctx)
	}
}
