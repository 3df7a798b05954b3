package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/bakkerme/courier/internal/cli"
	"github.com/bakkerme/courier/internal/factory"
)

func main() {
	os.Exit(run())
}

func run() (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", r)
			code = cli.ExitFailure
		}
	}()

	_ = godotenv.Load()

	fs := flag.NewFlagSet("sms", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), cli.SMSUsage)
		fs.PrintDefaults()
	}
	var common cli.CommonFlags
	common.Register(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, policy, err := common.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return cli.ExitUsage
	}

	logger := cli.NewLogger(cfg.LogLevel, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, shutdown := cli.Bootstrap(ctx, cfg, logger, "sms")
	defer shutdown()

	sender, err := factory.NewFromEnvConfig(logger, cfg, policy).NewSMSSender()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return cli.ExitUsage
	}

	return cli.RunSMS(ctx, sender, cli.ParseSMSArgs(fs.Args()), os.Stdout, os.Stderr)
}
