package main

import (
	"context"
	"fmt"
	"os"

	"github.com/de-tools/report-atlas/pkg/app"
	"github.com/de-tools/report-atlas/pkg/config"
	"github.com/de-tools/report-atlas/pkg/runtime/terminal"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

func main() {
	cli := terminal.NewCLI(terminal.Options{
		Factory: newApp,
		Output:  os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(ctx context.Context, configPath string) (*app.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	// Diagnostics go to stderr so rendered output stays clean.
	logger := app.NewLogger(cfg, os.Stderr)
	zerolog.DefaultContextLogger = &logger

	// One-shot process: metrics are collected but never scraped.
	return app.New(logger.WithContext(ctx), cfg, prometheus.NewRegistry())
}
