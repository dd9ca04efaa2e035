package main

import (
	"fmt"
	"os"

	"github.com/de-tools/report-atlas/pkg/app"
	"github.com/de-tools/report-atlas/pkg/config"
	"github.com/de-tools/report-atlas/pkg/server"
	"github.com/de-tools/report-atlas/pkg/session"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for the reporting dashboard",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the YAML config file (defaults and REPORTS_* environment variables apply)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	envErr := godotenv.Load()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	logger := app.NewLogger(cfg, os.Stdout)
	ctx := logger.WithContext(cmd.Context())
	if envErr != nil {
		logger.Debug().Err(envErr).Msg("no .env file loaded")
	}

	a, err := app.New(ctx, cfg, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	defer a.Close()

	logger.Info().
		Str("upstream", cfg.Upstream.BaseURL).
		Int("reports", len(a.Service.Reports())).
		Msg("report service ready")

	web := server.NewWebAPI(server.Config{
		Addr:            cfg.Addr(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Reports:  a.Service,
			Sessions: session.NewManager(cfg.Sessions.Max),
			Metrics:  a.Metrics,
			Logger:   logger,
		},
	})
	return web.Start()
}
