// Package app wires configuration into a ready report service. Both the web
// server and the CLI build their dependencies through it.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/de-tools/report-atlas/pkg/config"
	"github.com/de-tools/report-atlas/pkg/metrics"
	"github.com/de-tools/report-atlas/pkg/reports"
	"github.com/de-tools/report-atlas/pkg/store/sqlite"
	"github.com/de-tools/report-atlas/pkg/store/sqlite/runs"
	"github.com/de-tools/report-atlas/pkg/upstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

type App struct {
	Service reports.Service
	Metrics *metrics.Metrics

	db *sql.DB
}

// NewLogger builds the process logger at the configured level.
func NewLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	return zerolog.New(out).Level(cfg.LogLevel()).With().Timestamp().Logger()
}

// New builds the report service described by cfg and registers its metrics
// with reg. Builds are served from the local runs database when
// builds.db_path is set.
func New(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) (*App, error) {
	logger := zerolog.Ctx(ctx)

	policy := config.DefaultSLAPolicy()
	if cfg.Reports.SLAPolicyPath != "" {
		var err error
		policy, err = config.LoadSLAPolicy(cfg.Reports.SLAPolicyPath)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("path", cfg.Reports.SLAPolicyPath).Int("priorities", len(policy.ByPriority)).
			Msg("sla policy loaded")
	}

	registry, err := reports.NewRegistry(
		reports.NewDownloadsDriver(),
		reports.NewBuildsDriver(),
		reports.NewTicketsDriver(&policy, cfg.Reports.NoSLATypes),
		reports.NewMailDriver(),
		reports.NewUptimeDriver(cfg.Reports.UptimeSeries),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register reports: %w", err)
	}

	client, err := upstream.NewClient(upstream.ClientConfig{
		BaseURL:  cfg.Upstream.BaseURL,
		Token:    cfg.Upstream.Token,
		Timeout:  cfg.Upstream.Timeout,
		RetryMax: cfg.Upstream.RetryMax,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create upstream client: %w", err)
	}
	source := upstream.NewMux(client)

	a := &App{Metrics: metrics.New(reg)}
	if cfg.Builds.DBPath != "" {
		a.db, err = sqlite.NewDB(ctx, sqlite.Settings{DbPath: cfg.Builds.DBPath})
		if err != nil {
			return nil, fmt.Errorf("failed to open builds database: %w", err)
		}
		store, err := runs.NewStore(a.db)
		if err != nil {
			_ = a.db.Close()
			return nil, fmt.Errorf("failed to create runs store: %w", err)
		}
		source.Handle(upstream.BuildsEndpoint, upstream.NewBuildsSource(store))
		logger.Info().Str("path", cfg.Builds.DBPath).Msg("serving builds from local database")
	}

	a.Service, err = reports.NewService(reports.Options{
		Registry: registry,
		Source:   source,
		Metrics:  a.Metrics,
	})
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to create report service: %w", err)
	}
	return a, nil
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
