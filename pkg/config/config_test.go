package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ValidYAML_PopulatesAllFields(t *testing.T) {
	// No indentation at the top level to keep the YAML valid
	path := writeFile(t, "reports.yaml", `server:
  host: "0.0.0.0"
  port: "9090"
upstream:
  base_url: "https://reporting.example.org"
  token: "tok"
  timeout: "5s"
  retry_max: 4
builds:
  db_path: "/var/lib/builds.db"
reports:
  sla_policy: "/etc/sla.ini"
  uptime_series:
    web: ["u-1", "u-2"]
log:
  level: "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())
	assert.Equal(t, "https://reporting.example.org", cfg.Upstream.BaseURL)
	assert.Equal(t, "tok", cfg.Upstream.Token)
	assert.Equal(t, 5*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 4, cfg.Upstream.RetryMax)
	assert.Equal(t, "/var/lib/builds.db", cfg.Builds.DBPath)
	assert.Equal(t, "/etc/sla.ini", cfg.Reports.SLAPolicyPath)
	assert.Equal(t, []string{"u-1", "u-2"}, cfg.Reports.UptimeSeries["web"])
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Addr())
	assert.Equal(t, 2, cfg.Upstream.RetryMax)
	assert.Equal(t, 30*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, []string{"Planned Work"}, cfg.Reports.NoSLATypes)
	assert.Empty(t, cfg.Builds.DBPath)
	assert.Equal(t, 1000, cfg.Sessions.Max)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("REPORTS_UPSTREAM_TOKEN", "from-env")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Upstream.Token)
}

func TestLoad_InvalidYAML_ReturnsError(t *testing.T) {
	path := writeFile(t, "bad.yaml", "server: host: bad: [")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_NegativeRetries(t *testing.T) {
	path := writeFile(t, "retries.yaml", "upstream:\n  retry_max: -1\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_SessionLimit(t *testing.T) {
	path := writeFile(t, "sessions.yaml", "sessions:\n  max: 25\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Sessions.Max)

	path = writeFile(t, "no-sessions.yaml", "sessions:\n  max: 0\n")
	_, err = Load(path)
	assert.Error(t, err)
}

func TestLoadSLAPolicy(t *testing.T) {
	path := writeFile(t, "sla.ini", `respond = 72

[Blocker]
respond = 2
resolve = 24

[Major]
resolve = 96
`)

	policy, err := LoadSLAPolicy(path)
	require.NoError(t, err)

	assert.Equal(t, domain.SLA{Respond: 72, Resolve: 120}, policy.Default)
	assert.Equal(t, domain.SLA{Respond: 2, Resolve: 24}, policy.For("blocker"))
	assert.Equal(t, domain.SLA{Respond: 72, Resolve: 96}, policy.For("MAJOR"))
	assert.Equal(t, domain.SLA{Respond: 72, Resolve: 120}, policy.For("Minor"))
}

func TestLoadSLAPolicy_Errors(t *testing.T) {
	_, err := LoadSLAPolicy(filepath.Join(t.TempDir(), "missing.ini"))
	assert.Error(t, err)

	path := writeFile(t, "zero.ini", "[Minor]\nrespond = 0\n")
	_, err = LoadSLAPolicy(path)
	assert.Error(t, err)
}

func TestDefaultSLAPolicy(t *testing.T) {
	assert.Equal(t, DefaultSLA, DefaultSLAPolicy().For("anything"))
}
