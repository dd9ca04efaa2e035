package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const EnvPrefix = "REPORTS"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Builds   BuildsConfig   `mapstructure:"builds"`
	Reports  ReportsConfig  `mapstructure:"reports"`
	Sessions SessionsConfig `mapstructure:"sessions"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type UpstreamConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Token    string        `mapstructure:"token"`
	Timeout  time.Duration `mapstructure:"timeout"`
	RetryMax int           `mapstructure:"retry_max"`
}

// BuildsConfig points at a local SQLite database of CI runs. When DBPath is
// empty, build statistics are fetched from the upstream API like any other
// report.
type BuildsConfig struct {
	DBPath string `mapstructure:"db_path"`
}

type ReportsConfig struct {
	SLAPolicyPath string   `mapstructure:"sla_policy"`
	NoSLATypes    []string `mapstructure:"no_sla_types"`
	// UptimeSeries maps a service category to the monitored host IDs it
	// collates. Category names are lowercased by the config loader.
	UptimeSeries map[string][]string `mapstructure:"uptime_series"`
}

// SessionsConfig bounds the number of report sessions the web server keeps
// in memory. The oldest session is dropped once Max is reached.
type SessionsConfig struct {
	Max int `mapstructure:"max"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("upstream.base_url", "http://127.0.0.1:8000")
	v.SetDefault("upstream.token", "")
	v.SetDefault("upstream.timeout", "30s")
	v.SetDefault("upstream.retry_max", 2)
	v.SetDefault("builds.db_path", "")
	v.SetDefault("reports.sla_policy", "")
	v.SetDefault("reports.no_sla_types", []string{"Planned Work"})
	v.SetDefault("reports.uptime_series", map[string][]string{})
	v.SetDefault("sessions.max", 1000)
	v.SetDefault("log.level", "info")
}

// Load reads the YAML config at path. An empty path loads defaults only.
// Any key may be overridden from the environment, e.g. REPORTS_UPSTREAM_TOKEN.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Upstream.RetryMax < 0 {
		return nil, fmt.Errorf("upstream.retry_max must not be negative, got %d", cfg.Upstream.RetryMax)
	}
	if cfg.Sessions.Max <= 0 {
		return nil, fmt.Errorf("sessions.max must be positive, got %d", cfg.Sessions.Max)
	}
	return &cfg, nil
}

// Addr is the listen address of the web server.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// LogLevel parses the configured level, falling back to info.
func (c *Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level))
	if err != nil || c.Log.Level == "" {
		return zerolog.InfoLevel
	}
	return level
}
