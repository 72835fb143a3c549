package config

import (
	"time"

	"github.com/aushadhiai/screening-console/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultAPIBaseURL = "https://api.aushadhiai.com"
	DefaultAPITimeout = 60 * time.Second

	DefaultServerHost            = "0.0.0.0"
	DefaultServerPort            = 8080
	DefaultServerReadTimeout     = 15 * time.Second
	DefaultServerWriteTimeout    = 90 * time.Second
	DefaultServerShutdownTimeout = 10 * time.Second

	DefaultLogLevel  = logging.LevelInfo
	DefaultLogFormat = "json"

	DefaultMetricsEnabled   = true
	DefaultMetricsNamespace = "aushadhi"

	DefaultRankingLocale = "en"
)

// ApplyDefaults fills every zero-value field in cfg with its default.
// Explicitly configured values are left unchanged.  Booleans are defaulted
// in the loader, where "unset" can be told apart from false.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── API ───────────────────────────────────────────────────────────────────
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultAPIBaseURL
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = DefaultAPITimeout
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultServerReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultServerWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultServerShutdownTimeout
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Metrics / Ranking ─────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Ranking.Locale == "" {
		cfg.Ranking.Locale = DefaultRankingLocale
	}
}

// Default returns a fully defaulted Config.
func Default() *Config {
	cfg := &Config{Metrics: MetricsConfig{Enabled: DefaultMetricsEnabled}}
	ApplyDefaults(cfg)
	return cfg
}
