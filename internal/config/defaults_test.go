package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultAPIBaseURL, cfg.API.BaseURL)
	assert.Equal(t, DefaultAPITimeout, cfg.API.Timeout)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultServerShutdownTimeout, cfg.Server.ShutdownTimeout)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
	assert.Equal(t, DefaultMetricsNamespace, cfg.Metrics.Namespace)
	assert.Equal(t, DefaultRankingLocale, cfg.Ranking.Locale)
	assert.False(t, cfg.Metrics.Enabled, "booleans are defaulted by the loader")
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		API:    APIConfig{BaseURL: "http://localhost:8000", Timeout: 5 * time.Second},
		Server: ServerConfig{Port: 9999},
	}
	ApplyDefaults(cfg)

	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestApplyDefaults_Nil(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

func TestDefault_EnablesMetrics(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.Metrics.Enabled)
	assert.NoError(t, cfg.Validate())
}
