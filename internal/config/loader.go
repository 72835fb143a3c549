// Package config provides configuration loading, defaults, and validation for
// the screening console.
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/aushadhiai/screening-console/pkg/errors"
)

// envPrefix is the environment variable prefix used by all console settings.
const envPrefix = "AUSHADHI"

// legacyBaseURLEnv is the variable the web front end read the backend
// address from.  It is honoured after AUSHADHI_API_BASE_URL.
const legacyBaseURLEnv = "NEXT_PUBLIC_API_URL"

// Sentinel errors, matched with errors.Is.
var (
	ErrConfigFileNotFound = errors.New(errors.CodeInvalidConfig, "config file not found")
	ErrConfigParseError   = errors.New(errors.CodeInvalidConfig, "config file could not be parsed")
	ErrConfigValidation   = errors.New(errors.CodeInvalidConfig, "config validation failed")
)

// LoadOption customises Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	path string
}

// WithConfigPath reads a YAML file in addition to the environment.
func WithConfigPath(path string) LoadOption {
	return func(o *loadOptions) { o.path = path }
}

// newViper builds a Viper instance with YAML, the AUSHADHI_ env prefix, and a
// "." → "_" replacer so "api.base_url" resolves to AUSHADHI_API_BASE_URL.
// Every key gets a default so AutomaticEnv also works without a file.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("api.user_agent", "")
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("log.level", string(d.Log.Level))
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
	v.SetDefault("ranking.locale", d.Ranking.Locale)

	_ = v.BindEnv("api.base_url", envPrefix+"_API_BASE_URL", legacyBaseURLEnv)
	return v
}

// Load merges the optional YAML file with AUSHADHI_* environment overrides,
// applies defaults and validates the result.
func Load(opts ...LoadOption) (*Config, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	v := newViper()
	if o.path != "" {
		v.SetConfigFile(o.path)
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if stderrors.As(err, &nf) || stderrors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrConfigFileNotFound, o.path)
			}
			return nil, fmt.Errorf("%w: %s: %v", ErrConfigParseError, o.path, err)
		}
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from AUSHADHI_* variables and defaults only.
func LoadFromEnv() (*Config, error) {
	return Load()
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParseError, err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigValidation, err)
	}
	return cfg, nil
}

// Watch re-reads configPath whenever it changes on disk and calls onChange
// with the new Config.  Changes that fail to parse or validate are passed to
// onError, when non-nil, and otherwise dropped.  The initial read error, if
// any, is returned.
func Watch(configPath string, onChange func(*Config), onError func(error)) error {
	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrConfigParseError, configPath, err)
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

// MustLoad wraps Load and panics on error.  For main() only.
func MustLoad(opts ...LoadOption) *Config {
	cfg, err := Load(opts...)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
