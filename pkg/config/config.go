package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/goliatone/go-config/cfgx"
)

// Config captures module-level configuration knobs. Feature packages (keys,
// alerts, forecast, storage) pull from these nested structs.
type Config struct {
	Persistence PersistenceConfig `mapstructure:"persistence" json:"persistence"`
	Keys        KeysConfig        `mapstructure:"keys" json:"keys"`
	Credentials CredentialsConfig `mapstructure:"credentials" json:"credentials"`
	Dashboard   DashboardConfig   `mapstructure:"dashboard" json:"dashboard"`
	Alerts      AlertsConfig      `mapstructure:"alerts" json:"alerts"`
}

// PersistenceConfig selects the SQLite database location.
type PersistenceConfig struct {
	DSN string `mapstructure:"dsn" json:"dsn"`
}

// KeysConfig governs the API key resolver.
type KeysConfig struct {
	MaxSessions     int    `mapstructure:"max_sessions" json:"max_sessions"`
	PlatformSecrets string `mapstructure:"platform_secrets" json:"platform_secrets"`
}

// CredentialsConfig holds the encryption key for the credential store.
type CredentialsConfig struct {
	EncryptionKey string `mapstructure:"encryption_key" json:"encryption_key"`
}

// DashboardConfig controls presentation defaults.
type DashboardConfig struct {
	Currency       string        `mapstructure:"currency" json:"currency"`
	ForecastMonths int           `mapstructure:"forecast_months" json:"forecast_months"`
	FxMaxAge       time.Duration `mapstructure:"fx_max_age" json:"fx_max_age"`
}

// AlertsConfig configures low-balance email alerts.
type AlertsConfig struct {
	Enabled        bool   `mapstructure:"enabled" json:"enabled"`
	From           string `mapstructure:"from" json:"from"`
	Region         string `mapstructure:"region" json:"region"`
	ThresholdCents int64  `mapstructure:"threshold_cents" json:"threshold_cents"`
	DryRun         bool   `mapstructure:"dry_run" json:"dry_run"`
}

// Defaults returns the baseline configuration.
func Defaults() Config {
	return Config{
		Persistence: PersistenceConfig{DSN: "file:cashflow.db?cache=shared"},
		Keys: KeysConfig{
			MaxSessions:     256,
			PlatformSecrets: "",
		},
		Dashboard: DashboardConfig{
			Currency:       "USD",
			ForecastMonths: 6,
			FxMaxAge:       72 * time.Hour,
		},
		Alerts: AlertsConfig{
			Enabled: false,
			DryRun:  true,
		},
	}
}

// Validate ensures required fields are present and sane.
func (c *Config) Validate() error {
	if c.Persistence.DSN == "" {
		return errors.New("persistence.dsn is required")
	}
	if c.Keys.MaxSessions <= 0 {
		return fmt.Errorf("keys.max_sessions must be > 0")
	}
	if c.Dashboard.ForecastMonths <= 0 {
		return fmt.Errorf("dashboard.forecast_months must be > 0")
	}
	if c.Dashboard.FxMaxAge < 0 {
		return fmt.Errorf("dashboard.fx_max_age must be >= 0")
	}
	if c.Alerts.Enabled && c.Alerts.From == "" {
		return errors.New("alerts.from is required when alerts are enabled")
	}
	return nil
}

// Load decodes arbitrary input (struct, map, cfg struct) using cfgx helpers.
// While cfgx.Build still returns zero values, we fallback to a lightweight
// decoder to keep smoke tests meaningful.
func Load(input any, opts ...LoadOption) (Config, error) {
	settings := loadOptions{}
	for _, opt := range opts {
		opt(&settings)
	}

	cfg, err := cfgx.Build(input, settings.buildOpts...)
	if err != nil {
		return Config{}, err
	}

	if isZero(cfg) {
		if err := decodeFallback(input, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg = cfg.withDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadOption lets callers amend cfgx build options.
type LoadOption func(*loadOptions)

type loadOptions struct {
	buildOpts []cfgx.Option[Config]
}

// WithBuildOptions forwards cfgx options (duration hooks, preprocessors, etc.).
func WithBuildOptions(opts ...cfgx.Option[Config]) LoadOption {
	return func(lo *loadOptions) {
		lo.buildOpts = append(lo.buildOpts, opts...)
	}
}

func (c Config) withDefaults() Config {
	defaults := Defaults()

	if c.Persistence.DSN == "" {
		c.Persistence.DSN = defaults.Persistence.DSN
	}
	if c.Keys.MaxSessions == 0 {
		c.Keys.MaxSessions = defaults.Keys.MaxSessions
	}
	if c.Dashboard.Currency == "" {
		c.Dashboard.Currency = defaults.Dashboard.Currency
	}
	if c.Dashboard.ForecastMonths == 0 {
		c.Dashboard.ForecastMonths = defaults.Dashboard.ForecastMonths
	}
	if c.Dashboard.FxMaxAge == 0 {
		c.Dashboard.FxMaxAge = defaults.Dashboard.FxMaxAge
	}
	return c
}

func isZero(cfg Config) bool {
	return reflect.DeepEqual(cfg, Config{})
}

func decodeFallback(input any, cfg *Config) error {
	switch v := input.(type) {
	case nil:
		return nil
	case Config:
		*cfg = v
		return nil
	case *Config:
		if v != nil {
			*cfg = *v
		}
		return nil
	case map[string]any:
		return decodeMap(v, cfg)
	default:
		return fmt.Errorf("unsupported config input type: %T", input)
	}
}

func decodeMap(input map[string]any, cfg *Config) error {
	if input == nil {
		return nil
	}
	payload, err := json.Marshal(input)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, cfg)
}
