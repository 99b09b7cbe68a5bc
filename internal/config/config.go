package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/PabloGalante/tripmate/internal/domain"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

type Config struct {
	Mode Mode `mapstructure:"mode"`

	Port string `mapstructure:"port"`

	Provider    string  `mapstructure:"provider"` // "openai", "gemini", "anthropic" or "mock"
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	BaseURL     string  `mapstructure:"base_url"`
	Temperature float64 `mapstructure:"temperature"`

	GCPProjectID string `mapstructure:"gcp_project"`
	GCPLocation  string `mapstructure:"gcp_location"`

	SessionTTL time.Duration `mapstructure:"session_ttl"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // "json" or "text"

	Trip Trip `mapstructure:"trip"`
}

// Trip holds the default travel settings for new sessions.
type Trip struct {
	Style      string `mapstructure:"style"`
	Budget     int    `mapstructure:"budget"`
	Days       int    `mapstructure:"days"`
	Companions int    `mapstructure:"companions"`
}

// TravelConfig converts the defaults into a domain value.
func (t Trip) TravelConfig() domain.TravelConfig {
	return domain.TravelConfig{
		Style:           domain.TravelStyle(strings.ToLower(t.Style)),
		BudgetPerPerson: t.Budget,
		Days:            t.Days,
		Companions:      t.Companions,
	}
}

func setDefaults(v *viper.Viper) {
	def := domain.DefaultTravelConfig()

	v.SetDefault("mode", string(ModeLocal))
	v.SetDefault("port", "8080")
	v.SetDefault("provider", "openai")
	v.SetDefault("api_key", "")
	v.SetDefault("model", "")
	v.SetDefault("base_url", "")
	v.SetDefault("temperature", 0.7)
	v.SetDefault("gcp_project", "")
	v.SetDefault("gcp_location", "us-central1")
	v.SetDefault("session_ttl", "2h")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("trip.style", string(def.Style))
	v.SetDefault("trip.budget", def.BudgetPerPerson)
	v.SetDefault("trip.days", def.Days)
	v.SetDefault("trip.companions", def.Companions)
}

// Load reads tripmate.yaml (optional) and TRIPMATE_* env vars and builds the config.
// path may name a config file explicitly; when empty the working directory
// and ./config are searched.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("tripmate")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("TRIPMATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived values.
func (c *Config) applyDefaults() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	c.APIKey = strings.TrimSpace(c.APIKey)

	if c.Mode != ModeGCP {
		c.Mode = ModeLocal
	}
	// Vertex AI authenticates with application default credentials, so the
	// dispatch gate only needs a marker.
	if (c.Provider == "gemini" || c.Provider == "vertex") && c.GCPProjectID != "" && c.APIKey == "" {
		c.APIKey = "vertex-adc"
	}
	// The mock provider needs no real key.
	if c.Provider == "mock" && c.APIKey == "" {
		c.APIKey = "mock"
	}
}

// ApplyOverrides sets command-line overrides and re-derives the values that
// depend on them, so a provider chosen by flag gets the same credential
// markers as one read from the environment.
func (c *Config) ApplyOverrides(provider, model string) error {
	if provider != "" {
		c.Provider = provider
	}
	if model != "" {
		c.Model = model
	}
	c.applyDefaults()
	return c.validate()
}

// validate checks that all settings are consistent.
func (c *Config) validate() error {
	var errs []string
	if c.Mode == ModeGCP && c.GCPProjectID == "" {
		errs = append(errs, "gcp_project must be set in gcp mode")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		errs = append(errs, "temperature must be between 0 and 2")
	}
	if c.SessionTTL < 0 {
		errs = append(errs, "session_ttl must not be negative")
	}
	if err := c.Trip.TravelConfig().Validate(); err != nil {
		errs = append(errs, "trip: "+err.Error())
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Configured reports whether a provider credential is available.
func (c *Config) Configured() bool {
	return c.APIKey != ""
}
