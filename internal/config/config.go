// Package config loads settings from defaults, an optional YAML file and the
// environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ntpc-opendata/ntpc-opendata/internal/opendata"
)

// Environment variables read by Load.
const (
	EnvConfigPath   = "NTPC_CONFIG"
	EnvBaseURL      = "NTPC_OPENDATA_BASE_URL"
	EnvAPIKey       = "NTPC_OPENDATA_API_KEY"
	EnvTimeout      = "REQUEST_TIMEOUT"
	EnvRetries      = "NTPC_OPENDATA_RETRIES"
	EnvLogLevel     = "LOG_LEVEL"
	EnvPort         = "APP_PORT"
	EnvAppEnv       = "APP_ENV"
	EnvRequireTLS   = "REQUIRE_TLS"
	EnvOTelEnabled  = "OTEL_ENABLED"
	EnvOTelEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
)

// Config is the full application configuration.
type Config struct {
	App       AppConfig       `yaml:"app"`
	OpenData  OpenDataConfig  `yaml:"opendata"`
	Log       LogConfig       `yaml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// AppConfig configures the tool service process.
type AppConfig struct {
	Port int    `yaml:"port" validate:"min=1,max=65535"`
	Env  string `yaml:"env" validate:"required"`

	// RequireTLS rejects requests a proxy reports as plain HTTP.
	RequireTLS bool `yaml:"require_tls"`
}

// OpenDataConfig configures the upstream client.
type OpenDataConfig struct {
	BaseURL string        `yaml:"base_url" validate:"required,url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
	Retries uint64        `yaml:"retries" validate:"lte=10"`

	// Resources overrides or adds dataset IDs by catalog name.
	Resources map[string]string `yaml:"resources"`
}

// LogConfig configures zerolog.
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=trace debug info warn error"`
}

// TelemetryConfig configures OpenTelemetry export.
type TelemetryConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint" validate:"required_if=Enabled true"`
	SampleRatio float64 `yaml:"sample_ratio" validate:"gte=0,lte=1"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		App: AppConfig{
			Port: 8080,
			Env:  "development",
		},
		OpenData: OpenDataConfig{
			BaseURL: opendata.DefaultBaseURL,
			Timeout: opendata.DefaultTimeout,
		},
		Log: LogConfig{
			Level: "info",
		},
		Telemetry: TelemetryConfig{
			Endpoint:    "localhost:4317",
			SampleRatio: 1,
		},
	}
}

// Load builds the configuration. path names a YAML file; when empty the
// NTPC_CONFIG variable is consulted, and without either only defaults and the
// environment apply. A named file that does not exist is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := getEnv(EnvBaseURL); v != "" {
		c.OpenData.BaseURL = v
	}
	if v := getEnv(EnvAPIKey); v != "" {
		c.OpenData.APIKey = v
	}
	if v := getEnv(EnvTimeout); v != "" {
		secs, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvTimeout, err)
		}
		c.OpenData.Timeout = time.Duration(secs * float64(time.Second))
	}
	if v := getEnv(EnvRetries); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvRetries, err)
		}
		c.OpenData.Retries = n
	}
	if v := getEnv(EnvLogLevel); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := getEnv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvPort, err)
		}
		c.App.Port = port
	}
	if v := getEnv(EnvAppEnv); v != "" {
		c.App.Env = v
	}
	if v := getEnv(EnvRequireTLS); v != "" {
		c.App.RequireTLS = v == "true"
	}
	if v := getEnv(EnvOTelEnabled); v != "" {
		c.Telemetry.Enabled = v == "true"
	}
	if v := getEnv(EnvOTelEndpoint); v != "" {
		c.Telemetry.Endpoint = v
	}
	return nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
