// Package config manages environment variables.
//
// It reads variable from the `.env` file,
// loads them into structured Go types (struct), and
// validates that required values are present so they
// can be reused accross the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for everything, so the service boots with no env at all.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: triggers godotenv's autoload feature.
	// If a `.env` file exists, it gets loaded into the process env
	// before any env var is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	`koanf` reads config sources (here: the process environment) into a flat
	key/value store and then unmarshals it into the Config structs.

	Key idea in this file:
	- Env vars are read using a prefix: SIMULACAO_
	- Keys are normalized (lowercased, prefix removed)
	- A double underscore marks nesting, so
	  SIMULACAO_SERVER__PORT -> server.port -> Config.Server.Port
	  SIMULACAO_SERVER__RATE_LIMIT__ENABLED -> server.rate_limit.enabled
*/

// EnvPrefix is the prefix every configuration env var must carry.
const EnvPrefix = "SIMULACAO_"

// ServiceName identifies this service in logs and New Relic.
const ServiceName = "simulacao-api"

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags specify where koanf should map values from.
// The `validate:"required"` tags are used by go-playground/validator
// to enforce that the config is present and populated.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
// Usually used to tag logs/traces and switch behavior based on env.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are plain ints interpreted as seconds by server.SetupHTTPServer.
type ServerConfig struct {
	Port         string `koanf:"port" validate:"required"`
	ReadTimeout  int    `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout int    `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout  int    `koanf:"idle_timeout" validate:"required,min=1"`

	// CORSAllowedOrigins is a comma separated list in env form.
	// "*" allows every origin.
	CORSAllowedOrigins   []string `koanf:"cors_allowed_origins" validate:"required,min=1"`
	CORSAllowCredentials bool     `koanf:"cors_allow_credentials"`

	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

// RateLimitConfig configures the per-IP limiter in front of the simulation route.
type RateLimitConfig struct {
	Enabled bool `koanf:"enabled"`

	// Rate is the number of requests per second allowed per client.
	Rate float64 `koanf:"rate" validate:"gte=0"`

	// Burst is the bucket size; 0 means "same as rate".
	Burst int `koanf:"burst" validate:"gte=0"`

	// ExpiresIn is how long an idle client entry is kept in memory.
	ExpiresIn time.Duration `koanf:"expires_in" validate:"gte=0"`
}

// DefaultConfig returns a configuration that boots a local server with no env.
//
// LoadConfig unmarshals the environment on top of these values, so any
// key that is not set keeps its default.
func DefaultConfig() *Config {
	return &Config{
		Primary: Primary{
			Env: "development",
		},
		Server: ServerConfig{
			Port:                 "8000",
			ReadTimeout:          30,
			WriteTimeout:         30,
			IdleTimeout:          60,
			CORSAllowedOrigins:   []string{"*"},
			CORSAllowCredentials: true,
			RateLimit: RateLimitConfig{
				Enabled:   false,
				Rate:      10,
				Burst:     20,
				ExpiresIn: 3 * time.Minute,
			},
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// envKey maps a raw env var name into a koanf key path.
//
//	SIMULACAO_SERVER__READ_TIMEOUT -> server.read_timeout
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// LoadConfig loads configuration from environment variables, unmarshals it
// on top of DefaultConfig, validates it and returns the resulting config.
//
// Behavior summary:
//   - Loads env vars with prefix SIMULACAO_
//   - Converts env keys into koanf keys using "__" as nesting marker
//   - Unmarshals into Config (defaults survive for unset keys)
//   - Validates required config blocks/fields
//   - Forces observability service name + environment
//   - Validates observability config as well
func LoadConfig() (*Config, error) {
	// The "." is the key-path delimiter koanf uses to represent nesting.
	k := koanf.New(".")

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := DefaultConfig()

	// Unmarshal from the root. koanf's default decoder config handles
	// "a,b" -> []string and "3m" -> time.Duration.
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Force service name and environment values regardless of what user set.
	// This keeps tracing/logging naming consistent.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// AllowsAllOrigins reports whether the CORS origin list contains the wildcard.
func (s ServerConfig) AllowsAllOrigins() bool {
	for _, origin := range s.CORSAllowedOrigins {
		if strings.TrimSpace(origin) == "*" {
			return true
		}
	}
	return false
}
