// Package config loads the server configuration.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// environment variables, then validation.
package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	goerrors "github.com/goliatone/go-errors"
	"gopkg.in/yaml.v3"
)

// EnvTest is the APP_ENV value that switches to the test database
const EnvTest = "test"

type Config struct {
	Env         string            `yaml:"env" env:"APP_ENV"`
	Debug       bool              `yaml:"debug" env:"DEBUG"`
	Server      ServerConfig      `yaml:"server"`
	Auth        AuthConfig        `yaml:"auth"`
	Persistence PersistenceConfig `yaml:"persistence"`
	Logging     LoggingConfig     `yaml:"logging"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" env:"PORT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// AuthConfig holds the token options
type AuthConfig struct {
	Secret   string        `yaml:"secret" env:"SECRET"`
	TokenTTL time.Duration `yaml:"token_ttl" env:"TOKEN_TTL"`
	Issuer   string        `yaml:"issuer" env:"TOKEN_ISSUER"`
}

func (a AuthConfig) GetSigningKey() string {
	return a.Secret
}

func (a AuthConfig) GetTokenTTL() time.Duration {
	return a.TokenTTL
}

func (a AuthConfig) GetIssuer() string {
	return a.Issuer
}

type PersistenceConfig struct {
	DSN       string `yaml:"dsn" env:"DATABASE_DSN"`
	TestDSN   string `yaml:"test_dsn" env:"TEST_DATABASE_DSN"`
	UseHashid bool   `yaml:"use_hashid" env:"USE_HASHID"`
}

type LoggingConfig struct {
	Format string `yaml:"format" env:"LOG_FORMAT"`
	Level  string `yaml:"level" env:"LOG_LEVEL"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED"`
	Path    string `yaml:"path" env:"METRICS_PATH"`
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:            3003,
			ShutdownTimeout: 10 * time.Second,
		},
		Auth: AuthConfig{
			TokenTTL: time.Hour,
		},
		Persistence: PersistenceConfig{
			DSN:     "file:bloglist.db?cache=shared",
			TestDSN: "file:bloglist_test?mode=memory&cache=shared",
		},
		Logging: LoggingConfig{
			Format: "text",
			Level:  "info",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Load reads the YAML file at path, when given, and applies environment
// overrides on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if err := loadYAMLFile(path, &cfg); err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load config file").
				WithMetadata(map[string]any{"path": path})
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "failed to parse environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate reports the first invalid option
func (c Config) Validate() error {
	if c.Auth.Secret == "" {
		return goerrors.New("auth.secret is required", goerrors.CategoryValidation).
			WithTextCode("CONFIG_INVALID")
	}

	if c.Auth.TokenTTL < 0 {
		return goerrors.New("auth.token_ttl must not be negative", goerrors.CategoryValidation).
			WithTextCode("CONFIG_INVALID")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return goerrors.New("server.port must be between 1 and 65535", goerrors.CategoryValidation).
			WithTextCode("CONFIG_INVALID")
	}

	if c.ActiveDSN() == "" {
		return goerrors.New("persistence.dsn is required", goerrors.CategoryValidation).
			WithTextCode("CONFIG_INVALID")
	}

	return nil
}

// ActiveDSN is the test DSN when running with APP_ENV=test
func (c Config) ActiveDSN() string {
	if c.Env == EnvTest {
		return c.Persistence.TestDSN
	}
	return c.Persistence.DSN
}
