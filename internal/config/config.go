package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvProduction represents the production environment.
	EnvProduction = "production"

	// Prefix is prepended to every environment variable name.
	Prefix = "SCOPE"
)

// Config holds all application configuration.
type Config struct {
	Env string `envconfig:"ENV" default:"development"`

	// Instrument settings
	Addr         string        `envconfig:"ADDR" default:"192.168.1.5:5000"`
	TickInterval time.Duration `envconfig:"TICK_INTERVAL" default:"100ms"`
	Timeout      time.Duration `envconfig:"TIMEOUT" default:"2s"`

	// Remote control API, disabled while empty
	APIListen string `envconfig:"API_LISTEN"`

	// Security settings
	HSTSMaxAge int    `envconfig:"HSTS_MAX_AGE" default:"31536000"`
	CSPMode    string `envconfig:"CSP_MODE" default:"strict"`

	// Logging settings
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE" default:"scope.log"`
}

// LoadConfig loads configuration from .env file and environment variables.
func LoadConfig() (*Config, error) {
	// Try to load .env file (optional)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	var config Config
	if err := envconfig.Process(Prefix, &config); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if config.TickInterval <= 0 {
		return nil, fmt.Errorf("%s_TICK_INTERVAL must be positive, got %v", Prefix, config.TickInterval)
	}

	return &config, nil
}

// BuildCSP constructs Content Security Policy based on mode. The API only
// serves JSON, so the strict policy forbids everything.
func BuildCSP(mode string) string {
	if mode == "strict" {
		return "default-src 'none'; frame-ancestors 'none'; base-uri 'none'"
	}

	return "default-src 'self'; " +
		"style-src 'self' 'unsafe-inline'; " +
		"img-src 'self' data:"
}
