package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	Database struct {
		// URI may contain a <PASSWORD> placeholder substituted from Password.
		URI      string `yaml:"uri" env:"MONGO_URI"`
		Password string `yaml:"password" env:"MONGO_PASSWORD"`
		Name     string `yaml:"name" env:"MONGO_DATABASE"`
	} `yaml:"database"`

	JWT struct {
		Secret            string `yaml:"secret" env:"JWT_SECRET"`
		ExpiresIn         string `yaml:"expires_in" env:"JWT_EXPIRES_IN"`
		CookieExpiresDays int    `yaml:"cookie_expires_days" env:"JWT_COOKIE_EXPIRES_IN"`
		Issuer            string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Email struct {
		Host     string `yaml:"host" env:"EMAIL_HOST"`
		Port     int    `yaml:"port" env:"EMAIL_PORT"`
		Username string `yaml:"username" env:"EMAIL_USERNAME"`
		Password string `yaml:"password" env:"EMAIL_PASSWORD"`
		FromName string `yaml:"from_name" env:"EMAIL_FROM_NAME"`
		From     string `yaml:"from" env:"EMAIL_FROM"`
	} `yaml:"email"`

	RateLimit struct {
		Max    int    `yaml:"max" env:"RATE_LIMIT_MAX"`
		Window string `yaml:"window" env:"RATE_LIMIT_WINDOW"`
	} `yaml:"rate_limit"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// Try to read config file if it exists
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		err = yaml.Unmarshal(file, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	config.Database.URI = "mongodb://localhost:27017"
	config.Database.Name = "trek-tours"

	config.JWT.ExpiresIn = "24h"
	config.JWT.CookieExpiresDays = 90
	config.JWT.Issuer = "trek-tours.app"

	config.Email.Host = "localhost"
	config.Email.Port = 25
	config.Email.FromName = "Trek Tours"
	config.Email.From = "hello@trek-tours.app"

	config.RateLimit.Max = 100
	config.RateLimit.Window = "1h"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.URI == "" {
		return fmt.Errorf("database URI is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.ExpiresIn); err != nil {
		return fmt.Errorf("invalid JWT expiration format: %w", err)
	}

	if _, err := time.ParseDuration(config.RateLimit.Window); err != nil {
		return fmt.Errorf("invalid rate limit window format: %w", err)
	}

	return nil
}

// MongoURI returns the connection string with the password placeholder
// substituted.
func (c *Config) MongoURI() string {
	return strings.Replace(c.Database.URI, "<PASSWORD>", c.Database.Password, 1)
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.ToLower(c.Server.Mode) == "production"
}

// JWTExpiry returns the parsed token lifetime
func (c *Config) JWTExpiry() time.Duration {
	d, err := time.ParseDuration(c.JWT.ExpiresIn)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// RateLimitWindow returns the parsed rate limit window
func (c *Config) RateLimitWindow() time.Duration {
	d, err := time.ParseDuration(c.RateLimit.Window)
	if err != nil {
		return time.Hour
	}
	return d
}
