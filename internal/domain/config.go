package domain

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultEndpoint is Linear's public GraphQL endpoint.
	DefaultEndpoint = "https://api.linear.app/graphql"

	// DefaultTimeout bounds a single GraphQL round trip.
	DefaultTimeout = 30 * time.Second
)

// Config represents the server configuration loaded from YAML.
type Config struct {
	Transport TransportConfig `yaml:"transport"`
	Linear    LinearConfig    `yaml:"linear"`
	Log       LogConfig       `yaml:"log"`
}

// TransportConfig defines transport settings.
type TransportConfig struct {
	Type string     `yaml:"type"` // "stdio" or "http"
	HTTP HTTPConfig `yaml:"http,omitempty"`
}

// HTTPConfig defines HTTP transport settings.
// Only used when transport type is "http".
type HTTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// LinearConfig points the server at a Linear workspace.
type LinearConfig struct {
	Endpoint string        `yaml:"endpoint,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty"`
	Auth     *AuthConfig   `yaml:"auth,omitempty"` // Optional - if not provided, callers must pass auth per call
}

// AuthConfig defines default Linear credentials. When Token is empty and
// KeyringAccount is set, the token is read from the OS keychain.
type AuthConfig struct {
	Type           string `yaml:"type"` // "api_key" or "oauth"
	Token          string `yaml:"token"`
	KeyringAccount string `yaml:"keyring_account,omitempty"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level string `yaml:"level,omitempty"` // debug, info, warn, error
}

// AuthType defines supported authentication methods.
type AuthType int

const (
	// APIKeyAuth sends a personal API key as the raw Authorization header.
	APIKeyAuth AuthType = iota
	// OAuthAuth sends an OAuth access token as a Bearer token.
	OAuthAuth
)

// String returns the string representation of AuthType.
func (a AuthType) String() string {
	switch a {
	case APIKeyAuth:
		return "api_key"
	case OAuthAuth:
		return "oauth"
	default:
		return "unknown"
	}
}

// ParseAuthType converts a string to AuthType. Unknown values fall back to
// API key auth.
func ParseAuthType(s string) AuthType {
	switch s {
	case "oauth":
		return OAuthAuth
	default:
		return APIKeyAuth
	}
}

// LoadConfig reads, expands and validates a configuration file. Files
// ending in .toml are read as TOML, everything else as YAML.
// ${VAR} references are replaced from the environment before parsing so
// tokens can stay out of the file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return ParseTOMLConfig(data)
	}
	return ParseConfig(data)
}

// ParseConfig parses and validates configuration from raw YAML.
func ParseConfig(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("invalid YAML syntax in configuration file: %w", err)
	}

	return finishConfig(&config)
}

// ParseTOMLConfig parses and validates configuration from raw TOML. The
// document uses the same keys as the YAML form.
func ParseTOMLConfig(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var raw map[string]any
	if err := toml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("invalid TOML syntax in configuration file: %w", err)
	}

	// Round-trip through YAML so both formats share one set of struct tags
	// and duration parsing.
	converted, err := yaml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to convert TOML configuration: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(converted, &config); err != nil {
		return nil, fmt.Errorf("invalid configuration values: %w", err)
	}

	return finishConfig(&config)
}

func finishConfig(config *Config) (*Config, error) {
	config.ApplyDefaults()

	if err := config.resolveKeyringToken(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// resolveKeyringToken fills an empty token from the OS keychain.
func (c *Config) resolveKeyringToken() error {
	auth := c.Linear.Auth
	if auth == nil || auth.Token != "" || auth.KeyringAccount == "" {
		return nil
	}

	token, err := LoadKeyringToken(auth.KeyringAccount)
	if err != nil {
		return err
	}
	auth.Token = token
	return nil
}

// ApplyDefaults fills in optional settings that were left empty.
// An auth block whose token expanded to nothing is dropped so that the
// server starts without default credentials.
func (c *Config) ApplyDefaults() {
	if c.Linear.Endpoint == "" {
		c.Linear.Endpoint = DefaultEndpoint
	}
	if c.Linear.Timeout == 0 {
		c.Linear.Timeout = DefaultTimeout
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if auth := c.Linear.Auth; auth != nil {
		if auth.Type == "" && auth.Token == "" && auth.KeyringAccount == "" {
			c.Linear.Auth = nil
		} else if auth.Type == "" && auth.KeyringAccount != "" {
			auth.Type = "api_key"
		}
	}
}

// Validate checks the configuration for completeness and correctness.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errors []string

	if err := c.validateTransport(); err != nil {
		errors = append(errors, err.Error())
	}

	if err := c.Linear.Validate(); err != nil {
		errors = append(errors, err.Error())
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.Log.Level))
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// validateTransport validates the transport configuration.
func (c *Config) validateTransport() error {
	var errors []string

	if c.Transport.Type == "" {
		errors = append(errors, "transport type is required")
	} else if c.Transport.Type != "stdio" && c.Transport.Type != "http" {
		errors = append(errors, fmt.Sprintf("invalid transport type '%s': must be 'stdio' or 'http'", c.Transport.Type))
	}

	if c.Transport.Type == "http" {
		if c.Transport.HTTP.Host == "" {
			errors = append(errors, "HTTP host is required when transport type is 'http'")
		}
		if c.Transport.HTTP.Port <= 0 || c.Transport.HTTP.Port > 65535 {
			errors = append(errors, fmt.Sprintf("invalid HTTP port %d: must be between 1 and 65535", c.Transport.HTTP.Port))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}

	return nil
}

// Validate validates the Linear section.
func (lc *LinearConfig) Validate() error {
	var errors []string

	if lc.Endpoint == "" {
		errors = append(errors, "linear endpoint is required")
	} else {
		parsedURL, err := url.Parse(lc.Endpoint)
		if err != nil {
			errors = append(errors, fmt.Sprintf("linear endpoint is invalid: %v", err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, "linear endpoint must use http or https scheme")
		} else if parsedURL.Host == "" {
			errors = append(errors, "linear endpoint must include a host")
		}
	}

	if lc.Timeout < 0 {
		errors = append(errors, fmt.Sprintf("linear timeout %s must not be negative", lc.Timeout))
	}

	if lc.Auth != nil {
		if err := lc.Auth.Validate(); err != nil {
			errors = append(errors, err.Error())
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}

	return nil
}

// Validate validates authentication configuration.
func (ac *AuthConfig) Validate() error {
	var errors []string

	if ac.Type == "" {
		errors = append(errors, "linear auth type is required")
	} else if ac.Type != "api_key" && ac.Type != "oauth" {
		errors = append(errors, fmt.Sprintf("linear auth type '%s' is invalid: must be 'api_key' or 'oauth'", ac.Type))
	}

	if ac.Token == "" {
		errors = append(errors, "linear auth token is required")
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}

	return nil
}
