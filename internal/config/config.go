// Package config provides configuration management for the ONES Wiki MCP
// Server. It supports loading configuration from command-line flags, a
// config file, and environment variables, with proper precedence handling.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration settings for the ONES Wiki MCP Server.
type Config struct {
	// ONES backend settings
	OnesHost     string // Hostname of the ONES instance, without scheme (e.g. "ones.example.com")
	OnesEmail    string // Login email for the ONES account
	OnesPassword string // Login password for the ONES account

	// Server settings
	LogLevel      string // Log level: debug, info, warn, error (default: info)
	FetchTimeout  int    // Timeout for HTTP requests in seconds (default: 30)
	MaxConcurrent int    // Maximum concurrent outbound requests (default: 5)
	RenderMode    string // Content rendering mode: text, markdown (default: text)

	// Transport settings
	Transport     string // MCP transport: stdio, sse, streamablehttp (default: stdio)
	TransportHost string // Bind host for network transports (default: localhost)
	TransportPort int    // Bind port for network transports (required for sse/streamablehttp)
}

// NewConfig creates a new Config with default values for all optional
// parameters. Credentials have no defaults and must be supplied.
func NewConfig() *Config {
	return &Config{
		LogLevel:      "info",
		FetchTimeout:  30,
		MaxConcurrent: 5,
		RenderMode:    "text",
		Transport:     "stdio",
		TransportHost: "localhost",
		TransportPort: 0,
	}
}

// Load loads configuration from environment variables with defaults.
func Load() (*Config, error) {
	cfg := NewConfig()
	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file, with environment
// variables as fallback, and defaults as final fallback.
// The precedence order is: config file > environment variables > defaults.
func LoadFromFile(configPath string) (*Config, error) {
	cfg := NewConfig()
	loadFromEnv(cfg)

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if v.IsSet("ones_host") {
		cfg.OnesHost = v.GetString("ones_host")
	}
	if v.IsSet("ones_email") {
		cfg.OnesEmail = v.GetString("ones_email")
	}
	if v.IsSet("ones_password") {
		cfg.OnesPassword = v.GetString("ones_password")
	}
	if v.IsSet("log_level") {
		cfg.LogLevel = v.GetString("log_level")
	}
	if v.IsSet("fetch_timeout") {
		cfg.FetchTimeout = v.GetInt("fetch_timeout")
	}
	if v.IsSet("max_concurrent") {
		cfg.MaxConcurrent = v.GetInt("max_concurrent")
	}
	if v.IsSet("render_mode") {
		cfg.RenderMode = v.GetString("render_mode")
	}
	if v.IsSet("transport") {
		cfg.Transport = v.GetString("transport")
	}
	if v.IsSet("transport_host") {
		cfg.TransportHost = v.GetString("transport_host")
	}
	if v.IsSet("transport_port") {
		cfg.TransportPort = v.GetInt("transport_port")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromEnv loads configuration from environment variables into the
// provided Config.
func loadFromEnv(cfg *Config) {
	if val := os.Getenv("ONES_HOST"); val != "" {
		cfg.OnesHost = val
	}
	if val := os.Getenv("ONES_EMAIL"); val != "" {
		cfg.OnesEmail = val
	}
	if val := os.Getenv("ONES_PASSWORD"); val != "" {
		cfg.OnesPassword = val
	}
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		cfg.LogLevel = val
	}
	if val := os.Getenv("FETCH_TIMEOUT"); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			cfg.FetchTimeout = intVal
		}
	}
	if val := os.Getenv("MAX_CONCURRENT"); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			cfg.MaxConcurrent = intVal
		}
	}
	if val := os.Getenv("RENDER_MODE"); val != "" {
		cfg.RenderMode = val
	}
	if val := os.Getenv("TRANSPORT"); val != "" {
		cfg.Transport = val
	}
	if val := os.Getenv("TRANSPORT_HOST"); val != "" {
		cfg.TransportHost = val
	}
	if val := os.Getenv("TRANSPORT_PORT"); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			cfg.TransportPort = intVal
		}
	}
}

// Validate validates all configuration values and returns descriptive errors
// for any invalid settings. This should be called after loading configuration
// to ensure the server doesn't start with invalid configuration.
func (c *Config) Validate() error {
	var errors []string

	if c.OnesHost == "" {
		errors = append(errors, "ones_host cannot be empty")
	} else if strings.Contains(c.OnesHost, "://") {
		errors = append(errors, fmt.Sprintf("ones_host must be a bare hostname without scheme, got: %s", c.OnesHost))
	}
	if c.OnesEmail == "" {
		errors = append(errors, "ones_email cannot be empty")
	}
	if c.OnesPassword == "" {
		errors = append(errors, "ones_password cannot be empty")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel))
	}

	if c.FetchTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("fetch_timeout must be positive, got: %d", c.FetchTimeout))
	}
	if c.MaxConcurrent <= 0 {
		errors = append(errors, fmt.Sprintf("max_concurrent must be positive, got: %d", c.MaxConcurrent))
	}

	if c.RenderMode != "text" && c.RenderMode != "markdown" {
		errors = append(errors, fmt.Sprintf("invalid render mode: %s (must be one of: text, markdown)", c.RenderMode))
	}

	if err := c.ValidateTransport(); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}
	return nil
}

// ValidateTransport validates the transport type and its required settings.
// Network transports (sse, streamablehttp) require a port.
func (c *Config) ValidateTransport() error {
	switch c.Transport {
	case "stdio":
		return nil
	case "sse", "streamablehttp":
		if c.TransportPort <= 0 || c.TransportPort > 65535 {
			return fmt.Errorf("transport_port must be between 1 and 65535 for %s transport, got: %d", c.Transport, c.TransportPort)
		}
		if c.TransportHost == "" {
			return fmt.Errorf("transport_host cannot be empty for %s transport", c.Transport)
		}
		return nil
	default:
		return fmt.Errorf("unsupported transport type: %s (must be one of: stdio, sse, streamablehttp)", c.Transport)
	}
}

// GetTransportType returns the configured transport type.
func (c *Config) GetTransportType() string {
	return c.Transport
}

// GetPort returns the configured transport port.
func (c *Config) GetPort() int {
	return c.TransportPort
}

// GetTransportAddress returns the bind address for network transports, or
// an empty string for stdio.
func (c *Config) GetTransportAddress() string {
	if c.Transport == "stdio" {
		return ""
	}
	return fmt.Sprintf("%s:%d", c.TransportHost, c.TransportPort)
}
