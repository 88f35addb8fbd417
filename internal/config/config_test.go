package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := NewConfig()
	cfg.OnesHost = "ones.example.com"
	cfg.OnesEmail = "user@example.com"
	cfg.OnesPassword = "secret"
	return cfg
}

// TestNewConfig_Defaults tests default values for optional settings
func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level 'info', got %s", cfg.LogLevel)
	}
	if cfg.FetchTimeout != 30 {
		t.Errorf("Expected default fetch timeout 30, got %d", cfg.FetchTimeout)
	}
	if cfg.MaxConcurrent != 5 {
		t.Errorf("Expected default max concurrent 5, got %d", cfg.MaxConcurrent)
	}
	if cfg.RenderMode != "text" {
		t.Errorf("Expected default render mode 'text', got %s", cfg.RenderMode)
	}
	if cfg.Transport != "stdio" {
		t.Errorf("Expected default transport 'stdio', got %s", cfg.Transport)
	}
}

// TestValidate_RequiresCredentials tests that host/email/password are
// mandatory
func TestValidate_RequiresCredentials(t *testing.T) {
	err := NewConfig().Validate()
	if err == nil {
		t.Fatal("Expected validation failure without credentials")
	}
	for _, want := range []string{"ones_host", "ones_email", "ones_password"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected %s in validation error, got: %v", want, err)
		}
	}
}

// TestValidate_HostWithoutScheme tests rejection of scheme-prefixed hosts
func TestValidate_HostWithoutScheme(t *testing.T) {
	cfg := validConfig()
	cfg.OnesHost = "https://ones.example.com"

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "bare hostname") {
		t.Errorf("Expected bare hostname error, got: %v", err)
	}
}

// TestValidate_CollectsAllErrors tests that every invalid setting is
// reported at once
func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.LogLevel = "loud"
	cfg.FetchTimeout = -1
	cfg.RenderMode = "pdf"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected validation failure")
	}
	for _, want := range []string{"invalid log level", "fetch_timeout", "invalid render mode"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected %q in error, got: %v", want, err)
		}
	}
}

// TestValidateTransport tests transport validation rules
func TestValidateTransport(t *testing.T) {
	cfg := validConfig()

	cfg.Transport = "stdio"
	if err := cfg.ValidateTransport(); err != nil {
		t.Errorf("stdio should validate without a port: %v", err)
	}

	cfg.Transport = "sse"
	cfg.TransportPort = 0
	if err := cfg.ValidateTransport(); err == nil {
		t.Error("Expected error for sse without port")
	}

	cfg.TransportPort = 8080
	if err := cfg.ValidateTransport(); err != nil {
		t.Errorf("sse with port should validate: %v", err)
	}

	cfg.TransportPort = 70000
	if err := cfg.ValidateTransport(); err == nil {
		t.Error("Expected error for out-of-range port")
	}

	cfg.Transport = "morse"
	if err := cfg.ValidateTransport(); err == nil {
		t.Error("Expected error for unknown transport")
	}
}

// TestLoad_FromEnvironment tests environment variable loading
func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ONES_HOST", "env.example.com")
	t.Setenv("ONES_EMAIL", "env@example.com")
	t.Setenv("ONES_PASSWORD", "env-secret")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("FETCH_TIMEOUT", "10")
	t.Setenv("RENDER_MODE", "markdown")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.OnesHost != "env.example.com" {
		t.Errorf("Expected env host, got %s", cfg.OnesHost)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected env log level, got %s", cfg.LogLevel)
	}
	if cfg.FetchTimeout != 10 {
		t.Errorf("Expected env fetch timeout, got %d", cfg.FetchTimeout)
	}
	if cfg.RenderMode != "markdown" {
		t.Errorf("Expected env render mode, got %s", cfg.RenderMode)
	}
}

// TestLoadFromFile tests config file loading with env fallback and file
// precedence
func TestLoadFromFile(t *testing.T) {
	t.Setenv("ONES_HOST", "env.example.com")
	t.Setenv("ONES_EMAIL", "env@example.com")
	t.Setenv("ONES_PASSWORD", "env-secret")
	t.Setenv("LOG_LEVEL", "error")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "ones_host: file.example.com\nlog_level: warn\ntransport: sse\ntransport_port: 8080\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.OnesHost != "file.example.com" {
		t.Errorf("File value should override env, got %s", cfg.OnesHost)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("File value should override env, got %s", cfg.LogLevel)
	}
	if cfg.OnesEmail != "env@example.com" {
		t.Errorf("Env value should fill unset file keys, got %s", cfg.OnesEmail)
	}
	if cfg.Transport != "sse" || cfg.TransportPort != 8080 {
		t.Errorf("Expected transport settings from file, got %s:%d", cfg.Transport, cfg.TransportPort)
	}
}

// TestLoadFromFile_Missing tests error on unreadable config file
func TestLoadFromFile_Missing(t *testing.T) {
	if _, err := LoadFromFile("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for missing config file")
	}
}

// TestGetTransportAddress tests the bind address accessor
func TestGetTransportAddress(t *testing.T) {
	cfg := validConfig()

	if addr := cfg.GetTransportAddress(); addr != "" {
		t.Errorf("Expected empty address for stdio, got %s", addr)
	}

	cfg.Transport = "sse"
	cfg.TransportHost = "0.0.0.0"
	cfg.TransportPort = 8080
	if addr := cfg.GetTransportAddress(); addr != "0.0.0.0:8080" {
		t.Errorf("Unexpected address: %s", addr)
	}
}
