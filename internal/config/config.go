package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/savorhq/savor/internal/savor"
)

// Config captures the settings the CLI needs to reach the Savor server.
type Config struct {
	ServerURL       string
	UserID          string
	AuthToken       string
	Timeout         time.Duration
	MaxRetries      int
	RetryDelay      time.Duration
	MaxResponseSize int64
}

const (
	defaultConfigPath = "~/.config/savor/config.toml"
	defaultServerURL  = "http://localhost:8080"
	defaultUserID     = "demo"
)

const (
	envServerURL = "SAVOR_SERVER_URL"
	envUserID    = "SAVOR_USER_ID"
	envAuthToken = "SAVOR_AUTH_TOKEN"
)

// Load locates and parses the savor config, falling back to defaults
// when missing. Environment variables override file values.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{ServerURL: defaultServerURL, UserID: defaultUserID, MaxRetries: -1}

	data, err := os.ReadFile(resolved)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		var raw struct {
			ServerURL         string  `toml:"server_url"`
			UserID            string  `toml:"user_id"`
			AuthToken         string  `toml:"auth_token"`
			TimeoutSeconds    float64 `toml:"timeout_seconds"`
			MaxRetries        *int    `toml:"max_retries"`
			RetryDelaySeconds float64 `toml:"retry_delay_seconds"`
			MaxResponseSize   int64   `toml:"max_response_size"`
		}
		if err := toml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		if v := strings.TrimSpace(raw.ServerURL); v != "" {
			cfg.ServerURL = v
		}
		if v := strings.TrimSpace(raw.UserID); v != "" {
			cfg.UserID = v
		}
		cfg.AuthToken = strings.TrimSpace(raw.AuthToken)
		if raw.TimeoutSeconds > 0 {
			cfg.Timeout = time.Duration(raw.TimeoutSeconds * float64(time.Second))
		}
		if raw.MaxRetries != nil && *raw.MaxRetries >= 0 {
			cfg.MaxRetries = *raw.MaxRetries
		}
		if raw.RetryDelaySeconds > 0 {
			cfg.RetryDelay = time.Duration(raw.RetryDelaySeconds * float64(time.Second))
		}
		if raw.MaxResponseSize != 0 {
			cfg.MaxResponseSize = raw.MaxResponseSize
		}
	}

	if v := strings.TrimSpace(os.Getenv(envServerURL)); v != "" {
		cfg.ServerURL = v
	}
	if v := strings.TrimSpace(os.Getenv(envUserID)); v != "" {
		cfg.UserID = v
	}
	if v := strings.TrimSpace(os.Getenv(envAuthToken)); v != "" {
		cfg.AuthToken = v
	}

	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")
	return cfg, nil
}

// ClientConfig maps the loaded settings onto the client's Config,
// leaving unset limits to the client's defaults.
func (c Config) ClientConfig() savor.Config {
	clientCfg := savor.DefaultConfig()
	clientCfg.BaseURL = c.ServerURL
	clientCfg.UserID = c.UserID
	clientCfg.AuthToken = c.AuthToken
	if c.Timeout > 0 {
		clientCfg.Timeout = c.Timeout
	}
	if c.MaxRetries >= 0 {
		clientCfg.MaxRetries = c.MaxRetries
	}
	if c.RetryDelay > 0 {
		clientCfg.RetryDelay = c.RetryDelay
	}
	if c.MaxResponseSize != 0 {
		clientCfg.MaxResponseSize = c.MaxResponseSize
	}
	return clientCfg
}

// Warnings reports non-fatal configuration smells worth logging:
// plain HTTP to a remote host, and the shared demo user.
func (c Config) Warnings() []string {
	var warnings []string
	if parsed, err := url.Parse(c.ServerURL); err == nil && parsed.Scheme == "http" {
		host := parsed.Hostname()
		if host != "localhost" && host != "127.0.0.1" && host != "::1" {
			warnings = append(warnings,
				fmt.Sprintf("using insecure HTTP connection to %s; consider HTTPS for non-localhost URLs", host))
		}
	}
	if c.UserID == defaultUserID {
		warnings = append(warnings, "user_id not set, using the shared 'demo' user")
	}
	return warnings
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
