// Package config handles loading and parsing the Savor CLI configuration.
//
// # Overview
//
// This package reads the CLI's TOML configuration to discover the
// server endpoint, the acting user, and the transport limits. It is
// read-only and stateless: configuration is loaded once at startup and
// returned as an immutable Config struct. No global state or singleton
// patterns are used; the caller owns the Config and hands it to the
// client explicitly.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/savor/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. Environment variables override file values in all cases
//
// Missing config files are NOT an error — defaults are used instead,
// so the CLI works out-of-the-box against a local server.
//
// # TOML Format
//
// Example config.toml:
//
//	server_url = "https://savor.example.com"
//	user_id = "alex"
//	auth_token = "..."
//	timeout_seconds = 30
//	max_retries = 3
//	retry_delay_seconds = 1.0
//	max_response_size = 10485760
//
// All fields are optional. Unset transport limits fall through to the
// client package's defaults via ClientConfig.
//
// # Environment Overrides
//
//   - SAVOR_SERVER_URL
//   - SAVOR_USER_ID
//   - SAVOR_AUTH_TOKEN
//
// # Warnings
//
// Warnings reports non-fatal smells the CLI logs at startup: a plain
// HTTP server URL pointing at a non-localhost host, and the shared
// "demo" user. Neither prevents the CLI from running.
package config
