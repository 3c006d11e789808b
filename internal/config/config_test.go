package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SAVOR_SERVER_URL", "")
	t.Setenv("SAVOR_USER_ID", "")
	t.Setenv("SAVOR_AUTH_TOKEN", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ServerURL != defaultServerURL {
		t.Fatalf("ServerURL = %q, want %q", cfg.ServerURL, defaultServerURL)
	}
	if cfg.UserID != defaultUserID {
		t.Fatalf("UserID = %q, want %q", cfg.UserID, defaultUserID)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	t.Setenv("SAVOR_SERVER_URL", "")
	t.Setenv("SAVOR_USER_ID", "")
	t.Setenv("SAVOR_AUTH_TOKEN", "")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
server_url = "  https://savor.example.com/  "
user_id = "  alex  "
auth_token = "tok123"
timeout_seconds = 5.5
max_retries = 0
retry_delay_seconds = 0.25
max_response_size = 1048576
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ServerURL != "https://savor.example.com" {
		t.Fatalf("ServerURL = %q, want trimmed URL without trailing slash", cfg.ServerURL)
	}
	if cfg.UserID != "alex" || cfg.AuthToken != "tok123" {
		t.Fatalf("identity = %q/%q, want alex/tok123", cfg.UserID, cfg.AuthToken)
	}
	if cfg.Timeout != 5500*time.Millisecond {
		t.Fatalf("Timeout = %v, want 5.5s", cfg.Timeout)
	}
	if cfg.MaxRetries != 0 {
		t.Fatalf("MaxRetries = %d, want explicit 0 preserved", cfg.MaxRetries)
	}
	if cfg.RetryDelay != 250*time.Millisecond {
		t.Fatalf("RetryDelay = %v, want 250ms", cfg.RetryDelay)
	}
	if cfg.MaxResponseSize != 1048576 {
		t.Fatalf("MaxResponseSize = %d, want 1048576", cfg.MaxResponseSize)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
server_url = "http://file.example.com"
user_id = "filewriter"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("SAVOR_SERVER_URL", "https://env.example.com")
	t.Setenv("SAVOR_USER_ID", "envuser")
	t.Setenv("SAVOR_AUTH_TOKEN", "envtoken")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ServerURL != "https://env.example.com" || cfg.UserID != "envuser" || cfg.AuthToken != "envtoken" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`server_url = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestClientConfig_MapsLoadedValues(t *testing.T) {
	cfg := Config{
		ServerURL:  "https://savor.example.com",
		UserID:     "alex",
		AuthToken:  "tok",
		Timeout:    5 * time.Second,
		MaxRetries: 1,
		RetryDelay: 100 * time.Millisecond,
	}
	clientCfg := cfg.ClientConfig()
	if clientCfg.BaseURL != cfg.ServerURL || clientCfg.UserID != "alex" || clientCfg.AuthToken != "tok" {
		t.Fatalf("ClientConfig identity fields = %+v", clientCfg)
	}
	if clientCfg.Timeout != 5*time.Second || clientCfg.MaxRetries != 1 || clientCfg.RetryDelay != 100*time.Millisecond {
		t.Fatalf("ClientConfig limits = %+v", clientCfg)
	}
	if clientCfg.MaxResponseSize == 0 {
		t.Fatalf("MaxResponseSize = 0, want client default applied")
	}
}

func TestClientConfig_UnsetLimitsUseClientDefaults(t *testing.T) {
	cfg := Config{ServerURL: "http://localhost:8080", UserID: "demo", MaxRetries: -1}
	clientCfg := cfg.ClientConfig()
	if clientCfg.MaxRetries != 3 {
		t.Fatalf("MaxRetries = %d, want client default 3", clientCfg.MaxRetries)
	}
	if clientCfg.Timeout == 0 || clientCfg.RetryDelay == 0 {
		t.Fatalf("limits not defaulted: %+v", clientCfg)
	}
}

func TestWarnings(t *testing.T) {
	cfg := Config{ServerURL: "http://savor.example.com", UserID: "demo"}
	warnings := cfg.Warnings()
	if len(warnings) != 2 {
		t.Fatalf("warnings = %v, want insecure URL and demo user", warnings)
	}

	cfg = Config{ServerURL: "http://localhost:8080", UserID: "alex"}
	if warnings := cfg.Warnings(); len(warnings) != 0 {
		t.Fatalf("warnings = %v, want none for localhost + named user", warnings)
	}

	cfg = Config{ServerURL: "https://savor.example.com", UserID: "alex"}
	if warnings := cfg.Warnings(); len(warnings) != 0 {
		t.Fatalf("warnings = %v, want none for HTTPS", warnings)
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
