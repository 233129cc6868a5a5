package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected default config to validate, got %v", err)
	}
	if cfg.Backend.URL != "ws://localhost:4175" {
		t.Fatalf("expected default websocket url, got %q", cfg.Backend.URL)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, strings.Join([]string{
		"backend:",
		"  url: wss://kb.example.com/bridge",
		"  auth_token: secret",
		"stream:",
		"  deadline: 45s",
	}, "\n"))

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected load to succeed, got %v", err)
	}
	if cfg.Backend.URL != "wss://kb.example.com/bridge" {
		t.Fatalf("expected overridden url, got %q", cfg.Backend.URL)
	}
	if cfg.Backend.AuthToken != "secret" {
		t.Fatalf("expected auth token to load, got %q", cfg.Backend.AuthToken)
	}
	if time.Duration(cfg.Stream.Deadline) != 45*time.Second {
		t.Fatalf("expected 45s deadline, got %v", time.Duration(cfg.Stream.Deadline))
	}
}

func TestLoadRejectsBadScheme(t *testing.T) {
	path := writeConfig(t, "backend:\n  url: ftp://example.com\n")

	if _, err := Load(path); err == nil {
		t.Fatalf("expected bad scheme to be rejected")
	} else if !strings.Contains(err.Error(), "scheme") {
		t.Fatalf("expected scheme error, got %v", err)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, "stream:\n  deadline: soon\n")

	if _, err := Load(path); err == nil {
		t.Fatalf("expected bad duration to be rejected")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected missing file to be an error")
	}
}
