package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestLoadDefaults returns working defaults when no file exists.
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "5050" || cfg.CityName != "Dormentes" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.SessionTTL != 6*time.Hour {
		t.Errorf("session ttl = %v", cfg.SessionTTL)
	}
}

// TestLoadFile reads overrides from yaml.
func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "port: \"9999\"\ncity_name: Petrolina\nallowed_origins:\n  - https://mapa.example\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9999" || cfg.CityName != "Petrolina" {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "https://mapa.example" {
		t.Errorf("origins = %v", cfg.AllowedOrigins)
	}
}

// TestEnvOverrides lets the environment win over the file.
func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7777")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "7777" {
		t.Errorf("port = %s", cfg.Port)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("origins = %v", cfg.AllowedOrigins)
	}
}

// TestSessionTTLEnv overrides the session lifetime from the environment
// and rejects values ParseDuration can't read.
func TestSessionTTLEnv(t *testing.T) {
	t.Setenv("SESSION_TTL", "12h")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SessionTTL != 12*time.Hour {
		t.Errorf("session ttl = %v, want 12h", cfg.SessionTTL)
	}

	t.Setenv("SESSION_TTL", "not-a-duration")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a malformed SESSION_TTL")
	}
}
