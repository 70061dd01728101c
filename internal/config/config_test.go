package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
base_url: http://localhost:8080/v1beta
image_model: gemini-2.5-flash-image
timeout: 30s
api_key_env: MY_GEMINI_KEY
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.BaseURL != "http://localhost:8080/v1beta" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.ImageModel != "gemini-2.5-flash-image" {
		t.Errorf("ImageModel = %q", cfg.ImageModel)
	}
	if cfg.TextModel != "" {
		t.Errorf("TextModel = %q, want empty (provider default)", cfg.TextModel)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %s, want 30s", cfg.Timeout)
	}
	if cfg.APIKeyEnv != "MY_GEMINI_KEY" {
		t.Errorf("APIKeyEnv = %q", cfg.APIKeyEnv)
	}
	if cfg.SecretService != DefaultSecretService || cfg.SecretAccount != DefaultSecretAccount {
		t.Errorf("secret defaults lost: %q/%q", cfg.SecretService, cfg.SecretAccount)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing --config file")
	}
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":         "base_url: [unclosed",
		"bad duration":     "timeout: soon",
		"negative timeout": "timeout: -5s",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
