package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIKeyEnv     = "GOOGLE_AI_STUDIO_API_KEY"
	DefaultSecretService = "google-ai-studio"
	DefaultSecretAccount = "api-key"
	DefaultTimeout       = 120 * time.Second
)

// Config holds settings read from the optional config file. Zero values
// mean "use the built-in default".
type Config struct {
	BaseURL       string        `yaml:"base_url"`
	TextModel     string        `yaml:"text_model"`
	ImageModel    string        `yaml:"image_model"`
	Timeout       time.Duration `yaml:"timeout"`
	APIKeyEnv     string        `yaml:"api_key_env"`
	SecretService string        `yaml:"secret_service"`
	SecretAccount string        `yaml:"secret_account"`
}

func Default() Config {
	return Config{
		Timeout:       DefaultTimeout,
		APIKeyEnv:     DefaultAPIKeyEnv,
		SecretService: DefaultSecretService,
		SecretAccount: DefaultSecretAccount,
	}
}

// DefaultPath is $XDG_CONFIG_HOME/nano-banana/config.yaml or the platform
// equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "nano-banana", "config.yaml")
}

// Load reads path over the defaults. When path is empty the default location
// is used and a missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.merge(file)
	if cfg.Timeout < 0 {
		return cfg, fmt.Errorf("config %s: timeout must not be negative", path)
	}
	return cfg, nil
}

func (c *Config) merge(o Config) {
	if o.BaseURL != "" {
		c.BaseURL = o.BaseURL
	}
	if o.TextModel != "" {
		c.TextModel = o.TextModel
	}
	if o.ImageModel != "" {
		c.ImageModel = o.ImageModel
	}
	if o.Timeout != 0 {
		c.Timeout = o.Timeout
	}
	if o.APIKeyEnv != "" {
		c.APIKeyEnv = o.APIKeyEnv
	}
	if o.SecretService != "" {
		c.SecretService = o.SecretService
	}
	if o.SecretAccount != "" {
		c.SecretAccount = o.SecretAccount
	}
}
