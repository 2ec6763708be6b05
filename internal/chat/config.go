package chat

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// BaseURL of the conversation service, without a trailing slash.
	BaseURL string `yaml:"base_url"`
	// Category is the default assistant category for new conversations.
	Category string `yaml:"category"`
	// StorageRoot holds the local draft cache and auth tokens.
	StorageRoot string `yaml:"storage_root"`
	// StorageBackend selects the draft cache implementation: sqlite or file.
	StorageBackend string `yaml:"storage_backend"`
	Debug          bool   `yaml:"debug"`
}

const defaultBaseURL = "https://api.tipsiti.app"

func DefaultConfig() Config {
	return Config{
		BaseURL:        defaultBaseURL,
		Category:       CategoryGeneral,
		StorageRoot:    "",
		StorageBackend: "sqlite",
	}
}

func DefaultConfigPath() string {
	if base := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); base != "" {
		return filepath.Join(base, "tipsiti", "config.yaml")
	}
	if base, err := os.UserHomeDir(); err == nil && base != "" {
		return filepath.Join(base, ".config", "tipsiti", "config.yaml")
	}
	return filepath.Join(os.TempDir(), "tipsiti", "config.yaml")
}

func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, err
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, err
			}
		}
	}

	if v := strings.TrimSpace(os.Getenv("TIPSITI_BASE_URL")); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("TIPSITI_STORAGE_ROOT")); v != "" {
		cfg.StorageRoot = v
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = NormalizeBaseURL(cfg.BaseURL)
	cfg.Category = NormalizeCategory(cfg.Category)
	if cfg.StorageBackend != "file" {
		cfg.StorageBackend = "sqlite"
	}
	return cfg, nil
}

func SaveConfig(cfg Config, path string) error {
	if path == "" {
		return errors.New("no path provided for config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
