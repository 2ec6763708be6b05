package chat

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Category != CategoryGeneral {
		t.Fatalf("default category = %q, want general", cfg.Category)
	}
	if cfg.StorageBackend != "sqlite" {
		t.Fatalf("default storage backend = %q, want sqlite", cfg.StorageBackend)
	}
	if cfg.BaseURL == "" {
		t.Fatalf("default base url must be set")
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Category != CategoryGeneral || cfg.StorageBackend != "sqlite" {
		t.Fatalf("missing config file should yield defaults: %+v", cfg)
	}
}

func TestLoadConfigNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	payload := "base_url: https://example.com/api/\ncategory: TRAVEL\nstorage_backend: cassandra\n"
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseURL != "https://example.com/api" {
		t.Fatalf("base url not normalized: %q", cfg.BaseURL)
	}
	if cfg.Category != CategoryTravel {
		t.Fatalf("category not normalized: %q", cfg.Category)
	}
	if cfg.StorageBackend != "sqlite" {
		t.Fatalf("unknown backend should fall back to sqlite: %q", cfg.StorageBackend)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("TIPSITI_BASE_URL", "https://staging.example.com/")
	t.Setenv("TIPSITI_STORAGE_ROOT", "/tmp/tipsiti-test")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseURL != "https://staging.example.com" {
		t.Fatalf("env base url not applied: %q", cfg.BaseURL)
	}
	if cfg.StorageRoot != "/tmp/tipsiti-test" {
		t.Fatalf("env storage root not applied: %q", cfg.StorageRoot)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Category = CategoryCoding

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Category != CategoryCoding {
		t.Fatalf("round trip lost category: %q", loaded.Category)
	}
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "travel", want: CategoryTravel},
		{in: " Learning ", want: CategoryLearning},
		{in: "CODING", want: CategoryCoding},
		{in: "general", want: CategoryGeneral},
		{in: "", want: CategoryGeneral},
		{in: "astrology", want: CategoryGeneral},
	}
	for _, tc := range tests {
		if got := NormalizeCategory(tc.in); got != tc.want {
			t.Fatalf("NormalizeCategory(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
