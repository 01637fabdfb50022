package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no stray config.yaml

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("expected default port 5000, got %d", cfg.Server.Port)
	}
	if cfg.Cache.TTL != time.Hour {
		t.Errorf("expected default cache TTL 1h, got %s", cfg.Cache.TTL)
	}
	if cfg.Providers.Pexels.PerPage != 10 || cfg.Providers.Unsplash.PerPage != 10 {
		t.Errorf("expected page size 10 for search providers, got %d/%d",
			cfg.Providers.Pexels.PerPage, cfg.Providers.Unsplash.PerPage)
	}
	if cfg.Providers.NASA.PerPage != 5 {
		t.Errorf("expected NASA count 5, got %d", cfg.Providers.NASA.PerPage)
	}
	if cfg.Storage.DatabasePath != ":memory:" {
		t.Errorf("expected in-memory database by default, got %q", cfg.Storage.DatabasePath)
	}
	if len(cfg.Recommend.ProviderOrder) != 1 || cfg.Recommend.ProviderOrder[0] != "huggingface" {
		t.Errorf("expected [huggingface] provider order, got %v", cfg.Recommend.ProviderOrder)
	}
}

func TestLoad_BareEnvAliases(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "7000")
	t.Setenv("PEXELS_API_KEY", "pexels-key")
	t.Setenv("UNSPLASH_ACCESS_KEY", "unsplash-key")
	t.Setenv("NASA_API_KEY", "nasa-key")
	t.Setenv("HUGGINGFACE_API_KEY", "hf-key")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 7000 {
		t.Errorf("expected port 7000 from PORT, got %d", cfg.Server.Port)
	}
	if cfg.Providers.Pexels.APIKey != "pexels-key" {
		t.Errorf("pexels key: got %q", cfg.Providers.Pexels.APIKey)
	}
	if cfg.Providers.Unsplash.APIKey != "unsplash-key" {
		t.Errorf("unsplash key: got %q", cfg.Providers.Unsplash.APIKey)
	}
	if cfg.Providers.NASA.APIKey != "nasa-key" {
		t.Errorf("nasa key: got %q", cfg.Providers.NASA.APIKey)
	}
	if cfg.Recommend.HuggingFace.APIKey != "hf-key" {
		t.Errorf("huggingface key: got %q", cfg.Recommend.HuggingFace.APIKey)
	}
}

func TestLoad_PrefixedEnvWinsOverAlias(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "7000")
	t.Setenv("IMAGE_HAVEN_SERVER_PORT", "7100")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7100 {
		t.Errorf("expected prefixed port 7100, got %d", cfg.Server.Port)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "custom.yaml")
	yaml := `
server:
  port: 8181
cache:
  ttl: 30m
  backend: lru
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8181 {
		t.Errorf("expected port 8181, got %d", cfg.Server.Port)
	}
	if cfg.Cache.TTL != 30*time.Minute {
		t.Errorf("expected ttl 30m, got %s", cfg.Cache.TTL)
	}
	if cfg.Cache.Backend != "lru" {
		t.Errorf("expected lru backend, got %q", cfg.Cache.Backend)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected debug log level, got %q", cfg.Log.Level)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestServerConfig_Address(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 5000}
	if got := s.Address(); got != "127.0.0.1:5000" {
		t.Errorf("expected 127.0.0.1:5000, got %s", got)
	}
}
