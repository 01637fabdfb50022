// Package config handles application configuration using Viper.
// Viper supports YAML files, environment variables, and defaults, merged in priority order.
// Go convention: configuration is loaded into structs, not accessed as raw key-value pairs.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration struct. Nested structs organize related settings.
// `mapstructure` tags tell Viper how to map YAML/env keys to struct fields.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Recommend RecommendConfig `mapstructure:"recommend"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Auth      AuthConfig      `mapstructure:"auth"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// ProvidersConfig holds one block per wallpaper source.
// Order of aggregation is fixed in code (Pexels, Unsplash, NASA), not here.
type ProvidersConfig struct {
	Pexels   ProviderConfig `mapstructure:"pexels"`
	Unsplash ProviderConfig `mapstructure:"unsplash"`
	NASA     ProviderConfig `mapstructure:"nasa"`
}

type ProviderConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	// PerPage is the page size for search providers and the image count for NASA.
	PerPage int `mapstructure:"per_page"`
}

type RecommendConfig struct {
	// ProviderOrder controls which text-generation backends are used and in what order.
	// First backend is primary, rest are fallbacks. Example: ["huggingface", "openai"]
	ProviderOrder []string          `mapstructure:"provider_order"`
	HuggingFace   HuggingFaceConfig `mapstructure:"huggingface"`
	OpenAI        ModelConfig       `mapstructure:"openai"`
	Anthropic     ModelConfig       `mapstructure:"anthropic"`
	// RatePerMinute paces upstream calls; 0 disables pacing.
	RatePerMinute int `mapstructure:"rate_per_minute"`
}

type HuggingFaceConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type ModelConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type CacheConfig struct {
	TTL        time.Duration `mapstructure:"ttl"`
	Backend    string        `mapstructure:"backend"` // "memory" or "lru"
	MaxEntries int           `mapstructure:"max_entries"`
}

type StorageConfig struct {
	// DatabasePath is ":memory:" by default, keeping bookkeeping in-process.
	DatabasePath string `mapstructure:"database_path"`
}

type AuthConfig struct {
	AdminKeys []string `mapstructure:"admin_keys"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// envAliases binds the bare environment names used by deployments that predate
// the IMAGE_HAVEN_ prefix. The prefixed name is checked first.
var envAliases = map[string]string{
	"server.port":                   "PORT",
	"providers.pexels.api_key":      "PEXELS_API_KEY",
	"providers.unsplash.api_key":    "UNSPLASH_ACCESS_KEY",
	"providers.nasa.api_key":        "NASA_API_KEY",
	"recommend.huggingface.api_key": "HUGGINGFACE_API_KEY",
	"recommend.openai.api_key":      "OPENAI_API_KEY",
	"recommend.anthropic.api_key":   "ANTHROPIC_API_KEY",
}

const envPrefix = "IMAGE_HAVEN"

// Load reads configuration from a YAML file and environment variables.
// In Go, functions return errors as the last return value; callers must check them.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults: these apply when neither file nor env provides a value
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)

	v.SetDefault("providers.pexels.enabled", true)
	v.SetDefault("providers.pexels.base_url", "https://api.pexels.com/v1/search")
	v.SetDefault("providers.pexels.per_page", 10)
	v.SetDefault("providers.unsplash.enabled", true)
	v.SetDefault("providers.unsplash.base_url", "https://api.unsplash.com/search/photos")
	v.SetDefault("providers.unsplash.per_page", 10)
	v.SetDefault("providers.nasa.enabled", true)
	v.SetDefault("providers.nasa.base_url", "https://api.nasa.gov/planetary/apod")
	v.SetDefault("providers.nasa.per_page", 5)

	v.SetDefault("recommend.provider_order", []string{"huggingface"})
	v.SetDefault("recommend.huggingface.base_url", "https://api-inference.huggingface.co/models")
	v.SetDefault("recommend.huggingface.model", "OpenAssistant/oasst-sft-1-pythia-12b")
	v.SetDefault("recommend.openai.model", "gpt-4o-mini")
	v.SetDefault("recommend.anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("recommend.rate_per_minute", 0)

	v.SetDefault("cache.ttl", time.Hour)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.max_entries", 1024)

	v.SetDefault("storage.database_path", ":memory:")
	v.SetDefault("auth.admin_keys", []string{})
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("rate_limit.requests_per_second", 10)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("log.level", "info")

	// Read from YAML config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Read config file (ignore "not found": defaults + env are enough)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Environment variables override everything.
	// IMAGE_HAVEN_ prefix + nested keys: IMAGE_HAVEN_SERVER_PORT=9090 → server.port=9090
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// BindEnv with several names uses the first one that is set.
	for key, alias := range envAliases {
		prefixed := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, alias); err != nil {
			return nil, fmt.Errorf("binding env %s: %w", alias, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Address returns the listen address string like "0.0.0.0:5000".
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
