// Package config loads Janus settings from an optional YAML file and the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds Janus configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Redis     RedisConfig     `yaml:"redis"`
	OddsAPI   OddsAPIConfig   `yaml:"odds_api"`
	ClubData  ServiceConfig   `yaml:"club_data"`
	Lineups   ServiceConfig   `yaml:"lineups"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Export    ExportConfig    `yaml:"export"`
	Warmer    WarmerConfig    `yaml:"warmer"`
	LogLevel  string          `yaml:"log_level"`
}

type ServerConfig struct {
	Port           string        `yaml:"port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

type RedisConfig struct {
	URL string `yaml:"url"` // redis://[:password@]host:port/db
}

type OddsAPIConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`     // empty uses the public endpoint
	RateLimit   float64 `yaml:"rate_limit"`   // requests per second, 0 disables
	DevigMethod string  `yaml:"devig_method"` // shin or multiplicative
}

type ServiceConfig struct {
	BaseURL string `yaml:"base_url"`
}

type AuthConfig struct {
	Secret   string `yaml:"secret"`
	Issuer   string `yaml:"issuer"`
	Audience string `yaml:"audience"`
}

type RateLimitConfig struct {
	Quota  int           `yaml:"quota"`
	Window time.Duration `yaml:"window"`
}

type ExportConfig struct {
	FilePath    string `yaml:"file_path"`    // empty disables the file sink
	PostgresDSN string `yaml:"postgres_dsn"` // empty disables the Postgres sink
}

type WarmerConfig struct {
	Enabled      bool     `yaml:"enabled"`
	Competitions []string `yaml:"competitions"` // empty warms every registered competition
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8000",
			RequestTimeout: 60 * time.Second,
			AllowedOrigins: []string{"*"},
		},
		Redis:     RedisConfig{URL: "redis://localhost:6379/0"},
		OddsAPI:   OddsAPIConfig{RateLimit: 2, DevigMethod: "shin"},
		ClubData:  ServiceConfig{BaseURL: "http://localhost:8001"},
		Lineups:   ServiceConfig{BaseURL: "http://localhost:8002"},
		RateLimit: RateLimitConfig{Quota: 5, Window: 24 * time.Hour},
		Export:    ExportConfig{FilePath: "data/exports.jsonl"},
		LogLevel:  "info",
	}
}

// Load reads the YAML file at path (if any) over the defaults, then applies env overrides
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Redis.URL = getEnv("REDIS_URL", c.Redis.URL)
	c.OddsAPI.APIKey = getEnv("ODDS_API_KEY", c.OddsAPI.APIKey)
	c.OddsAPI.BaseURL = getEnv("ODDS_API_URL", c.OddsAPI.BaseURL)
	c.OddsAPI.DevigMethod = getEnv("DEVIG_METHOD", c.OddsAPI.DevigMethod)
	c.ClubData.BaseURL = getEnv("CLUBDATA_URL", c.ClubData.BaseURL)
	c.Lineups.BaseURL = getEnv("LINEUPS_URL", c.Lineups.BaseURL)
	c.Auth.Secret = getEnv("JWT_SECRET", c.Auth.Secret)
	c.Auth.Issuer = getEnv("JWT_ISSUER", c.Auth.Issuer)
	c.Auth.Audience = getEnv("JWT_AUDIENCE", c.Auth.Audience)
	c.Export.FilePath = getEnv("EXPORT_FILE", c.Export.FilePath)
	c.Export.PostgresDSN = getEnv("POSTGRES_DSN", c.Export.PostgresDSN)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}
	if competitions := os.Getenv("WARM_COMPETITIONS"); competitions != "" {
		c.Warmer.Competitions = splitList(competitions)
	}

	if v := os.Getenv("RATE_LIMIT_QUOTA"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_QUOTA %q: %w", v, err)
		}
		c.RateLimit.Quota = n
	}
	if v := os.Getenv("ODDS_API_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid ODDS_API_RATE_LIMIT %q: %w", v, err)
		}
		c.OddsAPI.RateLimit = f
	}
	if v := os.Getenv("WARM_CACHE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid WARM_CACHE %q: %w", v, err)
		}
		c.Warmer.Enabled = b
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"RATE_LIMIT_WINDOW", &c.RateLimit.Window},
		{"REQUEST_TIMEOUT", &c.Server.RequestTimeout},
	}
	for _, d := range durations {
		v := os.Getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", d.key, v, err)
		}
		*d.dst = parsed
	}

	return nil
}

// Validate checks the settings Janus cannot start without
func (c *Config) Validate() error {
	var missing []string
	if c.OddsAPI.APIKey == "" {
		missing = append(missing, "ODDS_API_KEY")
	}
	if c.Auth.Secret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}

	switch c.OddsAPI.DevigMethod {
	case "", "shin", "multiplicative":
	default:
		return fmt.Errorf("unknown devig method %q", c.OddsAPI.DevigMethod)
	}

	if c.RateLimit.Quota <= 0 {
		return fmt.Errorf("rate limit quota must be positive, got %d", c.RateLimit.Quota)
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit window must be positive, got %v", c.RateLimit.Window)
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// getEnv gets an environment variable with a default fallback
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
