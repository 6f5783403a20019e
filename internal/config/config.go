// Package config loads careerpath settings from a YAML file and the environment.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/careerpath/pkg/adapters/openai"
	"github.com/aretw0/careerpath/pkg/adapters/tavily"
	"github.com/aretw0/careerpath/pkg/sanitize"
	"gopkg.in/yaml.v3"
)

// Session backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendFile   = "file"
)

// Config is the full runtime configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Oracle   OracleConfig   `yaml:"oracle"`
	Search   SearchConfig   `yaml:"search"`
	Sessions SessionsConfig `yaml:"sessions"`
	Runs     RunsConfig     `yaml:"runs"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxInputSize    int           `yaml:"max_input_size"`
}

type OracleConfig struct {
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	BaseURL     string        `yaml:"base_url"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`

	// Offline swaps the remote model for the built-in offline oracle.
	Offline bool `yaml:"offline"`
}

type SearchConfig struct {
	APIKey    string        `yaml:"api_key"`
	Endpoint  string        `yaml:"endpoint"`
	Depth     string        `yaml:"depth"`
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit float64       `yaml:"rate_limit"`
	Burst     int           `yaml:"burst"`
}

// Enabled reports whether web search can be wired.
func (s SearchConfig) Enabled() bool {
	return s.APIKey != ""
}

type SessionsConfig struct {
	Backend    string        `yaml:"backend"`
	TTL        time.Duration `yaml:"ttl"`
	Capacity   int           `yaml:"capacity"`
	MaxHistory int           `yaml:"max_history"`
	Redis      RedisConfig   `yaml:"redis"`

	// Dir holds one JSON file per session for the file backend.
	Dir string `yaml:"dir"`

	// EncryptionKey is a base64 encoded 32 byte AES key. Empty disables encryption.
	EncryptionKey string   `yaml:"encryption_key"`
	MaskPII       bool     `yaml:"mask_pii"`
	PIIPatterns   []string `yaml:"pii_patterns"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type RunsConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8000",
			AllowedOrigins:  []string{"http://localhost:3000", "http://localhost:5173"},
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    3 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
			MaxInputSize:    sanitize.DefaultMaxInputSize,
		},
		Oracle: OracleConfig{
			Model:       openai.DefaultModel,
			Temperature: openai.DefaultTemperature,
			Timeout:     60 * time.Second,
		},
		Search: SearchConfig{
			Endpoint:  tavily.DefaultEndpoint,
			Depth:     "basic",
			Timeout:   15 * time.Second,
			RateLimit: tavily.DefaultRate,
			Burst:     tavily.DefaultBurst,
		},
		Sessions: SessionsConfig{
			Backend:    BackendMemory,
			TTL:        24 * time.Hour,
			Capacity:   10000,
			MaxHistory: 20,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "careerpath:session:",
			},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path (YAML) over the defaults and applies environment
// overrides. A missing file is not an error when path is empty.
func Load(path string) (Config, error) {
	return LoadWithEnv(path, os.Getenv)
}

// LoadWithEnv is Load with an injectable environment lookup.
func LoadWithEnv(path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) error {
		v := getenv(key)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}

	str("OPENAI_API_KEY", &cfg.Oracle.APIKey)
	str("OPENAI_BASE_URL", &cfg.Oracle.BaseURL)
	str("CAREERPATH_MODEL", &cfg.Oracle.Model)
	str("TAVILY_API_KEY", &cfg.Search.APIKey)
	str("CAREERPATH_ADDR", &cfg.Server.Addr)
	str("CAREERPATH_SESSION_BACKEND", &cfg.Sessions.Backend)
	str("CAREERPATH_SESSION_DIR", &cfg.Sessions.Dir)
	str("CAREERPATH_REDIS_ADDR", &cfg.Sessions.Redis.Addr)
	str("CAREERPATH_REDIS_PASSWORD", &cfg.Sessions.Redis.Password)
	str("CAREERPATH_ENCRYPTION_KEY", &cfg.Sessions.EncryptionKey)
	str("CAREERPATH_LOG_LEVEL", &cfg.Log.Level)
	str("CAREERPATH_LOG_FORMAT", &cfg.Log.Format)

	if v := getenv("CAREERPATH_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.Server.AllowedOrigins = origins
	}
	if v := getenv("CAREERPATH_OFFLINE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CAREERPATH_OFFLINE: %w", err)
		}
		cfg.Oracle.Offline = b
	}

	if err := integer("CAREERPATH_MAX_CONCURRENT_RUNS", &cfg.Runs.MaxConcurrent); err != nil {
		return err
	}
	return integer(sanitize.EnvMaxInputSize, &cfg.Server.MaxInputSize)
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	var errs []error
	switch c.Sessions.Backend {
	case BackendMemory, BackendRedis, BackendFile:
	default:
		errs = append(errs, fmt.Errorf("sessions.backend: unknown backend %q", c.Sessions.Backend))
	}
	if c.Sessions.EncryptionKey != "" {
		if _, err := c.Sessions.Key(); err != nil {
			errs = append(errs, err)
		}
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: must be text or json, got %q", c.Log.Format))
	}
	if c.Runs.MaxConcurrent < 0 {
		errs = append(errs, errors.New("runs.max_concurrent: must not be negative"))
	}
	if !c.Oracle.Offline && c.Oracle.APIKey == "" {
		errs = append(errs, errors.New("oracle.api_key: required unless offline (set OPENAI_API_KEY)"))
	}
	return errors.Join(errs...)
}

// Key decodes the session encryption key.
func (s SessionsConfig) Key() ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(s.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("sessions.encryption_key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("sessions.encryption_key: must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}
