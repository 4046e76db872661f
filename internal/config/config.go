// Package config assembles service settings from defaults, an optional YAML file,
// a .env file and the process environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/pefman/hd2-armory/internal/api"
)

type Config struct {
	Port           string        `yaml:"port"`
	WeaponsURL     string        `yaml:"weapons_url"`
	EnemySource    string        `yaml:"enemy_source"`
	FetchTimeout   time.Duration `yaml:"fetch_timeout"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
	LogLevel       string        `yaml:"log_level"`
	LogEncoding    string        `yaml:"log_encoding"`
	TestMode       bool          `yaml:"test_mode"`
	StaticDir      string        `yaml:"static_dir"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
}

func Default() Config {
	return Config{
		Port:           "8080",
		WeaponsURL:     api.DefaultWeaponsURL,
		EnemySource:    api.DefaultEnemySource,
		FetchTimeout:   8 * time.Second,
		CacheTTL:       5 * time.Minute,
		LogLevel:       "info",
		LogEncoding:    "json",
		StaticDir:      "public",
		MaxUploadBytes: 10 << 20,
	}
}

// EnvPaths are the .env locations tried in order; the first one found is loaded.
var EnvPaths = []string{".env", "../.env", "../../.env"}

// LoadDotEnv loads the first .env found in paths. Variables already set in the
// environment are not overridden. It returns the loaded path, or "".
func LoadDotEnv(paths ...string) string {
	for _, p := range paths {
		if err := godotenv.Load(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadFile overlays the YAML file at path onto cfg. Keys absent from the file keep
// their current values.
func LoadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays environment variables onto cfg. PORT wins over API_PORT.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	var errs []error
	dur := func(key string, dst *time.Duration) {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = d
	}

	str("API_PORT", &cfg.Port)
	str("PORT", &cfg.Port)
	str("WEAPONS_CSV_URL", &cfg.WeaponsURL)
	str("ENEMY_DATA_URL", &cfg.EnemySource)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_ENCODING", &cfg.LogEncoding)
	str("STATIC_DIR", &cfg.StaticDir)
	dur("FETCH_TIMEOUT", &cfg.FetchTimeout)
	dur("CACHE_TTL", &cfg.CacheTTL)
	if v := strings.TrimSpace(getenv("TEST_MODE")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("TEST_MODE: %w", err))
		} else {
			cfg.TestMode = b
		}
	}
	if v := strings.TrimSpace(getenv("MAX_UPLOAD_BYTES")); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("MAX_UPLOAD_BYTES: %w", err))
		} else {
			cfg.MaxUploadBytes = n
		}
	}
	return errors.Join(errs...)
}

// Validate reports settings the service cannot start with.
func (c Config) Validate() error {
	var errs []error
	if n, err := strconv.Atoi(c.Port); err != nil || n <= 0 || n > 65535 {
		errs = append(errs, fmt.Errorf("port %q is not a valid TCP port", c.Port))
	}
	if !c.TestMode && c.WeaponsURL == "" {
		errs = append(errs, errors.New("weapons_url is required outside test mode"))
	}
	if !c.TestMode && c.EnemySource == "" {
		errs = append(errs, errors.New("enemy_source is required outside test mode"))
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, errors.New("fetch_timeout must be positive"))
	}
	if c.CacheTTL < 0 {
		errs = append(errs, errors.New("cache_ttl must not be negative"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("max_upload_bytes must be positive"))
	}
	switch strings.ToLower(c.LogEncoding) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log_encoding %q must be json or console", c.LogEncoding))
	}
	return errors.Join(errs...)
}

// ClientConfig derives the retrieval settings.
func (c Config) ClientConfig() api.Config {
	return api.Config{
		WeaponsURL:  c.WeaponsURL,
		EnemySource: c.EnemySource,
		Timeout:     c.FetchTimeout,
		CacheTTL:    c.CacheTTL,
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if path is
// not empty), then the first .env of EnvPaths, then the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}
	LoadDotEnv(EnvPaths...)
	if err := ApplyEnv(&cfg, os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}
