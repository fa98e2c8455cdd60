package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration.
// Supports environment variables with sensible defaults.
//
// Environment Variables:
// Server Configuration:
// - LOG_LEVEL: Log level, one of debug/info/warn/error (default: info)
// - HOST: Listen host (default: 0.0.0.0)
// - PORT: Listen port (default: 8080)
// - UI_STATIC_DIR: Directory of built web UI assets (optional)
//
// Library Configuration:
// - CACHE_DIR: Root of the per-video cache directories (default: cache)
// - DICT_DIR: Directory of dictionary data files (default: dictionaries)
// - DB_PATH: SQLite path for the video metadata cache (default: data/captions.db)
// - META_TTL_MINUTES: Video metadata cache TTL in minutes (default: 10)
// - META_PRUNE_CRON: Cron expression (with seconds) for pruning expired metadata (default: 0 */10 * * * *)
//
// Tagger Configuration:
// - TAGGER_API_URL: Part-of-speech tagging service URL (default: http://localhost:8081)
// - TAGGER_TIMEOUT: Request timeout in seconds (default: 60)
//
// Translate Configuration:
// - TRANSLATE_API_KEY: API key for the phrase translation service (required)
// - TRANSLATE_API_URL: Phrase translation service URL (default: https://translation.googleapis.com/language/translate/v2)
// - TRANSLATE_TIMEOUT: Request timeout in seconds (default: 30)
// - MAX_GLOSS_LEN: Longest dictionary gloss to accept (default: 15)

type Config struct {
	// Log level name
	LogLevel string `json:"log_level"`

	// Server Configuration
	Server ServerConfig `json:"server"`

	// Library Configuration
	Library LibraryConfig `json:"library"`

	// Tagger Configuration
	Tagger TaggerConfig `json:"tagger"`

	// Translate Configuration
	Translate TranslateConfig `json:"translate"`
}

type ServerConfig struct {
	Host        string `json:"host"`
	Port        int    `json:"port"`
	UIStaticDir string `json:"ui_static_dir"`
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type LibraryConfig struct {
	CacheDir       string `json:"cache_dir"`
	DictDir        string `json:"dict_dir"`
	DBPath         string `json:"db_path"`
	MetaTTLMinutes int    `json:"meta_ttl_minutes"`
	MetaPruneCron  string `json:"meta_prune_cron"`
}

type TaggerConfig struct {
	APIURL  string `json:"api_url"`
	Timeout int    `json:"timeout"`
}

type TranslateConfig struct {
	APIKey      string `json:"api_key"`
	APIURL      string `json:"api_url"`
	Timeout     int    `json:"timeout"`
	MaxGlossLen int    `json:"max_gloss_len"`
}

// Option is a function type for configuring Config
type Option func(*Config)

func WithAddr(host string, port int) Option {
	return func(c *Config) {
		if host != "" {
			c.Server.Host = host
		}
		if port > 0 {
			c.Server.Port = port
		}
	}
}

func WithCacheDir(dir string) Option {
	return func(c *Config) {
		if dir != "" {
			c.Library.CacheDir = dir
		}
	}
}

func WithDictDir(dir string) Option {
	return func(c *Config) {
		if dir != "" {
			c.Library.DictDir = dir
		}
	}
}

// NewFromEnv creates a new Config instance with values from environment variables and options
func NewFromEnv(opts ...Option) (*Config, error) {
	config := &Config{
		LogLevel: getEnvString("LOG_LEVEL", "info"),
		Server: ServerConfig{
			Host:        getEnvString("HOST", "0.0.0.0"),
			Port:        getEnvInt("PORT", 8080),
			UIStaticDir: getEnvString("UI_STATIC_DIR", ""),
		},
		Library: LibraryConfig{
			CacheDir:       getEnvString("CACHE_DIR", "cache"),
			DictDir:        getEnvString("DICT_DIR", "dictionaries"),
			DBPath:         getEnvString("DB_PATH", "data/captions.db"),
			MetaTTLMinutes: getEnvInt("META_TTL_MINUTES", 10),
			MetaPruneCron:  getEnvString("META_PRUNE_CRON", "0 */10 * * * *"),
		},
		Tagger: TaggerConfig{
			APIURL:  getEnvString("TAGGER_API_URL", "http://localhost:8081"),
			Timeout: getEnvInt("TAGGER_TIMEOUT", 60),
		},
		Translate: TranslateConfig{
			APIKey:      getEnvString("TRANSLATE_API_KEY", ""),
			APIURL:      getEnvString("TRANSLATE_API_URL", "https://translation.googleapis.com/language/translate/v2"),
			Timeout:     getEnvInt("TRANSLATE_TIMEOUT", 30),
			MaxGlossLen: getEnvInt("MAX_GLOSS_LEN", 15),
		},
	}

	// Apply custom options
	for _, opt := range opts {
		opt(config)
	}

	// Validate required configuration
	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate checks if all required configuration is properly set
func (c *Config) validate() error {
	if c.Translate.APIKey == "" {
		return fmt.Errorf("TRANSLATE_API_KEY is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if c.Library.MetaTTLMinutes <= 0 {
		return fmt.Errorf("META_TTL_MINUTES must be positive")
	}
	return nil
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
