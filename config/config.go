package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Speech    SpeechConfig    `mapstructure:"speech"`
	Session   SessionConfig   `mapstructure:"session"`
	Matching  MatchingConfig  `mapstructure:"matching"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// TrustedProxies lists proxy IPs or CIDRs whose X-Forwarded-For is honoured.
	// Empty means the socket address is always the client IP.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// AnthropicConfig holds conversation engine configuration
type AnthropicConfig struct {
	APIKey              string  `mapstructure:"api_key"`
	BaseURL             string  `mapstructure:"base_url"`
	Model               string  `mapstructure:"model"`
	MaxTokens           int64   `mapstructure:"max_tokens"`
	Temperature         float64 `mapstructure:"temperature"`
	AnalysisTemperature float64 `mapstructure:"analysis_temperature"`
	MaxRetries          int     `mapstructure:"max_retries"`
}

// SpeechConfig holds text-to-speech configuration
type SpeechConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	APIKey  string  `mapstructure:"api_key"`
	BaseURL string  `mapstructure:"base_url"`
	Model   string  `mapstructure:"model"`
	Voice   string  `mapstructure:"voice"`
	Speed   float64 `mapstructure:"speed"`
}

// SessionConfig holds session store configuration
type SessionConfig struct {
	Store    string        `mapstructure:"store"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// MatchingConfig holds recommendation configuration
type MatchingConfig struct {
	CatalogPath        string `mapstructure:"catalog_path"` // empty uses the shipped catalog
	AnalyzeProfile     bool   `mapstructure:"analyze_profile"`
	FallbackToCatalog  bool   `mapstructure:"fallback_to_catalog"`
	EnableDebugLogging bool   `mapstructure:"enable_debug_logging"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute per client
	LLM   int `mapstructure:"llm"`    // engine calls per minute
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/skiconcierge/")

	// Environment variable settings: SKICONCIERGE_ANTHROPIC_API_KEY -> anthropic.api_key
	v.SetEnvPrefix("SKICONCIERGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads .env from the working directory without overriding
// variables that are already set. A missing file is not an error.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values.
// Every key needs a default, even an empty one, so AutomaticEnv can bind it on Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.trusted_proxies", []string{})

	// Anthropic defaults
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.base_url", "")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 300)
	v.SetDefault("anthropic.temperature", 0.7)
	v.SetDefault("anthropic.analysis_temperature", 0.1)
	v.SetDefault("anthropic.max_retries", 2)

	// Speech defaults
	v.SetDefault("speech.enabled", false)
	v.SetDefault("speech.api_key", "")
	v.SetDefault("speech.base_url", "https://api.openai.com/v1")
	v.SetDefault("speech.model", "tts-1")
	v.SetDefault("speech.voice", "nova")
	v.SetDefault("speech.speed", 1.0)

	// Session defaults
	v.SetDefault("session.store", "memory")
	v.SetDefault("session.redis_url", "")
	v.SetDefault("session.ttl", "24h")

	// Matching defaults
	v.SetDefault("matching.catalog_path", "")
	v.SetDefault("matching.analyze_profile", true)
	v.SetDefault("matching.fallback_to_catalog", true)
	v.SetDefault("matching.enable_debug_logging", false)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)
	v.SetDefault("ratelimit.llm", 50)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Anthropic.APIKey == "" {
		return fmt.Errorf("Anthropic API key is required (set SKICONCIERGE_ANTHROPIC_API_KEY)")
	}

	if config.Session.Store != "memory" && config.Session.Store != "redis" {
		return fmt.Errorf("session store must be 'memory' or 'redis', got: %s", config.Session.Store)
	}

	if config.Session.Store == "redis" && config.Session.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when session store is 'redis'")
	}

	if config.Speech.Enabled && config.Speech.APIKey == "" {
		return fmt.Errorf("speech API key is required when speech is enabled (set SKICONCIERGE_SPEECH_API_KEY)")
	}

	for _, proxy := range config.Server.TrustedProxies {
		if !validProxy(proxy) {
			return fmt.Errorf("trusted proxy %q is not an IP address or CIDR", proxy)
		}
	}

	if config.Log.Level != "" {
		if _, err := zapcore.ParseLevel(config.Log.Level); err != nil {
			return fmt.Errorf("invalid log level %q", config.Log.Level)
		}
	}

	return nil
}

func validProxy(proxy string) bool {
	if net.ParseIP(proxy) != nil {
		return true
	}
	_, _, err := net.ParseCIDR(proxy)
	return err == nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// InitLogger installs the global zap logger
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return eris.Wrap(err, "config: parse log level")
		}
		zapCfg.Level.SetLevel(level)
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
