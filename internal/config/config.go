package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Provider identifies which LLM vendor backs a pipeline.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// Config is the complete service configuration. It is loaded once at
// startup and injected into the components that need it; nothing reads
// ambient environment state at call time.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	AI     AIConfig     `mapstructure:"ai"`
	Retry  RetryConfig  `mapstructure:"retry"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// AIConfig contains LLM provider settings.
type AIConfig struct {
	Provider        Provider      `mapstructure:"provider"`
	GeminiAPIKey    string        `mapstructure:"gemini_api_key"`
	GeminiModel     string        `mapstructure:"gemini_model"`
	OpenAIAPIKey    string        `mapstructure:"openai_api_key"`
	OpenAIBaseURL   string        `mapstructure:"openai_base_url"`
	OpenAIModel     string        `mapstructure:"openai_model"`
	TextTimeout     time.Duration `mapstructure:"text_timeout"`
	DocumentTimeout time.Duration `mapstructure:"document_timeout"`
}

// RetryConfig contains backoff settings for outbound LLM calls.
type RetryConfig struct {
	MaxRetries int           `mapstructure:"max_retries"`
	BaseDelay  time.Duration `mapstructure:"base_delay"`
	MaxDelay   time.Duration `mapstructure:"max_delay"`
}

// Load reads configuration from an optional .env file, a config file if
// one is present, and environment variables (TREASURY_* keys override
// everything else).
func Load() (*Config, error) {
	// .env is optional; local development convenience only.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("config: loading .env: %w", err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/treasury-ai")
	if err := v.ReadInConfig(); err != nil {
		// Config file is optional; env vars and defaults are enough.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("TREASURY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bare vendor keys are the conventional names; honor them too.
	bindVendorKeys(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 90*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)

	v.SetDefault("ai.provider", string(ProviderGemini))
	v.SetDefault("ai.gemini_model", "gemini-2.5-flash")
	v.SetDefault("ai.openai_base_url", "https://api.openai.com/v1")
	v.SetDefault("ai.openai_model", "gpt-4-turbo-preview")
	v.SetDefault("ai.text_timeout", 30*time.Second)
	v.SetDefault("ai.document_timeout", 60*time.Second)

	v.SetDefault("retry.max_retries", 3)
	v.SetDefault("retry.base_delay", time.Second)
	v.SetDefault("retry.max_delay", 30*time.Second)
}

// bindVendorKeys registers the conventional bare key names as aliases.
// They sit in the normal env layer, so a TREASURY_* override still wins.
func bindVendorKeys(v *viper.Viper) {
	v.BindEnv("ai.gemini_api_key", "GEMINI_API_KEY")
	v.BindEnv("ai.openai_api_key", "OPENAI_API_KEY")
}

// Validate checks that the selected provider is usable.
func (c *Config) Validate() error {
	switch c.AI.Provider {
	case ProviderGemini:
		if c.AI.GeminiAPIKey == "" {
			return fmt.Errorf("config: gemini provider selected but GEMINI_API_KEY is not set")
		}
	case ProviderOpenAI:
		if c.AI.OpenAIAPIKey == "" {
			return fmt.Errorf("config: openai provider selected but OPENAI_API_KEY is not set")
		}
	default:
		return fmt.Errorf("config: unknown ai provider %q", c.AI.Provider)
	}
	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("config: retry.max_retries must not be negative")
	}
	return nil
}
