package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	LLM       LLMConfig       `mapstructure:"llm"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// Enabled gates rate limiting; when false the limiter always allows.
	Enabled bool `mapstructure:"enabled"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LLMConfig configures the upstream completion API (OpenAI-compatible)
type LLMConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Retries int           `mapstructure:"retries"`
	Models  ModelConfig   `mapstructure:"models"`
}

// ModelConfig selects a model per stage family
type ModelConfig struct {
	Suggest   string `mapstructure:"suggest"`
	Summarize string `mapstructure:"summarize"`
	Generate  string `mapstructure:"generate"`
	Refine    string `mapstructure:"refine"`
	Reflect   string `mapstructure:"reflect"`
}

// RateLimitConfig holds per-bucket requests-per-minute limits
type RateLimitConfig struct {
	SuggestPerMinute   int `mapstructure:"suggest_per_minute"`
	SummarizePerMinute int `mapstructure:"summarize_per_minute"`
	GeneratePerMinute  int `mapstructure:"generate_per_minute"`
	RefinePerMinute    int `mapstructure:"refine_per_minute"`
}

type TelemetryConfig struct {
	// Endpoint is the OTLP HTTP endpoint; empty disables tracing.
	Endpoint       string `mapstructure:"endpoint"`
	ServiceName    string `mapstructure:"service_name"`
	ServiceVersion string `mapstructure:"service_version"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
		// Config file not found, use defaults and env vars
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	// Streamed generations can run for minutes; the write timeout must outlast them.
	v.SetDefault("server.write_timeout", "300s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "15s")

	// Database
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "decisionloom")
	v.SetDefault("database.database", "decisionloom")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)

	// Redis
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.enabled", true)

	// LLM
	v.SetDefault("llm.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("llm.timeout", "120s")
	v.SetDefault("llm.retries", 0)
	v.SetDefault("llm.models.suggest", "anthropic/claude-3.5-sonnet")
	v.SetDefault("llm.models.summarize", "anthropic/claude-3.5-sonnet")
	v.SetDefault("llm.models.generate", "anthropic/claude-3.5-sonnet")
	v.SetDefault("llm.models.refine", "anthropic/claude-3.5-sonnet")
	v.SetDefault("llm.models.reflect", "anthropic/claude-3.5-sonnet")

	// Rate limiting (sliding one-minute windows, matched per stage family)
	v.SetDefault("ratelimit.suggest_per_minute", 30)
	v.SetDefault("ratelimit.summarize_per_minute", 10)
	v.SetDefault("ratelimit.generate_per_minute", 5)
	v.SetDefault("ratelimit.refine_per_minute", 10)

	// Telemetry
	v.SetDefault("telemetry.service_name", "decision-loom")
	v.SetDefault("telemetry.service_version", "0.1.0")

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

func bindEnvVars(v *viper.Viper) {
	// Database
	v.BindEnv("database.password", "POSTGRES_PASSWORD")
	v.BindEnv("database.host", "POSTGRES_HOST")

	// Redis
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.host", "REDIS_HOST")

	// LLM
	v.BindEnv("llm.api_key", "OPENROUTER_API_KEY")
	v.BindEnv("llm.base_url", "OPENROUTER_BASE_URL")
	v.BindEnv("llm.models.suggest", "OPENROUTER_MODEL_SUGGEST")
	v.BindEnv("llm.models.summarize", "OPENROUTER_MODEL_SUMMARY")
	v.BindEnv("llm.models.generate", "OPENROUTER_MODEL_GENERATE")
	v.BindEnv("llm.models.refine", "OPENROUTER_MODEL_REFINE")
	v.BindEnv("llm.models.reflect", "OPENROUTER_MODEL_REFLECT")

	// Telemetry
	v.BindEnv("telemetry.endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT")
	v.BindEnv("telemetry.service_name", "OTEL_SERVICE_NAME")
}
