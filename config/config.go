package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the travel planning system.
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Workers   WorkersConfig   `mapstructure:"workers"`
	Dataset   DatasetConfig   `mapstructure:"dataset"`
	Services  ServicesConfig  `mapstructure:"services"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings.
type GeneralConfig struct {
	Debug             bool          `mapstructure:"debug"`
	LogLevel          string        `mapstructure:"log_level"`
	MaxProcessingTime time.Duration `mapstructure:"max_processing_time"`
	DefaultTimeout    time.Duration `mapstructure:"default_timeout"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// LLMConfig configures the reasoning-oracle endpoint. The endpoint speaks the
// OpenAI chat-completions protocol; OpenRouter is the default host.
type LLMConfig struct {
	APIKey       string            `mapstructure:"api_key"`
	BaseURL      string            `mapstructure:"base_url"`
	Model        string            `mapstructure:"model"`
	Timeout      time.Duration     `mapstructure:"timeout"`
	MaxRetries   int               `mapstructure:"max_retries"`
	Temperatures TemperatureConfig `mapstructure:"temperatures"`
}

// TemperatureConfig sets the determinism knob per oracle binding. Flight,
// weather and budget bindings run cooler than the activity binding.
type TemperatureConfig struct {
	Dispatcher float64 `mapstructure:"dispatcher"`
	Flight     float64 `mapstructure:"flight"`
	Activity   float64 `mapstructure:"activity"`
	Weather    float64 `mapstructure:"weather"`
	Budget     float64 `mapstructure:"budget"`
}

func (l LLMConfig) Validate() error {
	if strings.TrimSpace(l.Model) == "" {
		return fmt.Errorf("llm.model is required")
	}
	if l.Timeout <= 0 {
		return fmt.Errorf("llm.timeout must be > 0")
	}
	return nil
}

// WorkersConfig contains worker execution settings.
type WorkersConfig struct {
	WorkerTimeout      time.Duration `mapstructure:"worker_timeout"`
	MaxConcurrentCalls int           `mapstructure:"max_concurrent_calls"`
}

// DatasetConfig selects the reference-data backend.
type DatasetConfig struct {
	Source   string         `mapstructure:"source"` // embedded or postgres
	Postgres PostgresConfig `mapstructure:"postgres"`
}

func (d DatasetConfig) Validate() error {
	switch d.Source {
	case "", "embedded":
		return nil
	case "postgres":
		return d.Postgres.Validate()
	default:
		return fmt.Errorf("dataset.source must be embedded or postgres, got %q", d.Source)
	}
}

// PostgresConfig contains Postgres connection settings.
type PostgresConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN returns the connection string, preferring the explicit URL.
func (p PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	host := p.Host
	if host == "" {
		host = "localhost"
	}
	port := p.Port
	if port == "" {
		port = "5432"
	}
	ssl := p.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", p.User, p.Password, host, port, p.DBName, ssl)
}

func (p PostgresConfig) Validate() error {
	if strings.TrimSpace(p.URL) != "" {
		return nil
	}
	if strings.TrimSpace(p.Host) == "" {
		return fmt.Errorf("dataset.postgres.host required when url is not provided")
	}
	if strings.TrimSpace(p.DBName) == "" {
		return fmt.Errorf("dataset.postgres.dbname required when url is not provided")
	}
	return nil
}

// ServicesConfig configures the external network services.
type ServicesConfig struct {
	Weather  WeatherConfig  `mapstructure:"weather"`
	Currency CurrencyConfig `mapstructure:"currency"`
}

// WeatherConfig contains forecast service settings.
type WeatherConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CurrencyConfig contains exchange-rate service settings. FallbackRate is
// used when the live endpoint is unreachable.
type CurrencyConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FallbackRate float64       `mapstructure:"fallback_rate"`
}

// CacheConfig contains the optional Redis cache in front of the external
// services. Disabled by default; cache failures never fail a request.
type CacheConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Addr returns the host:port address of the Redis server.
func (c CacheConfig) Addr() string {
	host := c.Host
	if host == "" {
		host = "localhost"
	}
	port := c.Port
	if port == "" {
		port = "6379"
	}
	return host + ":" + port
}

// TracingConfig configures the optional external tracing sink. The sink is
// active only when both keys are set.
type TracingConfig struct {
	PublicKey     string        `mapstructure:"public_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	Host          string        `mapstructure:"host"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
}

// Enabled reports whether credentials are configured.
func (t TracingConfig) Enabled() bool {
	return t.PublicKey != "" && t.SecretKey != ""
}

// TelemetryConfig contains telemetry and monitoring settings.
type TelemetryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	MetricsPort  int    `mapstructure:"metrics_port"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	CostTracking bool   `mapstructure:"cost_tracking"`
	PeriodicLogs bool   `mapstructure:"periodic_logs"`
}

func (t TelemetryConfig) Validate() error {
	if t.Enabled && t.MetricsPort <= 0 {
		return fmt.Errorf("telemetry.metrics_port must be > 0 when telemetry is enabled")
	}
	return nil
}

// LoadConfig loads config from file with env overrides (RUTERO_*). A missing
// config file is not an error; defaults and the environment carry the load.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")

	v.SetDefault("general.log_level", "info")
	v.SetDefault("general.max_processing_time", "5m")
	v.SetDefault("general.default_timeout", "30s")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("llm.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("llm.model", "anthropic/claude-3.5-sonnet")
	v.SetDefault("llm.timeout", "90s")
	v.SetDefault("llm.max_retries", 2)
	v.SetDefault("llm.temperatures.dispatcher", 0.3)
	v.SetDefault("llm.temperatures.flight", 0.3)
	v.SetDefault("llm.temperatures.activity", 0.5)
	v.SetDefault("llm.temperatures.weather", 0.3)
	v.SetDefault("llm.temperatures.budget", 0.2)
	v.SetDefault("workers.worker_timeout", "2m")
	v.SetDefault("workers.max_concurrent_calls", 4)
	v.SetDefault("dataset.source", "embedded")
	v.SetDefault("services.weather.base_url", "https://api.open-meteo.com/v1")
	v.SetDefault("services.weather.timeout", "15s")
	v.SetDefault("services.currency.base_url", "https://api.exchangerate-api.com/v4")
	v.SetDefault("services.currency.timeout", "15s")
	v.SetDefault("services.currency.fallback_rate", 1000.0)
	v.SetDefault("cache.ttl", "30m")
	v.SetDefault("tracing.host", "https://cloud.langfuse.com")
	v.SetDefault("tracing.flush_interval", "5s")
	v.SetDefault("telemetry.metrics_port", 9090)

	if path == "" {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		v.AddConfigPath(exeDir)
		v.AddConfigPath(filepath.Join(exeDir, "..", "config"))
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("RUTERO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENROUTER_API_KEY")
	}
	if cfg.Tracing.PublicKey == "" {
		cfg.Tracing.PublicKey = os.Getenv("LANGFUSE_PUBLIC_KEY")
	}
	if cfg.Tracing.SecretKey == "" {
		cfg.Tracing.SecretKey = os.Getenv("LANGFUSE_SECRET_KEY")
	}

	if err := cfg.LLM.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Dataset.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Telemetry.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
