// Package config loads bestintern settings from a YAML file, a .env file and
// BESTINTERN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/jonathan/bestintern/internal/extraction"
	"github.com/jonathan/bestintern/internal/fetch"
	"github.com/jonathan/bestintern/internal/llm"
	"github.com/jonathan/bestintern/internal/logger"
	"github.com/jonathan/bestintern/internal/storage"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g. BESTINTERN_LLM_MODEL.
const EnvPrefix = "BESTINTERN"

// Config is the full application configuration.
type Config struct {
	LLM      LLMConfig      `mapstructure:"llm" yaml:"llm"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Redis    RedisConfig    `mapstructure:"redis" yaml:"redis"`
	// Minio is optional; nil disables object storage.
	Minio *storage.Config `mapstructure:"minio" yaml:"minio,omitempty" validate:"omitempty"`
	Fetch FetchConfig     `mapstructure:"fetch" yaml:"fetch"`
	Log   logger.Config   `mapstructure:"log" yaml:"log"`
}

// LLMConfig selects the model and how extraction talks to it.
type LLMConfig struct {
	Model          string        `mapstructure:"model" yaml:"model" validate:"required"`
	EmbeddingModel string        `mapstructure:"embedding_model" yaml:"embedding_model"`
	APIKey         string        `mapstructure:"api_key" yaml:"api_key"`
	BaseURL        string        `mapstructure:"base_url" yaml:"base_url" validate:"omitempty,url"`
	SystemPrompt   string        `mapstructure:"system_prompt" yaml:"system_prompt"`
	Temperature    float32       `mapstructure:"temperature" yaml:"temperature" validate:"gte=0,lte=2"`
	NumRetries     int           `mapstructure:"num_retries" yaml:"num_retries" validate:"gte=0"`
	RetryDelay     time.Duration `mapstructure:"retry_delay" yaml:"retry_delay" validate:"gte=0"`
	MaxAttempts    int           `mapstructure:"max_attempts" yaml:"max_attempts" validate:"gte=1"`
}

// DatabaseConfig points at PostgreSQL. An empty URL disables persistence.
type DatabaseConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

// RedisConfig points at the page cache. An empty Addr disables caching.
type RedisConfig struct {
	Addr      string        `mapstructure:"addr" yaml:"addr" validate:"omitempty,hostname_port"`
	Password  string        `mapstructure:"password" yaml:"password"`
	DB        int           `mapstructure:"db" yaml:"db" validate:"gte=0"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl" validate:"gte=0"`
	KeyPrefix string        `mapstructure:"key_prefix" yaml:"key_prefix"`
}

// FetchConfig controls webpage reads.
type FetchConfig struct {
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gt=0"`
	UserAgent   string        `mapstructure:"user_agent" yaml:"user_agent" validate:"required"`
	UseBrowser  bool          `mapstructure:"use_browser" yaml:"use_browser"`
	// AutoBrowser renders statically fetched pages whose text looks incomplete.
	AutoBrowser bool          `mapstructure:"auto_browser" yaml:"auto_browser"`
	WaitTimeout time.Duration `mapstructure:"wait_timeout" yaml:"wait_timeout" validate:"gte=0"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	llmDefaults := llm.DefaultConfig()
	return &Config{
		LLM: LLMConfig{
			Model:          string(llmDefaults.Model),
			EmbeddingModel: llmDefaults.EmbeddingModel,
			APIKey:         "${GEMINI_API_KEY}",
			Temperature:    llmDefaults.Temperature,
			NumRetries:     llmDefaults.NumRetries,
			RetryDelay:     llmDefaults.RetryDelay,
			MaxAttempts:    extraction.DefaultMaxAttempts,
		},
		Redis: RedisConfig{
			TTL:       fetch.DefaultPageCacheTTL,
			KeyPrefix: fetch.DefaultCacheKeyPrefix,
		},
		Fetch: FetchConfig{
			Timeout:     fetch.DefaultTimeout,
			UserAgent:   fetch.DefaultUserAgent,
			WaitTimeout: fetch.DefaultWaitTimeout,
		},
		Log: logger.Config{
			Level:  "info",
			Format: "pretty",
		},
	}
}

// Load reads configuration from path, or from bestintern.yaml in the working
// directory or $HOME/.bestintern when path is empty. A missing default file is
// not an error. Variables in a .env file in the working directory are loaded
// into the environment first without overriding existing ones.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("bestintern")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.bestintern")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.Minio != nil && cfg.Minio.Endpoint == "" && cfg.Minio.Bucket == "" {
		cfg.Minio = nil
	}
	cfg.LLM.APIKey = ResolveEnvVars(cfg.LLM.APIKey)
	cfg.Redis.Password = ResolveEnvVars(cfg.Redis.Password)
	cfg.Database.URL = ResolveEnvVars(cfg.Database.URL)
	if cfg.Minio != nil {
		cfg.Minio.AccessKey = ResolveEnvVars(cfg.Minio.AccessKey)
		cfg.Minio.SecretKey = ResolveEnvVars(cfg.Minio.SecretKey)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every leaf key so environment overrides apply
// even when the key is absent from the file.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("llm.model", cfg.LLM.Model)
	v.SetDefault("llm.embedding_model", cfg.LLM.EmbeddingModel)
	v.SetDefault("llm.api_key", cfg.LLM.APIKey)
	v.SetDefault("llm.base_url", cfg.LLM.BaseURL)
	v.SetDefault("llm.system_prompt", cfg.LLM.SystemPrompt)
	v.SetDefault("llm.temperature", cfg.LLM.Temperature)
	v.SetDefault("llm.num_retries", cfg.LLM.NumRetries)
	v.SetDefault("llm.retry_delay", cfg.LLM.RetryDelay)
	v.SetDefault("llm.max_attempts", cfg.LLM.MaxAttempts)
	v.SetDefault("database.url", cfg.Database.URL)
	v.SetDefault("redis.addr", cfg.Redis.Addr)
	v.SetDefault("redis.password", cfg.Redis.Password)
	v.SetDefault("redis.db", cfg.Redis.DB)
	v.SetDefault("redis.ttl", cfg.Redis.TTL)
	v.SetDefault("redis.key_prefix", cfg.Redis.KeyPrefix)
	v.SetDefault("minio.endpoint", "")
	v.SetDefault("minio.access_key", "")
	v.SetDefault("minio.secret_key", "")
	v.SetDefault("minio.bucket", "")
	v.SetDefault("minio.region", "")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("fetch.timeout", cfg.Fetch.Timeout)
	v.SetDefault("fetch.user_agent", cfg.Fetch.UserAgent)
	v.SetDefault("fetch.use_browser", cfg.Fetch.UseBrowser)
	v.SetDefault("fetch.auto_browser", cfg.Fetch.AutoBrowser)
	v.SetDefault("fetch.wait_timeout", cfg.Fetch.WaitTimeout)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.time_format", cfg.Log.TimeFormat)
	v.SetDefault("log.report_caller", cfg.Log.ReportCaller)
}

var validate = validator.New()

// Validate checks field constraints and that the model is usable.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := c.LLMClientConfig().Validate(); err != nil {
		return fmt.Errorf("config error: llm: %w", err)
	}
	return nil
}

// LLMClientConfig converts the llm section into a client configuration.
func (c *Config) LLMClientConfig() *llm.Config {
	return &llm.Config{
		Model:          llm.Model(c.LLM.Model),
		EmbeddingModel: c.LLM.EmbeddingModel,
		SystemPrompt:   c.LLM.SystemPrompt,
		Temperature:    c.LLM.Temperature,
		NumRetries:     c.LLM.NumRetries,
		RetryDelay:     c.LLM.RetryDelay,
		BaseURL:        c.LLM.BaseURL,
	}
}

// FetchOptions converts the fetch section into fetcher options.
func (c *Config) FetchOptions() *fetch.Options {
	return &fetch.Options{
		Timeout:   c.Fetch.Timeout,
		UserAgent: c.Fetch.UserAgent,
	}
}

var envRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	return envRef.ReplaceAllStringFunc(value, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}

// WriteDefault writes the default configuration to path.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# bestintern configuration
# Secrets use ${ENV_VAR} syntax; any key can be overridden with BESTINTERN_<SECTION>_<KEY>.

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
