// Package config loads application configuration from config.yaml, the
// environment and a .env file, and owns global logger setup.
package config

import (
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/waypoint-ops/itinerary-cli/internal/cost"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Mail      MailConfig      `yaml:"mail" mapstructure:"mail"`
	Extract   ExtractConfig   `yaml:"extract" mapstructure:"extract"`
	Keywords  KeywordsConfig  `yaml:"keywords" mapstructure:"keywords"`
	Geo       GeoConfig       `yaml:"geo" mapstructure:"geo"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
	Pricing   cost.Rates      `yaml:"pricing" mapstructure:"pricing"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the run history backend. Driver is "sqlite",
// "postgres" or "none" (persistence disabled).
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// MailConfig configures the mail corpus scan.
type MailConfig struct {
	Dir         string `yaml:"dir" mapstructure:"dir"`
	Workers     int    `yaml:"workers" mapstructure:"workers"`
	MaxRelevant int    `yaml:"max_relevant" mapstructure:"max_relevant"`
}

// ExtractConfig configures extraction batching, pacing and retries.
type ExtractConfig struct {
	BatchSize         int  `yaml:"batch_size" mapstructure:"batch_size"`
	MaxContentChars   int  `yaml:"max_content_chars" mapstructure:"max_content_chars"`
	InterBatchDelayMS int  `yaml:"inter_batch_delay_ms" mapstructure:"inter_batch_delay_ms"`
	MaxAttempts       int  `yaml:"max_attempts" mapstructure:"max_attempts"`
	UseBatchAPI       bool `yaml:"use_batch_api" mapstructure:"use_batch_api"`
}

// KeywordsConfig points at the travel vocabulary file.
type KeywordsConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// GeoConfig points at the optional location-overrides file.
type GeoConfig struct {
	OverridesPath string `yaml:"overrides_path" mapstructure:"overrides_path"`
}

// OutputConfig configures where annotated tables are written.
type OutputConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// ServerConfig configures the report server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// defaultWorkers bounds document-parsing parallelism.
func defaultWorkers() int {
	w := runtime.GOMAXPROCS(0)
	if w > 12 {
		w = 12
	}
	return w
}

// Load reads configuration from .env, config.yaml and the environment.
func Load() (*Config, error) {
	// A missing .env is the normal case outside development.
	_ = godotenv.Load()

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ITINERARY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "itinerary.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 4096)
	v.SetDefault("mail.workers", defaultWorkers())
	v.SetDefault("mail.max_relevant", 1000)
	v.SetDefault("extract.batch_size", 8)
	v.SetDefault("extract.max_content_chars", 800)
	v.SetDefault("extract.inter_batch_delay_ms", 1000)
	v.SetDefault("extract.max_attempts", 3)
	v.SetDefault("keywords.path", "keywords.txt")
	v.SetDefault("output.dir", ".")
	v.SetDefault("pricing.anthropic", cost.DefaultRates().Anthropic)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the fields a run mode depends on. Modes that never touch
// the extraction service do not require an API key.
func (c *Config) Validate(mode string) error {
	var missing []string

	switch c.Store.Driver {
	case "sqlite":
		if c.Store.Path == "" {
			missing = append(missing, "store.path is required for the sqlite driver")
		}
	case "postgres":
		if c.Store.DatabaseURL == "" {
			missing = append(missing, "store.database_url is required for the postgres driver")
		}
	case "none":
	default:
		missing = append(missing, "store.driver must be sqlite, postgres or none")
	}

	switch mode {
	case "reconcile":
		if c.Anthropic.Key == "" {
			missing = append(missing, "anthropic.key is required")
		}
	case "serve":
		if c.Server.Port <= 0 {
			missing = append(missing, "server.port must be > 0")
		}
		if c.Store.Driver == "none" {
			missing = append(missing, "store.driver none cannot serve run history")
		}
	case "gaps", "check", "annotate", "runs":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(missing) > 0 {
		return eris.New("config: " + strings.Join(missing, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
