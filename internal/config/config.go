package config

// #region imports
import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/danielpatrickdp/orchestra/internal/logging"
	"github.com/danielpatrickdp/orchestra/internal/orchestrator"
	"github.com/danielpatrickdp/orchestra/internal/provider"
)

// #endregion

// EnvPrefix namespaces environment overrides, e.g. ORCHESTRA_SERVER_ADDR.
const EnvPrefix = "ORCHESTRA"

// #region types

// Config is the full process configuration.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Orchestrator OrchestratorConfig `mapstructure:"orchestrator"`
	Storage      StorageConfig      `mapstructure:"storage"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	Tracing      TracingConfig      `mapstructure:"tracing"`
	Providers    []ProviderConfig   `mapstructure:"providers"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	RateLimit    float64       `mapstructure:"rate_limit"` // requests per second, 0 = unlimited
	RateBurst    int           `mapstructure:"rate_burst"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type OrchestratorConfig struct {
	DefaultProvider string        `mapstructure:"default_provider"`
	MaxAttempts     int           `mapstructure:"max_attempts"`
	ProviderTimeout time.Duration `mapstructure:"provider_timeout"`
	HistoryWindow   int           `mapstructure:"history_window"`
	SystemPrompt    string        `mapstructure:"system_prompt"`
}

// StorageConfig selects where conversations and the attempt log live.
type StorageConfig struct {
	Driver   string `mapstructure:"driver"` // memory | sqlite
	Path     string `mapstructure:"path"`
	MaxTurns int    `mapstructure:"max_turns"` // memory driver only, 0 = unbounded
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type TracingConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// ProviderConfig is the file form of provider.Config. APIKeyEnv names an
// environment variable that supplies the key when APIKey is empty.
type ProviderConfig struct {
	ID           string   `mapstructure:"id"`
	Name         string   `mapstructure:"name"`
	Type         string   `mapstructure:"type"`
	Endpoint     string   `mapstructure:"endpoint"`
	APIKey       string   `mapstructure:"api_key"`
	APIKeyEnv    string   `mapstructure:"api_key_env"`
	Model        string   `mapstructure:"model"`
	Capabilities []string `mapstructure:"capabilities"`
	MaxContext   int      `mapstructure:"max_context"`
	Temperature  float64  `mapstructure:"temperature"`
	MaxTokens    int      `mapstructure:"max_tokens"`
}

// #endregion

// #region defaults

// Default returns the built-in configuration: the four product providers,
// in-memory storage and a 30s provider timeout.
func Default() Config {
	oc := orchestrator.DefaultConfig()
	return Config{
		Server: ServerConfig{
			Addr:         ":8080",
			RateLimit:    10,
			RateBurst:    20,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 120 * time.Second,
		},
		Orchestrator: OrchestratorConfig{
			DefaultProvider: oc.DefaultProvider,
			MaxAttempts:     oc.MaxAttempts,
			ProviderTimeout: oc.ProviderTimeout,
			HistoryWindow:   oc.HistoryWindow,
			SystemPrompt:    oc.SystemPrompt,
		},
		Storage: StorageConfig{Driver: "memory", Path: "orchestra.db", MaxTurns: 500},
		Logging: LoggingConfig{Level: "info"},
		Providers: []ProviderConfig{
			{
				ID: "openai", Name: "OpenAI GPT-4", Type: "openai", APIKeyEnv: "OPENAI_API_KEY",
				Model: "gpt-4", Capabilities: []string{"chat", "analysis", "code"},
				MaxContext: 8192, Temperature: 0.7,
			},
			{
				ID: "claude", Name: "Anthropic Claude", Type: "claude", APIKeyEnv: "ANTHROPIC_API_KEY",
				Model: "claude-3-sonnet-20240229", Capabilities: []string{"chat", "analysis", "long-context"},
				MaxContext: 100000, Temperature: 0.7,
			},
			{
				ID: "gemini", Name: "Google Gemini", Type: "gemini", APIKeyEnv: "GEMINI_API_KEY",
				Model: "gemini-pro", Capabilities: []string{"chat", "multimodal", "vision"},
				MaxContext: 32000, Temperature: 0.7,
			},
			{
				ID: "custom", Name: "Custom Agent", Type: "custom", APIKeyEnv: "CUSTOM_AI_KEY",
				Endpoint: "http://localhost:9000/generate", Capabilities: []string{"specialized"},
				MaxContext: 4096, Temperature: 0.7,
			},
		},
	}
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.rate_limit", d.Server.RateLimit)
	v.SetDefault("server.rate_burst", d.Server.RateBurst)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)

	v.SetDefault("orchestrator.default_provider", d.Orchestrator.DefaultProvider)
	v.SetDefault("orchestrator.max_attempts", d.Orchestrator.MaxAttempts)
	v.SetDefault("orchestrator.provider_timeout", d.Orchestrator.ProviderTimeout)
	v.SetDefault("orchestrator.history_window", d.Orchestrator.HistoryWindow)
	v.SetDefault("orchestrator.system_prompt", d.Orchestrator.SystemPrompt)

	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("storage.max_turns", d.Storage.MaxTurns)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.pretty", d.Logging.Pretty)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
}

// #endregion

// #region load

// Load reads the YAML file at path (skipped when path is empty) and applies
// ORCHESTRA_* environment overrides on top of the defaults. A file without a
// providers list keeps the default providers.
func Load(path string) (*Config, error) {
	d := Default()

	v := viper.New()
	setDefaults(v, d)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(cfg.Providers) == 0 {
		cfg.Providers = d.Providers
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// #endregion

// #region validate

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Providers) == 0 {
		errs = append(errs, errors.New("no providers configured"))
	}
	known := make(map[string]bool)
	for _, t := range provider.Types() {
		known[t] = true
	}
	seen := make(map[string]bool)
	for i, p := range c.Providers {
		if p.ID == "" {
			errs = append(errs, fmt.Errorf("providers[%d]: id is required", i))
			continue
		}
		if seen[p.ID] {
			errs = append(errs, fmt.Errorf("providers[%d]: duplicate id %q", i, p.ID))
		}
		seen[p.ID] = true
		if !known[p.Type] {
			errs = append(errs, fmt.Errorf("provider %s: unknown type %q", p.ID, p.Type))
		}
		for _, capName := range p.Capabilities {
			if _, ok := provider.ParseCapability(capName); !ok {
				errs = append(errs, fmt.Errorf("provider %s: unknown capability %q", p.ID, capName))
			}
		}
	}

	if c.Orchestrator.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("orchestrator.max_attempts must be positive, got %d", c.Orchestrator.MaxAttempts))
	}
	if c.Orchestrator.ProviderTimeout < 0 {
		errs = append(errs, errors.New("orchestrator.provider_timeout must not be negative"))
	}
	switch c.Storage.Driver {
	case "memory", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("storage.driver must be memory or sqlite, got %q", c.Storage.Driver))
	}
	if c.Storage.Driver == "sqlite" && c.Storage.Path == "" {
		errs = append(errs, errors.New("storage.path is required for sqlite"))
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, errors.New("server.rate_limit must not be negative"))
	}

	return errors.Join(errs...)
}

// #endregion

// #region conversions

// ProviderConfigs resolves keys from the environment and parses capabilities.
func (c *Config) ProviderConfigs() []provider.Config {
	out := make([]provider.Config, 0, len(c.Providers))
	for _, p := range c.Providers {
		key := p.APIKey
		if key == "" && p.APIKeyEnv != "" {
			key = os.Getenv(p.APIKeyEnv)
		}
		var caps []provider.Capability
		for _, name := range p.Capabilities {
			if capability, ok := provider.ParseCapability(name); ok {
				caps = append(caps, capability)
			}
		}
		out = append(out, provider.Config{
			ID:           p.ID,
			Name:         p.Name,
			Type:         p.Type,
			Endpoint:     p.Endpoint,
			APIKey:       key,
			Model:        p.Model,
			Capabilities: caps,
			MaxContext:   p.MaxContext,
			Temperature:  p.Temperature,
			MaxTokens:    p.MaxTokens,
		})
	}
	return out
}

func (c *Config) ManagerConfig() orchestrator.Config {
	return orchestrator.Config{
		DefaultProvider: c.Orchestrator.DefaultProvider,
		MaxAttempts:     c.Orchestrator.MaxAttempts,
		ProviderTimeout: c.Orchestrator.ProviderTimeout,
		HistoryWindow:   c.Orchestrator.HistoryWindow,
		SystemPrompt:    c.Orchestrator.SystemPrompt,
	}
}

func (c *Config) LoggerConfig() logging.Config {
	return logging.Config{Level: c.Logging.Level, Pretty: c.Logging.Pretty}
}

// #endregion
