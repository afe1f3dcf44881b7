// Package config loads tool configuration from file, environment and
// defaults, with hot reload for long-running batch jobs.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/logan676/translate/internal/home"
	"github.com/logan676/translate/internal/pipeline"
	"github.com/logan676/translate/internal/translator"
)

// PipelineConfig tunes the per-document pipeline.
type PipelineConfig struct {
	PagesPerSegment    int  `mapstructure:"pages_per_segment"`
	SaveInterval       int  `mapstructure:"save_interval"`
	PageBreakInterval  int  `mapstructure:"page_break_interval"`
	TableBreakInterval int  `mapstructure:"table_break_interval"`
	Segmented          bool `mapstructure:"segmented"`
}

// TranslatorConfig configures the translation endpoint and retry policy.
type TranslatorConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"api_key"`
	Model        string        `mapstructure:"model"`
	SystemPrompt string        `mapstructure:"system_prompt"`
	MaxRetries   int           `mapstructure:"max_retries"`
	BackoffBase  time.Duration `mapstructure:"backoff_base"`
	BackoffCap   time.Duration `mapstructure:"backoff_cap"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// BatchConfig bounds multi-document fan-out.
type BatchConfig struct {
	Workers int `mapstructure:"workers"`
}

// Config is the full tool configuration.
type Config struct {
	Pipeline   PipelineConfig   `mapstructure:"pipeline"`
	Translator TranslatorConfig `mapstructure:"translator"`
	Batch      BatchConfig      `mapstructure:"batch"`
}

// defaultSystemPrompt is the fixed domain context supplied once per run.
// The documents this tool was built for are MEP engineering specifications.
const defaultSystemPrompt = "You are a senior translator specialising in " +
	"mechanical, electrical and plumbing (MEP) engineering documents. " +
	"Mechanical covers HVAC, water supply, drainage (storm, waste and soil), " +
	"fire protection and firestopping; electrical covers power (including " +
	"grounding and lightning protection), extra-low voltage, communications, " +
	"security, and energy (diesel generator fuel systems). " +
	"Reply with the translation only, no explanations or summaries."

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			PagesPerSegment:    pipeline.DefaultPagesPerSegment,
			SaveInterval:       pipeline.DefaultSaveInterval,
			PageBreakInterval:  pipeline.DefaultPageBreakInterval,
			TableBreakInterval: pipeline.DefaultTableBreakInterval,
		},
		Translator: TranslatorConfig{
			BaseURL:      "https://api.deepseek.com",
			APIKey:       "${DEEPSEEK_API_KEY}",
			Model:        "deepseek-reasoner",
			SystemPrompt: defaultSystemPrompt,
			MaxRetries:   3,
			BackoffBase:  2 * time.Second,
			BackoffCap:   10 * time.Second,
			Timeout:      120 * time.Second,
		},
		Batch: BatchConfig{Workers: 30},
	}
}

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a config manager and loads initial config.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile string) error {
	defaults := DefaultConfig()
	viper.SetDefault("pipeline.pages_per_segment", defaults.Pipeline.PagesPerSegment)
	viper.SetDefault("pipeline.save_interval", defaults.Pipeline.SaveInterval)
	viper.SetDefault("pipeline.page_break_interval", defaults.Pipeline.PageBreakInterval)
	viper.SetDefault("pipeline.table_break_interval", defaults.Pipeline.TableBreakInterval)
	viper.SetDefault("pipeline.segmented", defaults.Pipeline.Segmented)
	viper.SetDefault("translator.base_url", defaults.Translator.BaseURL)
	viper.SetDefault("translator.api_key", defaults.Translator.APIKey)
	viper.SetDefault("translator.model", defaults.Translator.Model)
	viper.SetDefault("translator.system_prompt", defaults.Translator.SystemPrompt)
	viper.SetDefault("translator.max_retries", defaults.Translator.MaxRetries)
	viper.SetDefault("translator.backoff_base", defaults.Translator.BackoffBase.String())
	viper.SetDefault("translator.backoff_cap", defaults.Translator.BackoffCap.String())
	viper.SetDefault("translator.timeout", defaults.Translator.Timeout.String())
	viper.SetDefault("batch.workers", defaults.Batch.Workers)

	// Environment variables with DOCTRAN_ prefix
	viper.SetEnvPrefix("DOCTRAN")
	viper.AutomaticEnv()

	// Config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if h, err := home.New(""); err == nil {
			viper.AddConfigPath(h.Path())
		}
	}

	// Try to read config file (not required)
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration.
func (cm *Manager) WatchConfig() {
	viper.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	viper.WatchConfig()
}

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	pattern := regexp.MustCompile(`\$\{([^}]+)\}`)
	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// TranslatorClientConfig converts the config for the translator client,
// resolving ${ENV_VAR} references in the API key.
func (c *Config) TranslatorClientConfig() translator.Config {
	return translator.Config{
		BaseURL:      c.Translator.BaseURL,
		APIKey:       ResolveEnvVars(c.Translator.APIKey),
		Model:        c.Translator.Model,
		SystemPrompt: c.Translator.SystemPrompt,
		MaxRetries:   c.Translator.MaxRetries,
		BackoffBase:  c.Translator.BackoffBase,
		BackoffCap:   c.Translator.BackoffCap,
		Timeout:      c.Translator.Timeout,
	}
}

// PipelineRunConfig converts the config for the pipeline runner.
func (c *Config) PipelineRunConfig() pipeline.Config {
	return pipeline.Config{
		PagesPerSegment:    c.Pipeline.PagesPerSegment,
		SaveInterval:       c.Pipeline.SaveInterval,
		PageBreakInterval:  c.Pipeline.PageBreakInterval,
		TableBreakInterval: c.Pipeline.TableBreakInterval,
		Segmented:          c.Pipeline.Segmented,
	}
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	defaults := DefaultConfig()
	doc := map[string]any{
		"pipeline": map[string]any{
			"pages_per_segment":    defaults.Pipeline.PagesPerSegment,
			"save_interval":        defaults.Pipeline.SaveInterval,
			"page_break_interval":  defaults.Pipeline.PageBreakInterval,
			"table_break_interval": defaults.Pipeline.TableBreakInterval,
			"segmented":            defaults.Pipeline.Segmented,
		},
		"translator": map[string]any{
			"base_url":      defaults.Translator.BaseURL,
			"api_key":       defaults.Translator.APIKey,
			"model":         defaults.Translator.Model,
			"system_prompt": defaults.Translator.SystemPrompt,
			"max_retries":   defaults.Translator.MaxRetries,
			"backoff_base":  defaults.Translator.BackoffBase.String(),
			"backoff_cap":   defaults.Translator.BackoffCap.String(),
			"timeout":       defaults.Translator.Timeout.String(),
		},
		"batch": map[string]any{
			"workers": defaults.Batch.Workers,
		},
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# doctran configuration
# API keys use ${ENV_VAR} syntax to reference environment variables
# Set these in your shell: export DEEPSEEK_API_KEY=xxx

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
