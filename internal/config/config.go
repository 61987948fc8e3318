package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// CorpusConfig points at an optional YAML corpus file. Empty uses the built-in FAQ.
type CorpusConfig struct {
	Path string `yaml:"path"`
}

// RetrievalConfig configures the confidence gate.
type RetrievalConfig struct {
	Threshold float64 `yaml:"threshold"`
}

// OpenAIConfig holds configuration for the OpenAI-compatible fallback generator.
type OpenAIConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Model       string  `yaml:"model"`
	TimeoutSecs int     `yaml:"timeout_secs"`
	Temperature *float32 `yaml:"temperature"` // unset means 0.2
}

// FallbackConfig selects the fallback generator and the static message.
type FallbackConfig struct {
	Type    string        `yaml:"type"` // auto, openai, none
	Message string        `yaml:"message,omitempty"`
	OpenAI  *OpenAIConfig `yaml:"openai,omitempty"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Addr            string `yaml:"addr"`
	ReadTimeoutSec  int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec"`
	ShutdownSec     int    `yaml:"shutdown_timeout_sec"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Env   string `yaml:"env"`   // prod, local, dev
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // required for log output in the terminal UI
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Corpus    CorpusConfig    `yaml:"corpus"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Fallback  FallbackConfig  `yaml:"fallback"`
	HTTP      HTTPConfig      `yaml:"http"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
// Keys missing from the file keep their default values.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	applyConfigDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/faqagent/config.yaml.
// If neither exists, it writes defaults to ~/.config/faqagent/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks value ranges and enumerations.
func (c *AppConfig) Validate() error {
	if math.IsNaN(c.Retrieval.Threshold) || c.Retrieval.Threshold < 0 || c.Retrieval.Threshold > 1 {
		return fmt.Errorf("retrieval.threshold %v outside [0, 1]", c.Retrieval.Threshold)
	}
	switch c.Fallback.Type {
	case "auto", "openai", "none":
	default:
		return fmt.Errorf("unknown fallback.type %q", c.Fallback.Type)
	}
	switch c.Logging.Env {
	case "prod", "local", "dev":
	default:
		return fmt.Errorf("unknown logging.env %q", c.Logging.Env)
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "faqagent", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Retrieval: RetrievalConfig{Threshold: 0.22},
		Fallback:  FallbackConfig{Type: "auto", OpenAI: &OpenAIConfig{}},
		HTTP:      HTTPConfig{Addr: ":8080", ReadTimeoutSec: 10, WriteTimeoutSec: 60, ShutdownSec: 10},
		Logging:   LoggingConfig{Env: "local", Level: "info"},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Fallback.Type == "" {
		cfg.Fallback.Type = "auto"
	}
	if cfg.Fallback.OpenAI == nil {
		cfg.Fallback.OpenAI = &OpenAIConfig{}
	}
	o := cfg.Fallback.OpenAI
	if o.BaseURL == "" {
		o.BaseURL = "https://api.openai.com/v1"
	}
	if o.APIKeyEnv == "" {
		o.APIKeyEnv = "OPENAI_API_KEY"
	}
	if o.Model == "" {
		o.Model = "gpt-4o-mini"
	}
	if o.TimeoutSecs == 0 {
		o.TimeoutSecs = 30
	}
	if o.Temperature == nil {
		t := float32(0.2)
		o.Temperature = &t
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.HTTP.ShutdownSec == 0 {
		cfg.HTTP.ShutdownSec = 10
	}
	if cfg.Logging.Env == "" {
		cfg.Logging.Env = "local"
	}
}
