package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is built once at process start and passed into each component; no
// ambient lookups happen after Load returns.
type Config struct {
	Model            string  `yaml:"model" mapstructure:"model"`
	APIKey           string  `yaml:"api_key" mapstructure:"api_key"`
	BaseURL          string  `yaml:"base_url" mapstructure:"base_url"`
	HistoryLength    int     `yaml:"history_length" mapstructure:"history_length"`
	Temperature      float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens        int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	TopP             float64 `yaml:"top_p" mapstructure:"top_p"`
	FrequencyPenalty float64 `yaml:"frequency_penalty" mapstructure:"frequency_penalty"`
	PresencePenalty  float64 `yaml:"presence_penalty" mapstructure:"presence_penalty"`
	MaxRetries       int     `yaml:"max_retries" mapstructure:"max_retries"`

	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`

	// TransformPrompt switches context building into transformation mode.
	TransformPrompt string `yaml:"transformation_prompt" mapstructure:"transformation_prompt"`
	// JailbreakPrompt and Unlocked control the synthetic persona seed pair.
	JailbreakPrompt string `yaml:"jailbreak_prompt" mapstructure:"jailbreak_prompt"`
	Unlocked        bool   `yaml:"unlocked" mapstructure:"unlocked"`

	ErrorPrompts []string `yaml:"error_prompts" mapstructure:"error_prompts"`
	ClearPrompts []string `yaml:"clear_prompts" mapstructure:"clear_prompts"`

	Markdown bool `yaml:"markdown" mapstructure:"markdown"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:         "gpt-3.5-turbo",
		BaseURL:       "https://api.openai.com/v1",
		HistoryLength: 4,
		Temperature:   0.0,
		TopP:          1.0,
		DataDir:       defaultDataDir(),
	}
}

func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "parley")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "parley")
}

// AliasesPath is where the optional alias definitions live.
func AliasesPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "parley", "aliases.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "parley", "aliases.yaml")
}

// Load reads config.yaml (if any) and PARLEY_* environment variables on top
// of the defaults, then validates the result.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		v.AddConfigPath(filepath.Join(xdg, "parley"))
	}
	home, _ := os.UserHomeDir()
	v.AddConfigPath(filepath.Join(home, ".config", "parley"))

	v.SetEnvPrefix("PARLEY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Registering every key lets AutomaticEnv feed Unmarshal.
	v.SetDefault("model", cfg.Model)
	v.SetDefault("api_key", "")
	v.SetDefault("base_url", cfg.BaseURL)
	v.SetDefault("history_length", cfg.HistoryLength)
	v.SetDefault("temperature", cfg.Temperature)
	v.SetDefault("max_tokens", 0)
	v.SetDefault("top_p", cfg.TopP)
	v.SetDefault("frequency_penalty", 0.0)
	v.SetDefault("presence_penalty", 0.0)
	v.SetDefault("max_retries", 0)
	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("transformation_prompt", "")
	v.SetDefault("jailbreak_prompt", "")
	v.SetDefault("unlocked", false)
	v.SetDefault("error_prompts", []string{})
	v.SetDefault("clear_prompts", []string{})
	v.SetDefault("markdown", false)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// No config file; defaults plus environment apply.
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	cfg.APIKey = expandEnv(cfg.APIKey)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func expandEnv(s string) string {
	if strings.HasPrefix(s, "$") {
		if val, ok := os.LookupEnv(strings.TrimPrefix(s, "$")); ok {
			return val
		}
	}
	return s
}

// Validate checks parameter ranges. Errors are user-facing: the caller
// prints them and exits cleanly rather than crashing.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("config: model must not be empty")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("config: temperature %.2f is out of range (0 to 2)", c.Temperature)
	}
	if c.TopP < 0 || c.TopP > 1 {
		return fmt.Errorf("config: top_p %.2f is out of range (0 to 1)", c.TopP)
	}
	if c.FrequencyPenalty < -2 || c.FrequencyPenalty > 2 {
		return fmt.Errorf("config: frequency_penalty %.2f is out of range (-2 to 2)", c.FrequencyPenalty)
	}
	if c.PresencePenalty < -2 || c.PresencePenalty > 2 {
		return fmt.Errorf("config: presence_penalty %.2f is out of range (-2 to 2)", c.PresencePenalty)
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("config: max_tokens must be positive when set")
	}
	if c.HistoryLength < 0 {
		return fmt.Errorf("config: history_length must not be negative")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("config: max_retries must not be negative")
	}
	return nil
}
