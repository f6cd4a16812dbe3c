// Package config merges flags, environment variables (LOCWALK_*) and an
// optional YAML file into the settings of a walk.
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

const (
	EnvPrefix = "LOCWALK"
	FileName  = ".locwalk"
)

// Keys shared by flags, environment variables and the config file.
const (
	KeyPath           = "path"
	KeyTargetLanguage = "target-language"
	KeyJumpTo         = "jump-to-value"
	KeyServices       = "services"
	KeyCredentials    = "credentials"
	KeyGoogleKey      = "google-key"
	KeyOllamaURL      = "ollama-url"
	KeyOllamaModel    = "ollama-model"
	KeyOpenAIKey      = "openai-key"
	KeyOpenAIURL      = "openai-url"
	KeyOpenAIModel    = "openai-model"
	KeySystranKey     = "systran-key"
	KeyMyMemoryEmail  = "mymemory-email"
	KeyMaxRetries     = "max-retries"
	KeyRetryDelay     = "retry-delay"
	KeyTimeout        = "timeout"
	KeyLLMTimeout     = "llm-timeout"
	KeyRedisURL       = "redis-url"
	KeyRedisTTL       = "redis-ttl"
	KeyMemory         = "memory"
	KeyFuzzyThreshold = "fuzzy-threshold"
	KeyCheckLanguage  = "check-language"
)

var keys = []string{
	KeyPath, KeyTargetLanguage, KeyJumpTo, KeyServices,
	KeyCredentials, KeyGoogleKey, KeyOllamaURL, KeyOllamaModel, KeyOpenAIKey, KeyOpenAIURL, KeyOpenAIModel,
	KeySystranKey, KeyMyMemoryEmail, KeyMaxRetries, KeyRetryDelay, KeyTimeout, KeyLLMTimeout,
	KeyRedisURL, KeyRedisTTL, KeyMemory, KeyFuzzyThreshold, KeyCheckLanguage,
}

type Config struct {
	Path       string   `mapstructure:"path"`
	TargetLang string   `mapstructure:"target-language"`
	JumpTo     string   `mapstructure:"jump-to-value"`
	JumpSet    bool     `mapstructure:"-"`
	Services   []string `mapstructure:"services"`

	Credentials   string `mapstructure:"credentials"`
	GoogleKey     string `mapstructure:"google-key"`
	OllamaURL     string `mapstructure:"ollama-url"`
	OllamaModel   string `mapstructure:"ollama-model"`
	OpenAIKey     string `mapstructure:"openai-key"`
	OpenAIURL     string `mapstructure:"openai-url"`
	OpenAIModel   string `mapstructure:"openai-model"`
	SystranKey    string `mapstructure:"systran-key"`
	MyMemoryEmail string `mapstructure:"mymemory-email"`

	MaxRetries int           `mapstructure:"max-retries"`
	RetryDelay time.Duration `mapstructure:"retry-delay"`
	Timeout    time.Duration `mapstructure:"timeout"`
	LLMTimeout time.Duration `mapstructure:"llm-timeout"`

	RedisURL string        `mapstructure:"redis-url"`
	RedisTTL time.Duration `mapstructure:"redis-ttl"`

	// Memory is the sqlite database path; empty disables the translation memory.
	Memory         string  `mapstructure:"memory"`
	FuzzyThreshold float64 `mapstructure:"fuzzy-threshold"`
	CheckLanguage  bool    `mapstructure:"check-language"`
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// Unmarshal only sees keys viper already knows about.
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
	return v
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyServices, []string{"gtranslate"})
	v.SetDefault(KeyMaxRetries, 3)
	v.SetDefault(KeyRetryDelay, 500*time.Millisecond)
	v.SetDefault(KeyTimeout, 30*time.Second)
	v.SetDefault(KeyLLMTimeout, 2*time.Minute)
	v.SetDefault(KeyRedisTTL, 7*24*time.Hour)
	v.SetDefault(KeyFuzzyThreshold, 0.0)
}

// ReadFile loads path, or $HOME/.locwalk.yaml when path is empty. A missing
// default file is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", path, err)
		}
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	v.AddConfigPath(home)
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config %s: %w", filepath.Join(home, FileName+".yaml"), err)
	}
	return nil
}

// Load decodes the walk settings from v and validates them.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.JumpSet = v.IsSet(KeyJumpTo)
	cfg.Services = splitServices(cfg.Services)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("--%s is required", KeyPath)
	}
	if c.TargetLang == "" {
		return fmt.Errorf("--%s is required", KeyTargetLanguage)
	}
	if len(c.Services) == 0 {
		return fmt.Errorf("at least one translation service is required")
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("--%s must be at least 1", KeyMaxRetries)
	}
	if c.FuzzyThreshold < 0 || c.FuzzyThreshold > 1 {
		return fmt.Errorf("--%s must be between 0 and 1", KeyFuzzyThreshold)
	}
	return nil
}

// splitServices accepts both repeated values and comma separated lists.
func splitServices(in []string) []string {
	var out []string
	for _, s := range in {
		for _, name := range strings.Split(s, ",") {
			if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}
