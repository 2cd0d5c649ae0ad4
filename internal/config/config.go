// Package config loads user settings from config.yaml, STANDUP_* environment
// variables and .env files, and resolves the model credential.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/standup/internal/constants"
	"github.com/julianstephens/standup/internal/keyring"
	"github.com/julianstephens/standup/internal/logger"
)

type Model struct {
	Name      string        `yaml:"name"`
	BaseURL   string        `yaml:"base_url,omitempty"`
	MaxTokens int           `yaml:"max_tokens"`
	Timeout   time.Duration `yaml:"timeout"`
}

type Journal struct {
	InputPreview int `yaml:"input_preview"`
}

type Config struct {
	Dir      string  `yaml:"-"`
	Data     string  `yaml:"data"`
	Timezone string  `yaml:"timezone"`
	LogLevel string  `yaml:"log_level"`
	Model    Model   `yaml:"model"`
	Journal  Journal `yaml:"journal"`
}

// Default returns the settings used when no config file exists.
func Default(dir string) *Config {
	return &Config{
		Dir:      dir,
		Data:     filepath.Join(dir, "data"),
		Timezone: "Local",
		LogLevel: "info",
		Model: Model{
			Name:      constants.DefaultModel,
			MaxTokens: constants.DefaultMaxTokens,
			Timeout:   constants.DefaultModelTimeout,
		},
		Journal: Journal{InputPreview: constants.InputPreviewLength},
	}
}

// Path returns the config file location inside dir.
func Path(dir string) string {
	return filepath.Join(dir, constants.ConfigFileName+"."+constants.ConfigFileType)
}

// Load reads dir/config.yaml over the defaults, then applies STANDUP_*
// environment overrides. A missing file is not an error. Any .env file in the
// working directory or dir is loaded into the environment first, without
// replacing variables that are already set.
func Load(dir string) (*Config, error) {
	dir, err := homedir.Expand(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config dir: %w", err)
	}
	loadDotEnv(".env", filepath.Join(dir, ".env"))

	def := Default(dir)
	v := viper.New()
	v.SetConfigName(constants.ConfigFileName)
	v.SetConfigType(constants.ConfigFileType)
	v.AddConfigPath(dir)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("data", def.Data)
	v.SetDefault("timezone", def.Timezone)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("model.name", def.Model.Name)
	v.SetDefault("model.base_url", def.Model.BaseURL)
	v.SetDefault("model.max_tokens", def.Model.MaxTokens)
	v.SetDefault("model.timeout", def.Model.Timeout)
	v.SetDefault("journal.input_preview", def.Journal.InputPreview)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading %s: %w", Path(dir), err)
		}
		logger.Debug("No config file, using defaults", "dir", dir)
	}

	data, err := homedir.Expand(v.GetString("data"))
	if err != nil {
		return nil, fmt.Errorf("failed to expand data path: %w", err)
	}

	cfg := &Config{
		Dir:      dir,
		Data:     data,
		Timezone: v.GetString("timezone"),
		LogLevel: v.GetString("log_level"),
		Model: Model{
			Name:      v.GetString("model.name"),
			BaseURL:   v.GetString("model.base_url"),
			MaxTokens: v.GetInt("model.max_tokens"),
			Timeout:   v.GetDuration("model.timeout"),
		},
		Journal: Journal{InputPreview: v.GetInt("journal.input_preview")},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotEnv(paths ...string) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			logger.Warn("Failed to load .env file", "path", p, "error", err)
		}
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Data) == "" {
		return fmt.Errorf("config: data location cannot be empty")
	}
	if c.Model.MaxTokens <= 0 {
		return fmt.Errorf("config: model.max_tokens must be positive, got %d", c.Model.MaxTokens)
	}
	if c.Model.Timeout <= 0 {
		return fmt.Errorf("config: model.timeout must be positive, got %s", c.Model.Timeout)
	}
	if c.Journal.InputPreview <= 0 {
		return fmt.Errorf("config: journal.input_preview must be positive, got %d", c.Journal.InputPreview)
	}
	return nil
}

// WriteDefault writes a config file holding the default settings. An
// existing file is left alone unless force is set. It reports whether a file
// was written.
func WriteDefault(dir string, force bool) (bool, error) {
	path := Path(dir)
	if _, err := os.Stat(path); err == nil && !force {
		return false, nil
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}

	out, err := yaml.Marshal(Default(dir))
	if err != nil {
		return false, fmt.Errorf("failed to encode default config: %w", err)
	}
	if err := os.WriteFile(path, out, 0600); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	logger.Info("Wrote default config", "path", path)
	return true, nil
}

// KeySource says where the model credential came from.
type KeySource string

const (
	KeyFromEnv     KeySource = "environment"
	KeyFromKeyring KeySource = "keyring"
	KeyMissing     KeySource = ""
)

// APIKey resolves the model credential: OPENAI_API_KEY first, then the OS
// keyring. An empty key with KeyMissing means neither had one.
func APIKey() (string, KeySource) {
	if key := strings.TrimSpace(os.Getenv(constants.APIKeyEnvVar)); key != "" {
		return key, KeyFromEnv
	}
	key, err := keyring.Get(keyring.APIKey)
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			logger.Debug("Keyring lookup failed", "error", err)
		}
		return "", KeyMissing
	}
	return key, KeyFromKeyring
}
