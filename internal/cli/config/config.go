// Package config loads harness configuration from lspdrive.yml.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the lspdrive configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	RootURI    string           `mapstructure:"root_uri"`
	Document   DocumentConfig   `mapstructure:"document"`
	Completion CompletionConfig `mapstructure:"completion"`
	Wait       time.Duration    `mapstructure:"wait"`
}

// ServerConfig describes the language server under test.
type ServerConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// DocumentConfig describes the document the session opens.
type DocumentConfig struct {
	URI        string `mapstructure:"uri"`
	LanguageID string `mapstructure:"language_id"`
	Version    int32  `mapstructure:"version"`
	Text       string `mapstructure:"text"`
}

// CompletionConfig is the position of the scripted completion request.
type CompletionConfig struct {
	Line      uint32 `mapstructure:"line"`
	Character uint32 `mapstructure:"character"`
}

// Load loads the configuration from lspdrive.yml or lspdrive.yaml in the
// working directory. A missing file yields the defaults.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults mirror the canonical smoke-test session: open a two-line
	// document and ask for completions after the dangling "y = ".
	v.SetDefault("root_uri", "file:///")
	v.SetDefault("document.uri", "file:///test.t")
	v.SetDefault("document.language_id", "t")
	v.SetDefault("document.version", 1)
	v.SetDefault("document.text", "x = 10\ny = ")
	v.SetDefault("completion.line", 1)
	v.SetDefault("completion.character", 4)
	v.SetDefault("wait", 500*time.Millisecond)

	v.SetConfigName("lspdrive")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LSPDRIVE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Wait < 0 {
		return fmt.Errorf("wait must not be negative, got %s", cfg.Wait)
	}
	if cfg.Document.Version < 1 {
		return fmt.Errorf("document version must be at least 1, got %d", cfg.Document.Version)
	}
	return nil
}
