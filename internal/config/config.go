// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/docent-dev/docent/internal/constants"
)

// SchemaVersion is the configuration schema version.
const SchemaVersion = "1"

// Config represents the ~/.docent/config.yaml config file.
type Config struct {
	Version string      `yaml:"version"`
	Agent   AgentConfig `yaml:"agent"`
	UI      UIConfig    `yaml:"ui,omitempty"`
	Log     LogConfig   `yaml:"log,omitempty"`
}

// AgentConfig points docent at the hosted project-agent service.
type AgentConfig struct {
	Endpoint string        `yaml:"endpoint" env:"DOCENT_ENDPOINT"`
	Timeout  time.Duration `yaml:"timeout,omitempty" env:"DOCENT_TIMEOUT"`
}

// UIConfig contains presentation preferences.
type UIConfig struct {
	// Theme is "auto", "light" or "dark".
	Theme string `yaml:"theme,omitempty" env:"DOCENT_THEME"`
	// WelcomeDelay is how long a fresh session waits before showing the
	// welcome message.
	WelcomeDelay time.Duration `yaml:"welcome_delay,omitempty" env:"DOCENT_WELCOME_DELAY"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level string `yaml:"level,omitempty" env:"DOCENT_LOG_LEVEL"`
	// File overrides where interactive sessions write their log.
	File string `yaml:"file,omitempty" env:"DOCENT_LOG_FILE"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: SchemaVersion,
		Agent: AgentConfig{
			Endpoint: constants.DefaultAgentEndpoint,
			Timeout:  constants.DefaultAgentTimeout,
		},
		UI: UIConfig{
			Theme:        constants.DefaultTheme,
			WelcomeDelay: constants.DefaultWelcomeDelay,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks a loaded config for values the rest of the program cannot
// work with.
func Validate(cfg *Config) error {
	u, err := url.Parse(cfg.Agent.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("agent endpoint %q is not an absolute URL", cfg.Agent.Endpoint)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("agent endpoint scheme %q is not supported (use http or https)", u.Scheme)
	}

	if cfg.Agent.Timeout < 0 {
		return fmt.Errorf("agent timeout must not be negative, got %s", cfg.Agent.Timeout)
	}

	switch cfg.UI.Theme {
	case "", "auto", "light", "dark":
	default:
		return fmt.Errorf("unknown theme %q (use auto, light or dark)", cfg.UI.Theme)
	}

	if cfg.UI.WelcomeDelay < 0 {
		return fmt.Errorf("welcome delay must not be negative, got %s", cfg.UI.WelcomeDelay)
	}

	return nil
}
