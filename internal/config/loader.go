package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/docent-dev/docent/internal/constants"
	"github.com/docent-dev/docent/internal/safe"
)

// Loader handles loading and saving the configuration file.
type Loader struct {
	homeDir string
}

// NewLoader creates a new config loader. A .env file in the working
// directory is loaded into the environment first (best effort), so it can
// supply any DOCENT_* variable, including DOCENT_CONFIG itself.
//
// The base directory is resolved in this order:
//  1. DOCENT_CONFIG environment variable.
//  2. User home directory (~/).
//  3. /tmp/docent-fallback (containerized environments without a home dir).
//
// In environments without a home directory the fallback ensures Load still
// returns defaults with env var overrides applied.
func NewLoader() *Loader {
	_ = godotenv.Load()

	if baseDir := os.Getenv("DOCENT_CONFIG"); baseDir != "" {
		return &Loader{homeDir: baseDir}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		return &Loader{homeDir: homeDir}
	}

	return &Loader{homeDir: "/tmp/docent-fallback"}
}

// Dir returns the docent config directory.
func (l *Loader) Dir() string {
	return filepath.Join(l.homeDir, constants.DefaultDir)
}

// ConfigPath returns the path to the config file.
func (l *Loader) ConfigPath() string {
	return filepath.Join(l.Dir(), constants.ConfigFile)
}

// LogFilePath returns where interactive sessions write their log, honoring
// the configured override.
func (l *Loader) LogFilePath(cfg *Config) string {
	if cfg.Log.File != "" {
		return cfg.Log.File
	}
	return filepath.Join(l.Dir(), constants.DefaultLogFile)
}

// Load loads the configuration. A missing file yields defaults; environment
// variable overrides apply in both cases (layered configuration). The
// result is validated before being returned.
func (l *Loader) Load() (*Config, error) {
	path := l.ConfigPath()

	var cfg *Config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		data, err := safe.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		cfg = DefaultConfig()
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Apply environment variable overrides (layered configuration).
	if err := LoadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration file, creating the config directory as
// needed.
func (l *Loader) Save(cfg *Config) error {
	path := l.ConfigPath()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The config holds no secrets, 0644 is fine.
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
