// Package config implements the 'docent config' command family.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/docent-dev/docent/internal/config"
)

// NewConfigCmd creates the config command and its subcommands.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage docent configuration",
		Long: `Manage docent configuration.

Configuration priority:
  1. DOCENT_* environment variables (highest)
  2. Config file (~/.docent/config.yaml)
  3. Built-in defaults

Environment variables:
  DOCENT_CONFIG         Override the config directory (default: ~/.docent)
  DOCENT_ENDPOINT       Project agent URL
  DOCENT_TIMEOUT        Request timeout (e.g. 30s)
  DOCENT_THEME          Color theme: auto, light or dark
  DOCENT_WELCOME_DELAY  Delay before the greeting (e.g. 600ms)
  DOCENT_LOG_LEVEL      Log level: trace, debug, info, warn, error
  DOCENT_LOG_FILE       Log file name inside the config directory`,
	}

	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newPathCmd())
	cmd.AddCommand(newInitCmd())

	return cmd
}

// newShowCmd creates the 'config show' command.
func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Display the effective configuration after file and environment
variables are merged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow()
		},
	}
}

func runShow() error {
	loader := config.NewLoader()
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	fmt.Print(string(data))
	return nil
}

// newPathCmd creates the 'config path' command.
func newPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := config.NewLoader()
			fmt.Println(loader.ConfigPath())
			return nil
		},
	}
}

// newInitCmd creates the 'config init' command.
func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long: `Write the default configuration to the config directory.

Refuses to overwrite an existing file unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}

func runInit(force bool) error {
	loader := config.NewLoader()
	path := loader.ConfigPath()

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
	}

	if err := loader.Save(config.DefaultConfig()); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Printf("Wrote default config to %s\n", path)
	return nil
}
