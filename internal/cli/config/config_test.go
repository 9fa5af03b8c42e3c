package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/docent-dev/docent/internal/config"
)

func TestNewConfigCmd(t *testing.T) {
	cmd := NewConfigCmd()

	if cmd == nil {
		t.Fatal("NewConfigCmd() returned nil")
	}
	if cmd.Use != "config" {
		t.Errorf("Use = %q, want %q", cmd.Use, "config")
	}

	expectedSubcommands := []string{"show", "path", "init"}
	for _, subcmd := range expectedSubcommands {
		found := false
		for _, c := range cmd.Commands() {
			if c.Name() == subcmd {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Subcommand %q not found", subcmd)
		}
	}
}

func TestRunInit(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DOCENT_CONFIG", dir)

	if err := runInit(false); err != nil {
		t.Fatalf("runInit() error: %v", err)
	}

	path := filepath.Join(dir, ".docent", "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected config file at %s: %v", path, err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("config file is not valid YAML: %v", err)
	}
	if cfg.Agent.Endpoint == "" {
		t.Error("expected default endpoint in written config")
	}
}

func TestRunInit_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DOCENT_CONFIG", dir)

	if err := runInit(false); err != nil {
		t.Fatalf("first runInit() error: %v", err)
	}

	if err := runInit(false); err == nil {
		t.Error("expected error when config file already exists")
	}

	// --force overwrites.
	if err := runInit(true); err != nil {
		t.Errorf("runInit(force) error: %v", err)
	}
}
