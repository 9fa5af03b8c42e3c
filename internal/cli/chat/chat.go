// Package chat provides the interactive chat command against the project
// agent, with a Bubbletea TUI for terminals and a line-mode REPL fallback.
package chat

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/docent-dev/docent/internal/agent"
	"github.com/docent-dev/docent/internal/cli/chat/ui"
	"github.com/docent-dev/docent/internal/config"
	"github.com/docent-dev/docent/internal/logging"
	"github.com/docent-dev/docent/internal/safe"
)

// NewChatCmd creates the chat command.
func NewChatCmd() *cobra.Command {
	var (
		endpoint string
		theme    string
		plain    bool
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the project agent",
		Long: `Opens an interactive chat session against the project agent.

The session greets you, suggests example questions, and renders the
agent's structured answers with bullet points, related projects and
sources.

Inline commands:
  /help   - Show available commands
  /clear  - Start a fresh conversation
  /exit   - Leave the chat

Examples:
  docent chat
  docent chat --plain
  docent chat --endpoint http://localhost:8000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := config.NewLoader()
			cfg, err := loader.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if endpoint != "" {
				cfg.Agent.Endpoint = endpoint
			}
			if theme != "" {
				cfg.UI.Theme = theme
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}

			// The TUI owns the terminal, so diagnostics go to a file.
			logger, logFile, err := logging.NewFile(
				logging.Config{Level: cfg.Log.Level},
				loader.LogFilePath(cfg),
			)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			defer safe.Close(logFile, logger, "failed to close session log")

			client, err := agent.New(cfg.Agent.Endpoint, cfg.Agent.Timeout, logger)
			if err != nil {
				return err
			}

			if plain || !term.IsTerminal(int(os.Stdin.Fd())) {
				historyFile := filepath.Join(loader.Dir(), "chat_history")
				return runPlain(cmd.Context(), client, historyFile, logger)
			}
			return runInteractive(client, cfg, logger)
		},
	}

	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Project agent URL (overrides config)")
	cmd.Flags().StringVar(&theme, "theme", "", "Color theme: auto, light or dark")
	cmd.Flags().BoolVar(&plain, "plain", false, "Line-mode REPL without the TUI")

	return cmd
}

// runInteractive starts the Bubbletea session.
func runInteractive(client *agent.Client, cfg *config.Config, logger zerolog.Logger) error {
	model, err := ui.NewModel(
		client,
		ui.ThemeFromName(cfg.UI.Theme),
		cfg.UI.WelcomeDelay,
		"session "+shortID(client.ConversationID()),
		logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create UI model: %w", err)
	}

	logger.Info().
		Str("endpoint", cfg.Agent.Endpoint).
		Str("conversation_id", client.ConversationID()).
		Msg("Starting interactive chat")

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("interactive session failed: %w", err)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
