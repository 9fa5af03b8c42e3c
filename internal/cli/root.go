package cli

import (
	"github.com/spf13/cobra"

	"github.com/docent-dev/docent/internal/cli/ask"
	"github.com/docent-dev/docent/internal/cli/chat"
	configcmd "github.com/docent-dev/docent/internal/cli/config"
	"github.com/docent-dev/docent/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "docent",
	Short: "Docent - terminal chat client for the project agent",
	Long: `Ask questions about the project portfolio from your terminal.

Docent talks to a project agent backend and renders its structured
answers: bullet-point findings, related projects, and sources.

Commands:
- docent chat: interactive chat session (full-screen, or --plain REPL)
- docent ask:  one-shot question, answer to stdout
- docent config: inspect and manage configuration`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = version.Short()

	// Add subcommands
	rootCmd.AddCommand(chat.NewChatCmd())
	rootCmd.AddCommand(ask.NewAskCmd())
	rootCmd.AddCommand(configcmd.NewConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("Docent version %s\n", version.Version)
			cmd.Printf("Git commit: %s\n", version.GitCommit)
			cmd.Printf("Build date: %s\n", version.BuildDate)
			cmd.Printf("Go version: %s\n", version.GoVersion)
		},
	}
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
