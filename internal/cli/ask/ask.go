// Package ask provides the one-shot question command.
package ask

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/docent-dev/docent/internal/agent"
	"github.com/docent-dev/docent/internal/config"
	"github.com/docent-dev/docent/internal/conversation"
	"github.com/docent-dev/docent/internal/logging"
)

// NewAskCmd creates the ask command for single questions.
func NewAskCmd() *cobra.Command {
	var (
		endpoint   string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the project agent a single question",
		Long: `Sends one question to the project agent and prints the answer.

The answer renders as markdown: bullet points, related projects and
sources. With --json the normalized answer is printed as JSON instead,
for scripting.

Examples:
  docent ask "Which projects are written in Go?"
  docent ask "What projects use machine learning?"
  docent ask --json "Is there a project that uses Kubernetes?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.TrimSpace(strings.Join(args, " "))
			if question == "" {
				return fmt.Errorf("question must not be empty")
			}

			loader := config.NewLoader()
			cfg, err := loader.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if endpoint != "" {
				cfg.Agent.Endpoint = endpoint
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}

			logger := logging.New(logging.Config{Level: cfg.Log.Level})

			client, err := agent.New(cfg.Agent.Endpoint, cfg.Agent.Timeout, logger)
			if err != nil {
				return err
			}

			return runAsk(cmd.Context(), client, question, jsonOutput, os.Stdout)
		},
	}

	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Project agent URL (overrides config)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the normalized answer as JSON")

	return cmd
}

// runAsk performs the round trip and writes the answer to w. A transport
// failure comes back as an error; an empty reply is not a failure and
// prints the fixed empty-reply message (or null in JSON mode).
func runAsk(ctx context.Context, client *agent.Client, question string, jsonOutput bool, w io.Writer) error {
	reply, err := client.SendMessage(ctx, question)
	if err != nil {
		return fmt.Errorf("project agent call failed: %w", err)
	}

	if jsonOutput {
		out, err := json.MarshalIndent(reply.Answer, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode answer: %w", err)
		}
		fmt.Fprintln(w, string(out))
		return nil
	}

	if reply.Answer == nil {
		fmt.Fprintln(w, conversation.EmptyMessage)
		return nil
	}

	rendered, err := renderMarkdown(reply.Answer.Markdown())
	if err != nil {
		// Unstyled fallback keeps the answer readable.
		fmt.Fprintln(w, reply.Answer.Markdown())
		return nil
	}
	fmt.Fprint(w, rendered)
	return nil
}

func renderMarkdown(markdown string) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(80)}
	if os.Getenv("NO_COLOR") != "" {
		opts = append(opts, glamour.WithStylePath("notty"))
	} else {
		opts = append(opts, glamour.WithAutoStyle())
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return renderer.Render(markdown)
}
