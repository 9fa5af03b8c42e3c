package chat

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/chzyer/readline"
	"github.com/rs/zerolog"

	"github.com/docent-dev/docent/internal/agent"
	"github.com/docent-dev/docent/internal/conversation"
)

// runPlain runs a line-mode REPL for terminals without TUI support and for
// piped input. One question per line, answers rendered as markdown.
func runPlain(ctx context.Context, client *agent.Client, historyFile string, logger zerolog.Logger) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "docent> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "/exit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer func() { _ = rl.Close() }()

	renderer, err := newPlainRenderer()
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	conv := conversation.New()
	greet(conv)

	logger.Info().
		Str("conversation_id", client.ConversationID()).
		Msg("Starting plain chat")

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				fmt.Println()
				return nil
			}
			return fmt.Errorf("readline error: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if done := handleCommand(conv, line); done {
				return nil
			}
			continue
		}

		req, ok := conv.Submit(line)
		if !ok {
			continue
		}

		resolve(ctx, client, conv, req, logger)
		printBotTurn(renderer, conv.Turns[len(conv.Turns)-1])
	}
}

// newPlainRenderer builds the markdown renderer with NO_COLOR support.
func newPlainRenderer() (*glamour.TermRenderer, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(80)}
	if os.Getenv("NO_COLOR") != "" {
		opts = append(opts, glamour.WithStylePath("notty"))
	} else {
		opts = append(opts, glamour.WithAutoStyle())
	}
	return glamour.NewTermRenderer(opts...)
}

// resolve performs one round trip and lands the outcome in the transcript.
func resolve(ctx context.Context, client *agent.Client, conv *conversation.State, req conversation.Request, logger zerolog.Logger) {
	reply, err := client.SendMessage(ctx, req.Query)
	switch {
	case err != nil:
		logger.Error().Err(err).Str("query", req.Query).Msg("Agent call failed")
		conv.ResolveFailure(req.ID)
	case reply == nil || reply.Answer == nil:
		conv.ResolveEmpty(req.ID)
	default:
		conv.ResolveAnswer(req.ID, *reply.Answer)
	}
}

// handleCommand processes REPL commands. It reports true when the session
// should end.
func handleCommand(conv *conversation.State, line string) bool {
	switch strings.ToLower(line) {
	case "/exit", "/quit":
		return true

	case "/clear":
		conv.Reset()
		fmt.Println()
		greet(conv)
		return false

	case "/help":
		fmt.Println("Commands:")
		fmt.Println("  /help   - Show this help message")
		fmt.Println("  /clear  - Start a fresh conversation")
		fmt.Println("  /exit   - Leave the chat")
		fmt.Println()
		fmt.Println("Anything else is sent to the project agent as a question.")
		fmt.Println("Use Ctrl+D to quit.")
		fmt.Println()
		return false

	default:
		fmt.Printf("Error: unknown command: %s (try /help)\n", line)
		return false
	}
}

// greet seeds and prints the welcome turn with the example questions.
func greet(conv *conversation.State) {
	if !conv.Greet() {
		return
	}
	fmt.Println(conversation.WelcomeMessage)
	fmt.Println()
	fmt.Println("Try asking:")
	for _, q := range conversation.ExampleQueries {
		fmt.Printf("  - %s\n", q)
	}
	fmt.Println()
}

// printBotTurn renders one bot turn to stdout.
func printBotTurn(renderer *glamour.TermRenderer, t conversation.Turn) {
	if t.Answer != nil {
		if out, err := renderer.Render(t.Answer.Markdown()); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Println(t.Text)
	fmt.Println()
}
