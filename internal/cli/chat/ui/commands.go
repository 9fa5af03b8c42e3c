package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docent-dev/docent/internal/agent"
	"github.com/docent-dev/docent/internal/conversation"
)

// Querier sends one question to the project agent.
type Querier interface {
	SendMessage(ctx context.Context, query string) (*agent.Reply, error)
}

// greetCmd schedules the welcome greeting after the startup delay.
func greetCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return welcomeMsg{}
	})
}

// sendQueryCmd executes one round trip against the agent. Exactly one
// completion message comes back, tagged with the request ID so stale
// completions can be discarded.
func sendQueryCmd(client Querier, req conversation.Request) tea.Cmd {
	return func() tea.Msg {
		reply, err := client.SendMessage(context.Background(), req.Query)
		if err != nil {
			return failureMsg{id: req.ID, err: err}
		}
		if reply == nil || reply.Answer == nil {
			return emptyMsg{id: req.ID}
		}
		return answerMsg{id: req.ID, answer: reply.Answer}
	}
}
