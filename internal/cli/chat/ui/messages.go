package ui

import (
	"github.com/docent-dev/docent/internal/conversation"
)

// welcomeMsg fires once after the startup delay to seed the greeting turn.
type welcomeMsg struct{}

// answerMsg carries a normalized answer for the request it resolves.
type answerMsg struct {
	id     uint64
	answer *conversation.Answer
}

// failureMsg indicates the request failed in transport.
type failureMsg struct {
	id  uint64
	err error
}

// emptyMsg indicates the agent returned no usable payload.
type emptyMsg struct {
	id uint64
}
