package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/docent-dev/docent/internal/conversation"
)

// chromeHeight is the fixed number of rows around the viewport: two for
// the header, one for the status line, one for the hint footer.
const chromeHeight = 4

// Update handles messages and updates the model (Bubbletea interface).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.viewport.GotoBottom()
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		if m.conv.Awaiting() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case welcomeMsg:
		if m.conv.Greet() {
			m.syncViewport()
			m.viewport.GotoBottom()
		}
		return m, nil

	case answerMsg:
		if m.conv.ResolveAnswer(msg.id, *msg.answer) {
			m.syncViewport()
			m.viewport.GotoBottom()
		}
		return m, nil

	case failureMsg:
		if m.conv.ResolveFailure(msg.id) {
			// The cause is diagnostic only; the user sees the fixed
			// failure turn, never the underlying error.
			m.logger.Error().Err(msg.err).Msg("agent call failed")
			m.syncViewport()
			m.viewport.GotoBottom()
		}
		return m, nil

	case emptyMsg:
		if m.conv.ResolveEmpty(msg.id) {
			m.syncViewport()
			m.viewport.GotoBottom()
		}
		return m, nil
	}

	// Everything else drives the cursor blink.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.KeyEnter:
		// Alt+Enter and pasted newlines go into the draft.
		if msg.Alt || msg.Paste {
			m.input.InsertString("\n")
			m.conv.EditInput(m.input.Value())
			m.autogrow()
			return m, nil
		}
		return m.handleSubmit()
	}

	// Alt+1..4 inserts an example question while the examples are shown.
	if msg.Alt && len(msg.Runes) == 1 && m.conv.ShowExamples() {
		if n := int(msg.Runes[0] - '1'); n >= 0 && n < len(conversation.ExampleQueries) {
			m.input.SetValue(conversation.ExampleQueries[n])
			m.input.CursorEnd()
			m.conv.EditInput(m.input.Value())
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.conv.EditInput(m.input.Value())
	m.autogrow()
	return m, cmd
}

// handleSubmit sends the draft. Blank drafts and submissions made while a
// request is outstanding are ignored without touching the draft.
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if strings.HasPrefix(strings.TrimSpace(text), "/") {
		return m.handleInlineCommand(strings.TrimSpace(text))
	}

	req, ok := m.conv.Submit(text)
	if !ok {
		return m, nil
	}

	m.lastError = nil
	m.input.Reset()
	m.input.SetHeight(1)
	m.layout()
	m.viewport.GotoBottom()

	return m, tea.Batch(
		sendQueryCmd(m.client, req),
		m.spinner.Tick,
	)
}

// handleInlineCommand processes inline commands like /help, /clear, /exit.
func (m Model) handleInlineCommand(cmd string) (tea.Model, tea.Cmd) {
	switch strings.ToLower(cmd) {
	case "/help":
		m.conv.Note(helpText)
		m.input.Reset()
		m.conv.EditInput("")
		m.syncViewport()
		m.viewport.GotoBottom()
		return m, nil

	case "/clear":
		// A pending completion from before the reset is discarded by the
		// request identity check, never shown in the fresh session.
		m.conv.Reset()
		m.lastError = nil
		m.input.Reset()
		m.input.SetHeight(1)
		m.layout()
		return m, tea.Batch(tea.ClearScreen, greetCmd(m.delay))

	case "/exit", "/quit":
		m.quitting = true
		return m, tea.Quit

	default:
		m.lastError = fmt.Errorf("unknown command: %s (try /help)", cmd)
		m.input.Reset()
		m.conv.EditInput("")
		return m, nil
	}
}

// layout recomputes widget dimensions from the window size.
func (m *Model) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}

	m.input.SetWidth(m.width - 2)

	vh := m.height - m.input.Height() - chromeHeight
	if vh < 1 {
		vh = 1
	}

	if !m.ready {
		m.viewport = viewport.New(m.width, vh)
		m.ready = true
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = vh
	}
	m.syncViewport()
}

// autogrow tracks the draft height so multi-line questions stay visible.
func (m *Model) autogrow() {
	h := m.input.LineCount()
	if h < 1 {
		h = 1
	}
	if h > maxInputHeight {
		h = maxInputHeight
	}
	if h != m.input.Height() {
		m.input.SetHeight(h)
		m.layout()
	}
}

const helpText = `## Docent

**Commands:**
- /help      - Show this help message
- /clear     - Start a fresh conversation
- /exit      - Leave the chat

**Keyboard shortcuts:**
- Enter      - Send the question
- Alt+Enter  - Insert a newline
- Alt+1..4   - Insert an example question
- PgUp/PgDn  - Scroll the transcript
- Ctrl+C     - Quit`
