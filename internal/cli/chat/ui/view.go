package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/docent-dev/docent/internal/conversation"
)

// View renders the UI (Bubbletea interface).
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}
	if !m.ready {
		return "\n  Starting docent..."
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusView())
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.hintView())
	return b.String()
}

func (m Model) headerView() string {
	title := m.styles.Title.Render("docent")
	if m.label != "" {
		title += "  " + m.styles.Hint.Render(m.label)
	}
	w := m.width
	if w < 1 {
		w = 1
	}
	return title + "\n" + m.styles.Divider.Render(strings.Repeat("─", w)) + "\n"
}

// statusView is always exactly one row so the layout stays stable.
func (m Model) statusView() string {
	switch {
	case m.conv.Awaiting():
		return m.spinner.View() + " " + m.styles.Hint.Render("typing...") + "\n"
	case m.lastError != nil:
		return m.styles.Error.Render(fmt.Sprintf("✗ %v", m.lastError)) + "\n"
	default:
		return "\n"
	}
}

func (m Model) hintView() string {
	return m.styles.Hint.Render("[Enter to send, Alt+Enter for newline, /help for commands, Ctrl+C to quit]")
}

// syncViewport rebuilds the transcript content. Rendered blocks are cached
// per turn, so only new turns and width changes pay the styling cost.
func (m *Model) syncViewport() {
	if !m.ready {
		return
	}

	var b strings.Builder
	for _, t := range m.conv.Turns {
		b.WriteString(m.renderTurn(t))
	}
	if m.conv.ShowExamples() {
		b.WriteString(m.renderExamples())
	}
	m.viewport.SetContent(b.String())
}

func (m Model) renderTurn(t conversation.Turn) string {
	fingerprint := ""
	if t.Answer != nil {
		fingerprint = t.Answer.Markdown()
	}
	key := computeKey(string(t.Sender), t.Text, fingerprint, strconv.Itoa(m.viewport.Width))
	return m.cache.getOrCompute(key, func() string {
		return m.renderTurnBlock(t)
	})
}

// renderTurnBlock styles one transcript turn. User turns are a single
// prompt-prefixed paragraph; bot turns get a label line and either the
// structured answer or markdown-rendered note text.
func (m Model) renderTurnBlock(t conversation.Turn) string {
	w := m.viewport.Width
	var b strings.Builder

	if t.Sender == conversation.SenderUser {
		b.WriteString(wrapTo(w, m.styles.UserLabel.Render("› ")+t.Text))
		b.WriteString("\n\n")
		return b.String()
	}

	b.WriteString(m.styles.BotLabel.Render("docent"))
	b.WriteString("\n")

	if t.Answer != nil {
		b.WriteString(m.renderAnswer(t.Answer, w))
		b.WriteString("\n")
		return b.String()
	}

	// Failure, empty-reply and note turns are plain text or markdown.
	rendered, err := m.renderer.Render(t.Text)
	if err != nil {
		b.WriteString(t.Text)
		b.WriteString("\n\n")
		return b.String()
	}
	b.WriteString(rendered)
	b.WriteString("\n")
	return b.String()
}

// renderAnswer lays out a structured answer: points, then related
// projects, then sources. Greetings render as plain accented lines
// instead of bullets.
func (m Model) renderAnswer(ans *conversation.Answer, w int) string {
	var b strings.Builder

	if ans.IsGreeting {
		for _, p := range ans.Points {
			b.WriteString(wrapTo(w, m.styles.Greeting.Render(p)))
			b.WriteString("\n")
		}
	} else {
		for _, p := range ans.Points {
			b.WriteString(wrapTo(w, m.styles.Bullet.Render("•")+" "+p))
			b.WriteString("\n")
		}
	}

	if len(ans.RelatedProjects) > 0 {
		b.WriteString("\n")
		b.WriteString(m.styles.Section.Render("Related Projects"))
		b.WriteString("\n")
		for _, p := range ans.RelatedProjects {
			b.WriteString(wrapTo(w, m.styles.Bullet.Render("•")+" "+p))
			b.WriteString("\n")
		}
	}

	if ans.HasSources() {
		b.WriteString("\n")
		b.WriteString(m.styles.Section.Render("Sources"))
		b.WriteString("\n")
		for _, src := range ans.Sources {
			if src.Name == "" {
				continue
			}
			b.WriteString("  ")
			if src.URL != "" {
				// OSC 8 hyperlink; unsupported terminals show the name.
				b.WriteString(m.styles.Link.Render(termenv.Hyperlink(src.URL, src.Name)))
			} else {
				b.WriteString(src.Name)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m Model) renderExamples() string {
	var b strings.Builder
	b.WriteString(m.styles.Placeholder.Render("Try asking:"))
	b.WriteString("\n")
	for i, q := range conversation.ExampleQueries {
		b.WriteString(m.styles.Placeholder.Render(fmt.Sprintf("  %d. %s", i+1, q)))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Hint.Render("  Alt+number inserts a question"))
	b.WriteString("\n")
	return b.String()
}

// wrapTo soft-wraps styled text; the viewport itself never wraps.
func wrapTo(width int, s string) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}
