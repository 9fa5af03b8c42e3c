package ui

import (
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog"

	"github.com/docent-dev/docent/internal/conversation"
)

const (
	// inputCharLimit caps a single question.
	inputCharLimit = 500

	// maxInputHeight caps how far the input grows for multi-line drafts.
	maxInputHeight = 5

	// renderCacheSize bounds the per-session block cache.
	renderCacheSize = 256
)

// Model is the Bubbletea model for the interactive chat session. All
// conversation mutations go through the embedded State; the model only
// adds terminal concerns on top.
type Model struct {
	client Querier
	conv   *conversation.State
	delay  time.Duration
	label  string
	logger zerolog.Logger

	input    textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	styles   Styles
	cache    *renderCache
	renderer *glamour.TermRenderer

	width  int
	height int
	ready  bool

	// lastError surfaces inline-command mistakes in the status row.
	// Transport failures never land here; they go to the session log and
	// the user sees only the fixed transcript text.
	lastError error
	quitting  bool
}

// NewModel creates the interactive model. The label appears in the header
// and usually names the session; the delay postpones the greeting so the
// terminal settles first. The logger is the session's only diagnostic
// sink while the program owns the terminal.
func NewModel(client Querier, theme Theme, welcomeDelay time.Duration, label string, logger zerolog.Logger) (Model, error) {
	styles := NewStyles(theme)

	ta := textarea.New()
	ta.Placeholder = "Ask about the projects..."
	ta.Prompt = "┃ "
	ta.CharLimit = inputCharLimit
	ta.SetWidth(80)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false
	ta.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	// Markdown renderer for bot notes, with NO_COLOR support.
	rendererOpts := []glamour.TermRendererOption{glamour.WithWordWrap(80)}
	switch {
	case os.Getenv("NO_COLOR") != "":
		rendererOpts = append(rendererOpts, glamour.WithStylePath("notty"))
	case theme.IsDark:
		rendererOpts = append(rendererOpts, glamour.WithAutoStyle())
	default:
		rendererOpts = append(rendererOpts, glamour.WithStylePath("light"))
	}

	renderer, err := glamour.NewTermRenderer(rendererOpts...)
	if err != nil {
		return Model{}, err
	}

	return Model{
		client:   client,
		conv:     conversation.New(),
		delay:    welcomeDelay,
		label:    label,
		logger:   logger,
		input:    ta,
		spinner:  s,
		styles:   styles,
		cache:    newRenderCache(renderCacheSize),
		renderer: renderer,
		width:    80,
		height:   24,
	}, nil
}

// Init initializes the model (Bubbletea interface).
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		greetCmd(m.delay),
	)
}
