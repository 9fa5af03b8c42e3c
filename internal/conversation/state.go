// Package conversation owns the session transcript and the state machine
// that drives it. The interactive and one-shot front ends both delegate
// every mutation to State; they only read it back for display.
package conversation

import (
	"strings"
)

// Visible text constants forming the user contract. Tests assert on these
// verbatim, so changing them is a breaking change.
const (
	// WelcomeMessage is the synthetic greeting inserted at session start.
	WelcomeMessage = "Hi! I'm the project agent. Ask me anything about the portfolio and its projects."

	// FailureMessage is shown when the transport call fails outright.
	FailureMessage = "Sorry, something went wrong. Please try again."

	// EmptyMessage is shown when the call succeeds but carries no answer.
	EmptyMessage = "No response received"
)

// ExampleQueries are suggested prompts shown alongside the welcome message
// while the transcript holds nothing but the greeting.
var ExampleQueries = []string{
	"What projects use machine learning?",
	"Which projects are written in Go?",
	"Tell me about the most recent project",
	"Is there a project that uses Kubernetes?",
}

// Sender identifies the author of a turn.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Source is one citation attached to an answer.
type Source struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Answer is the normalized display model for a structured bot reply.
type Answer struct {
	Points          []string `json:"points"`
	IsGreeting      bool     `json:"is_greeting"`
	ExistsInData    bool     `json:"exists_in_data"`
	ExistsElsewhere bool     `json:"exists_elsewhere"`
	RelatedProjects []string `json:"related_projects"`
	Sources         []Source `json:"sources"`
}

// HasSources reports whether the sources list has anything visible. The
// normalizer emits a single empty placeholder source when the backend sent
// none; that placeholder never renders.
func (a *Answer) HasSources() bool {
	return len(a.Sources) > 0 && a.Sources[0].Name != ""
}

// Markdown renders the answer as a small markdown document, suitable for
// terminal display through a markdown renderer.
func (a *Answer) Markdown() string {
	var b strings.Builder
	if a.IsGreeting {
		for _, p := range a.Points {
			b.WriteString(p)
			b.WriteString("\n")
		}
	} else {
		for _, p := range a.Points {
			b.WriteString("- ")
			b.WriteString(p)
			b.WriteString("\n")
		}
	}
	if len(a.RelatedProjects) > 0 {
		b.WriteString("\n**Related Projects**\n\n")
		for _, p := range a.RelatedProjects {
			b.WriteString("- ")
			b.WriteString(p)
			b.WriteString("\n")
		}
	}
	if a.HasSources() {
		b.WriteString("\n**Sources**\n\n")
		for _, src := range a.Sources {
			if src.Name == "" {
				continue
			}
			b.WriteString("- ")
			if src.URL != "" {
				b.WriteString("[")
				b.WriteString(src.Name)
				b.WriteString("](")
				b.WriteString(src.URL)
				b.WriteString(")")
			} else {
				b.WriteString(src.Name)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Turn is one message in the conversation. Turns are immutable once
// appended; their identity is their position in the transcript.
type Turn struct {
	Text   string
	Sender Sender
	// Answer is set only on bot turns that came from a successful
	// structured reply (or the synthetic greeting).
	Answer *Answer
}

// Phase tracks whether a request is outstanding.
type Phase int

const (
	// PhaseIdle means no request is in flight; sends are allowed.
	PhaseIdle Phase = iota
	// PhaseAwaitingResponse means exactly one request is outstanding and
	// new sends are blocked.
	PhaseAwaitingResponse
)

// Request identifies one outbound question for the transport layer. The ID
// is compared on completion so a reply to a superseded request cannot touch
// the session.
type Request struct {
	ID    uint64
	Query string
}

// State is the single mutable conversation instance for a session. It is
// owned by one event loop and is not safe for concurrent use.
type State struct {
	Turns        []Turn
	PendingInput string
	Phase        Phase

	seq uint64
}

// New creates an empty conversation in the idle phase.
func New() *State {
	return &State{}
}

// Greet appends the synthetic welcome turn. It does nothing once the
// transcript has content, so a greeting scheduled before the first
// submission lands cannot interleave with it.
func (s *State) Greet() bool {
	if len(s.Turns) > 0 {
		return false
	}
	s.Turns = append(s.Turns, Turn{
		Text:   WelcomeMessage,
		Sender: SenderBot,
		Answer: &Answer{
			Points:     []string{WelcomeMessage},
			IsGreeting: true,
		},
	})
	return true
}

// Submit validates and records a user question. It returns the request to
// hand to the transport layer, or false when the trimmed input is empty or
// another request is still outstanding.
func (s *State) Submit(text string) (Request, bool) {
	text = strings.TrimSpace(text)
	if text == "" || s.Phase == PhaseAwaitingResponse {
		return Request{}, false
	}
	s.Turns = append(s.Turns, Turn{Text: text, Sender: SenderUser})
	s.PendingInput = ""
	s.Phase = PhaseAwaitingResponse
	s.seq++
	return Request{ID: s.seq, Query: text}, true
}

// stale reports whether a completion belongs to a superseded request or
// arrives when nothing is outstanding.
func (s *State) stale(id uint64) bool {
	return id != s.seq || s.Phase != PhaseAwaitingResponse
}

// ResolveAnswer completes the request with a structured answer, appending a
// bot turn and returning to idle. Stale completions are discarded.
func (s *State) ResolveAnswer(id uint64, ans Answer) bool {
	if s.stale(id) {
		return false
	}
	s.Turns = append(s.Turns, Turn{
		Text:   strings.Join(ans.Points, "\n"),
		Sender: SenderBot,
		Answer: &ans,
	})
	s.Phase = PhaseIdle
	return true
}

// ResolveFailure completes the request after a transport error. The error
// itself is only logged for diagnostics; the user sees fixed text.
func (s *State) ResolveFailure(id uint64) bool {
	if s.stale(id) {
		return false
	}
	s.Turns = append(s.Turns, Turn{Text: FailureMessage, Sender: SenderBot})
	s.Phase = PhaseIdle
	return true
}

// ResolveEmpty completes the request when the call succeeded but carried no
// usable answer.
func (s *State) ResolveEmpty(id uint64) bool {
	if s.stale(id) {
		return false
	}
	s.Turns = append(s.Turns, Turn{Text: EmptyMessage, Sender: SenderBot})
	s.Phase = PhaseIdle
	return true
}

// EditInput updates the draft text. Typing is never blocked, only sending.
func (s *State) EditInput(text string) {
	s.PendingInput = text
}

// Note appends an informational bot turn outside the request cycle, such
// as inline command output. The phase is untouched.
func (s *State) Note(text string) {
	s.Turns = append(s.Turns, Turn{Text: text, Sender: SenderBot})
}

// Reset clears the transcript for a fresh session. The request sequence is
// kept monotonic so completions from before the reset stay stale.
func (s *State) Reset() {
	s.Turns = nil
	s.PendingInput = ""
	s.Phase = PhaseIdle
}

// Awaiting reports whether a request is outstanding.
func (s *State) Awaiting() bool {
	return s.Phase == PhaseAwaitingResponse
}

// ShowExamples reports whether the example prompts should be visible: only
// while the transcript is exactly the synthetic welcome turn. The check is
// on the structured greeting flag, not on message text.
func (s *State) ShowExamples() bool {
	return len(s.Turns) == 1 && s.Turns[0].Answer != nil && s.Turns[0].Answer.IsGreeting
}
