package agent

import (
	"bytes"
	"encoding/json"

	"github.com/docent-dev/docent/internal/conversation"
)

// MalformedAnswerPoint is the diagnostic shown when the agent's answer field
// is missing or not in a shape we understand.
const MalformedAnswerPoint = "No valid response format received"

// rawConversation mirrors the agent's loose conversation object. The fields
// whose shapes vary stay raw until probed. The normalized-form aliases
// (points, related_projects) let an already-normalized answer pass through
// unchanged.
type rawConversation struct {
	Response         json.RawMessage `json:"response"`
	RelevantProjects json.RawMessage `json:"relevant_projects"`
	Sources          json.RawMessage `json:"sources"`
	IsGreeting       bool            `json:"is_greeting"`
	ExistsInData     bool            `json:"exists_in_data"`
	ExistsElsewhere  bool            `json:"exists_elsewhere"`

	Points          json.RawMessage `json:"points"`
	RelatedProjects json.RawMessage `json:"related_projects"`
}

// rawSource accepts both the agent's source spelling and the normalized one.
type rawSource struct {
	SourceName string `json:"source_name"`
	SourceURL  string `json:"source_url"`
	Name       string `json:"name"`
	URL        string `json:"url"`
}

// Normalize converts an arbitrary conversation payload into the display
// model. It is total: any unexpected shape degrades to a diagnostic point
// instead of an error, and normalizing an already-normalized answer is a
// passthrough.
func Normalize(raw json.RawMessage) conversation.Answer {
	var conv rawConversation
	if err := json.Unmarshal(raw, &conv); err != nil {
		return conversation.Answer{
			Points:          []string{MalformedAnswerPoint},
			RelatedProjects: []string{},
			Sources:         []conversation.Source{{}},
		}
	}

	return conversation.Answer{
		Points:          normalizePoints(conv),
		IsGreeting:      conv.IsGreeting,
		ExistsInData:    conv.ExistsInData,
		ExistsElsewhere: conv.ExistsElsewhere,
		RelatedProjects: normalizeRelated(conv),
		Sources:         normalizeSources(conv.Sources),
	}
}

// normalizePoints resolves the answer text: a normalized points list passes
// through verbatim, a response list is used verbatim, a response string
// wraps into a one-element list, and anything else becomes the diagnostic.
func normalizePoints(conv rawConversation) []string {
	if present(conv.Points) {
		if points, ok := stringList(conv.Points); ok {
			return points
		}
	}
	if present(conv.Response) {
		if points, ok := stringList(conv.Response); ok {
			return points
		}
		var s string
		if err := json.Unmarshal(conv.Response, &s); err == nil {
			return []string{s}
		}
	}
	return []string{MalformedAnswerPoint}
}

// normalizeRelated accepts the related-project list under either spelling
// and defaults to an empty list.
func normalizeRelated(conv rawConversation) []string {
	for _, raw := range []json.RawMessage{conv.RelevantProjects, conv.RelatedProjects} {
		if !present(raw) {
			continue
		}
		if list, ok := stringList(raw); ok {
			return list
		}
	}
	return []string{}
}

// normalizeSources decodes the source list, accepting object and plain
// string entries. An absent or undecodable list becomes the single empty
// placeholder entry that the renderer filters out.
func normalizeSources(raw json.RawMessage) []conversation.Source {
	if !present(raw) {
		return []conversation.Source{{}}
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return []conversation.Source{{}}
	}

	sources := make([]conversation.Source, 0, len(entries))
	for _, entry := range entries {
		sources = append(sources, decodeSource(entry))
	}
	return sources
}

// decodeSource probes one source entry: a plain string is a bare name, an
// object may use either key spelling, and anything else degrades to an
// empty entry.
func decodeSource(raw json.RawMessage) conversation.Source {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return conversation.Source{Name: name}
	}

	var obj rawSource
	if err := json.Unmarshal(raw, &obj); err == nil {
		src := conversation.Source{Name: obj.SourceName, URL: obj.SourceURL}
		if src.Name == "" {
			src.Name = obj.Name
		}
		if src.URL == "" {
			src.URL = obj.URL
		}
		return src
	}

	return conversation.Source{}
}

// stringList decodes a JSON array of strings.
func stringList(raw json.RawMessage) ([]string, bool) {
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, false
	}
	return list, true
}

// present reports whether a raw JSON field was supplied with a non-null
// value. json.Unmarshal accepts null into typed targets without an error,
// so null has to be screened out before probing shapes.
func present(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
