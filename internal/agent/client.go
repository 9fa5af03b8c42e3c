// Package agent is the HTTP client for the hosted project-agent service.
// It owns the single outbound call of the application and decodes the
// service's loosely shaped replies into the normalized display model, so
// nothing downstream ever inspects raw JSON.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/docent-dev/docent/internal/conversation"
	"github.com/docent-dev/docent/internal/safe"
)

// DefaultTimeout bounds one round trip to the project agent.
const DefaultTimeout = 60 * time.Second

// Client talks to the project-agent chat endpoint. A Client mints one
// conversation id at construction and sends it on every call; the backend
// uses it to thread turns into a single conversation.
type Client struct {
	endpoint       string
	conversationID string
	client         *http.Client
	logger         zerolog.Logger
}

// chatRequest is the JSON body sent to POST /api/chat.
type chatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// chatEnvelope is the JSON body returned from POST /api/chat. The
// conversation object stays raw here because its fields vary in shape
// (string or list, object or string); Normalize probes them exactly once.
type chatEnvelope struct {
	Conversation json.RawMessage `json:"conversation"`
}

// chatErrorResponse is the JSON error body from the endpoint.
type chatErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Reply is the outcome of one successful round trip. A nil Answer means the
// call succeeded but the backend sent no usable conversation object.
type Reply struct {
	Answer *conversation.Answer
}

// New creates a client for the project-agent endpoint.
func New(endpoint string, timeout time.Duration, logger zerolog.Logger) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("project agent endpoint URL is required")
	}

	// Strip trailing slash.
	endpoint = strings.TrimRight(endpoint, "/")

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		endpoint:       endpoint,
		conversationID: uuid.NewString(),
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}, nil
}

// ConversationID returns the session's conversation id.
func (c *Client) ConversationID() string {
	return c.conversationID
}

// SendMessage sends one user question and returns the agent's reply.
// Network, server and parse failures come back as errors; a reply without a
// conversation object is not an error and yields Reply.Answer == nil.
func (c *Client) SendMessage(ctx context.Context, query string) (*Reply, error) {
	chatReq := chatRequest{
		Message:        query,
		ConversationID: c.conversationID,
	}

	body, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Debug().
		Str("conversation_id", c.conversationID).
		Int("query_length", len(query)).
		Msg("sending chat request")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	defer safe.Close(resp.Body, c.logger, "failed to close response body")

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// Handle error responses.
	if resp.StatusCode != http.StatusOK {
		return nil, mapHTTPError(resp.StatusCode, respBody)
	}

	// An empty success body counts as "no answer", not a parse failure.
	if len(bytes.TrimSpace(respBody)) == 0 {
		return &Reply{}, nil
	}

	var envelope chatEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse chat response: %w (body: %s)", err, truncateBody(respBody))
	}

	if !present(envelope.Conversation) {
		return &Reply{}, nil
	}

	answer := Normalize(envelope.Conversation)
	return &Reply{Answer: &answer}, nil
}

// mapHTTPError converts HTTP error status codes to descriptive errors.
func mapHTTPError(statusCode int, body []byte) error {
	// Try to parse a structured error response.
	var errResp chatErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		switch statusCode {
		case http.StatusTooManyRequests:
			return fmt.Errorf("rate limit exceeded on project agent endpoint: %s", errResp.Message)
		default:
			return fmt.Errorf("project agent error (HTTP %d): %s", statusCode, errResp.Message)
		}
	}

	switch statusCode {
	case http.StatusTooManyRequests:
		return fmt.Errorf("rate limit exceeded on project agent endpoint")
	default:
		return fmt.Errorf("project agent unavailable (HTTP %d): %s", statusCode, truncateBody(body))
	}
}

// truncateBody returns up to 200 bytes of the response body for error messages.
func truncateBody(body []byte) string {
	if len(body) > 200 {
		return string(body[:200]) + "..."
	}
	return string(body)
}
