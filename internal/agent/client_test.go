package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/docent-dev/docent/internal/testutil"
)

func TestClient_NewRequiresEndpoint(t *testing.T) {
	_, err := New("", 0, testutil.NewTestLogger(t))
	if err == nil {
		t.Fatal("expected error for empty endpoint")
	}
}

func TestClient_SendMessage_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify request.
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/api/chat" {
			t.Errorf("expected /api/chat, got %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %s", ct)
		}

		// Verify request body.
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Message != "what projects use Go?" {
			t.Errorf("unexpected message: %q", req.Message)
		}
		if req.ConversationID == "" {
			t.Error("expected non-empty conversation_id")
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"conversation": {
			"response": ["Project A is written in Go", "Project B is written in Go"],
			"relevant_projects": ["Project A", "Project B"],
			"sources": [{"source_name": "README", "source_url": "https://example.com/readme"}]
		}}`))
	}))
	defer server.Close()

	c, err := New(server.URL, 0, testutil.NewTestLogger(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := testutil.NewTestContext()
	defer cancel()
	reply, err := c.SendMessage(ctx, "what projects use Go?")
	if err != nil {
		t.Fatalf("SendMessage() error: %v", err)
	}
	if reply.Answer == nil {
		t.Fatal("expected an answer")
	}

	ans := reply.Answer
	if len(ans.Points) != 2 {
		t.Errorf("expected 2 points, got %d", len(ans.Points))
	}
	if ans.Points[0] != "Project A is written in Go" {
		t.Errorf("unexpected first point: %q", ans.Points[0])
	}
	if len(ans.RelatedProjects) != 2 || ans.RelatedProjects[0] != "Project A" {
		t.Errorf("unexpected related projects: %v", ans.RelatedProjects)
	}
	if !ans.HasSources() {
		t.Fatal("expected visible sources")
	}
	if ans.Sources[0].Name != "README" || ans.Sources[0].URL != "https://example.com/readme" {
		t.Errorf("unexpected source: %+v", ans.Sources[0])
	}
}

func TestClient_SendMessage_StringResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"conversation": {"response": "hello"}}`))
	}))
	defer server.Close()

	c, err := New(server.URL, 0, testutil.NewTestLogger(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reply, err := c.SendMessage(context.Background(), "hi")
	if err != nil {
		t.Fatalf("SendMessage() error: %v", err)
	}
	if reply.Answer == nil {
		t.Fatal("expected an answer")
	}

	ans := reply.Answer
	if len(ans.Points) != 1 || ans.Points[0] != "hello" {
		t.Errorf("expected points [hello], got %v", ans.Points)
	}
	if len(ans.RelatedProjects) != 0 {
		t.Errorf("expected no related projects, got %v", ans.RelatedProjects)
	}
	if ans.HasSources() {
		t.Error("expected no visible sources")
	}
}

func TestClient_SendMessage_EmptyPayload(t *testing.T) {
	bodies := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"null conversation", `{"conversation": null}`},
		{"unrelated fields", `{"status": "ok"}`},
		{"empty body", ``},
		{"null body", `null`},
	}

	for _, tc := range bodies {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			c, err := New(server.URL, 0, testutil.NewTestLogger(t))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			reply, err := c.SendMessage(context.Background(), "anything")
			if err != nil {
				t.Fatalf("SendMessage() error: %v", err)
			}
			if reply.Answer != nil {
				t.Errorf("expected nil answer for %s, got %+v", tc.name, reply.Answer)
			}
		})
	}
}

func TestClient_SendMessage_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("internal error"))
	}))
	defer server.Close()

	c, err := New(server.URL, 0, testutil.NewTestLogger(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = c.SendMessage(context.Background(), "test")
	if err == nil {
		t.Fatal("expected error for 500")
	}
	if !strings.Contains(err.Error(), "HTTP 500") {
		t.Errorf("error should mention status, got: %v", err)
	}
}

func TestClient_SendMessage_StructuredError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(chatErrorResponse{
			Error:   "Rate limit exceeded",
			Message: "Maximum 60 requests per minute",
		})
	}))
	defer server.Close()

	c, err := New(server.URL, 0, testutil.NewTestLogger(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = c.SendMessage(context.Background(), "test")
	if err == nil {
		t.Fatal("expected error for 429")
	}
	if !strings.Contains(err.Error(), "rate limit") {
		t.Errorf("error should mention rate limit, got: %v", err)
	}
	if !strings.Contains(err.Error(), "Maximum 60 requests per minute") {
		t.Errorf("error should carry the server message, got: %v", err)
	}
}

func TestClient_SendMessage_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	c, err := New(server.URL, 0, testutil.NewTestLogger(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = c.SendMessage(context.Background(), "test")
	if err == nil {
		t.Fatal("expected error for non-JSON body")
	}
	if !strings.Contains(err.Error(), "failed to parse chat response") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestClient_ConversationIDStableAcrossCalls(t *testing.T) {
	var ids []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		ids = append(ids, req.ConversationID)
		_, _ = w.Write([]byte(`{"conversation": {"response": "ok"}}`))
	}))
	defer server.Close()

	c, err := New(server.URL, 0, testutil.NewTestLogger(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := c.SendMessage(context.Background(), "question"); err != nil {
			t.Fatalf("SendMessage() error: %v", err)
		}
	}

	if len(ids) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(ids))
	}
	if ids[0] == "" || ids[0] != ids[1] {
		t.Errorf("conversation id should be stable across calls, got %v", ids)
	}
	if ids[0] != c.ConversationID() {
		t.Errorf("wire id %q does not match ConversationID() %q", ids[0], c.ConversationID())
	}
}

func TestClient_TrimsTrailingSlash(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("expected /api/chat, got %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c, err := New(server.URL+"/", 0, testutil.NewTestLogger(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := c.SendMessage(context.Background(), "test"); err != nil {
		t.Fatalf("SendMessage() error: %v", err)
	}
}

func TestTruncateBody(t *testing.T) {
	short := "short body"
	if got := truncateBody([]byte(short)); got != short {
		t.Errorf("truncateBody(%q) = %q", short, got)
	}

	long := strings.Repeat("x", 300)
	got := truncateBody([]byte(long))
	if len(got) != 203 {
		t.Errorf("expected 203 chars (200 + ellipsis), got %d", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got[len(got)-10:])
	}
}
