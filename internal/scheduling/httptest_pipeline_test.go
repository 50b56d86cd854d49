package scheduling

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ollender/ollender/internal/domain"
	"github.com/ollender/ollender/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPipelineTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Skipf("skipping HTTP integration test: local listener unavailable (%v)", r)
			}
		}()
		srv = httptest.NewServer(handler)
	}()
	return srv
}

// TestReasoner_WithHTTPTestServer exercises the full HTTP serialization path:
// httptest chat server -> ollama client -> session -> reasoner -> parser.
// The fake model picks its reply by inspecting the latest stage prompt, so
// the test also validates that the full conversation history is shipped on
// every round.
func TestReasoner_WithHTTPTestServer(t *testing.T) {
	replies := map[string]string{
		"propose":  slotsResponse(t, "2025-09-04T09:30:00", "2025-09-04T10:30:00", "2025-09-04T11:30:00", "2025-09-04T14:00:00", "2025-09-04T15:00:00"),
		"validate": slotsResponse(t, "2025-09-04T09:30:00", "2025-09-04T10:30:00"),
		"select":   slotsResponse(t, "2025-09-04T09:30:00"),
	}

	var historyLens []int
	srv := newPipelineTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		var req struct {
			Messages []llm.Message `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		historyLens = append(historyLens, len(req.Messages))

		last := req.Messages[len(req.Messages)-1].Content
		var reply string
		switch {
		case strings.Contains(last, "propose exactly 5"):
			reply = replies["propose"]
		case strings.Contains(last, "remove at least 2"):
			reply = replies["validate"]
		case strings.Contains(last, "select the single most suitable"):
			reply = replies["select"]
		default:
			t.Errorf("unrecognized stage prompt: %.80s", last)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"model":   "test-model",
			"message": llm.Message{Role: llm.RoleAssistant, Content: reply},
		})
	})
	defer srv.Close()

	cfg := llm.DefaultConfig()
	cfg.Endpoint = srv.URL
	cfg.Model = "test-model"

	session := llm.NewSession(llm.NewOllamaClient(cfg, llm.NoopObserver{}), SystemPrompt, nil)
	reasoner := NewReasoner(session, domain.Event{
		Title:          "Team Meeting",
		Description:    "Weekly sync",
		AdditionalInfo: "Thursday next week, 9am-5pm, 20 minutes",
	}, []domain.Event{
		{Title: "Standup", StartTime: timePtr("2025-09-04T09:00:00"), EndTime: timePtr("2025-09-04T09:15:00")},
	}, nil)

	selected, err := reasoner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Slot 1", selected.Title)
	assert.Equal(t, "2025-09-04T09:30:00", domain.FormatTime(selected.StartTime))

	// system+user, then +assistant+user per later round.
	assert.Equal(t, []int{2, 4, 6}, historyLens)

	// Terminal reset left only the system directive behind.
	require.Len(t, session.History(), 1)
	assert.Equal(t, llm.RoleSystem, session.History()[0].Role)
}

// TestReasoner_ProseReplyLeavesPromptInHistory covers the failure path end
// to end: a model replying with prose aborts the run with a parse error and
// no event is produced, while the session transcript shows the failed round
// before cleanup.
func TestReasoner_ProseReplyEndsRun(t *testing.T) {
	srv := newPipelineTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"model":   "test-model",
			"message": llm.Message{Role: llm.RoleAssistant, Content: "Thursday morning sounds lovely."},
		})
	})
	defer srv.Close()

	cfg := llm.DefaultConfig()
	cfg.Endpoint = srv.URL

	session := llm.NewSession(llm.NewOllamaClient(cfg, llm.NoopObserver{}), SystemPrompt, nil)
	reasoner := NewReasoner(session, domain.Event{Title: "Team Meeting", Description: "Weekly sync"}, nil, nil)

	_, err := reasoner.Run(context.Background())
	assert.ErrorIs(t, err, ErrParse)
}
