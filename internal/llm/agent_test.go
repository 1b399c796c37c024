package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/claim-appeal-api/internal/utils"
)

type staticSelector string

func (s staticSelector) SelectModel(context.Context) string { return string(s) }

// fakeChatServer mimics the chat completions endpoint and records requests.
type fakeChatServer struct {
	mu       sync.Mutex
	bodies   []string
	auth     []string
	reply    string
	status   int
	requests int
}

func (f *fakeChatServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.bodies = append(f.bodies, string(body))
	f.auth = append(f.auth, r.Header.Get("Authorization"))
	f.requests++
	f.mu.Unlock()

	if f.status != 0 {
		w.WriteHeader(f.status)
		w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
		return
	}

	var req struct {
		Model string `json:"model"`
	}
	_ = json.Unmarshal(body, &req)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   req.Model,
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": f.reply},
			"finish_reason": "stop",
		}},
		"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	})
}

func newTestFactory(t *testing.T, chat *fakeChatServer, model string) AgentFactory {
	t.Helper()
	srv := httptest.NewServer(chat)
	t.Cleanup(srv.Close)

	return NewAgentFactory(staticSelector(model), FactoryConfig{
		BaseURL:     srv.URL,
		Temperature: 0.7,
	}, utils.NopLogger())
}

func TestAgentRun(t *testing.T) {
	chat := &fakeChatServer{reply: "Dear Appeals Department,"}
	factory := newTestFactory(t, chat, "gpt-4-turbo")

	agent, err := factory.NewAgent(context.Background(), "sk-test")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4-turbo", agent.Model())

	out, err := agent.Run(context.Background(), "Write an appeal for claim 42")
	require.NoError(t, err)
	assert.Equal(t, "Dear Appeals Department,", out)

	require.Len(t, chat.bodies, 1)
	assert.Contains(t, chat.bodies[0], "Write an appeal for claim 42")
	assert.Contains(t, chat.bodies[0], `"model":"gpt-4-turbo"`)
	assert.Contains(t, chat.bodies[0], `"temperature":0.7`)
	assert.Equal(t, "Bearer sk-test", chat.auth[0])
}

func TestAgentKeepsConversationHistory(t *testing.T) {
	chat := &fakeChatServer{reply: "noted"}
	factory := newTestFactory(t, chat, "gpt-4o-mini")

	agent, err := factory.NewAgent(context.Background(), "sk-test")
	require.NoError(t, err)

	_, err = agent.Run(context.Background(), "first turn about claim 42")
	require.NoError(t, err)
	_, err = agent.Run(context.Background(), "second turn")
	require.NoError(t, err)

	require.Len(t, chat.bodies, 2)
	assert.Contains(t, chat.bodies[1], "first turn about claim 42")

	messages, err := agent.(*conversationAgent).memory.ChatHistory.Messages(context.Background())
	require.NoError(t, err)
	assert.Len(t, messages, 4)
}

func TestAgentRunFailure(t *testing.T) {
	chat := &fakeChatServer{status: http.StatusUnauthorized}
	factory := newTestFactory(t, chat, "gpt-4o-mini")

	agent, err := factory.NewAgent(context.Background(), "sk-bad")
	require.NoError(t, err)

	_, err = agent.Run(context.Background(), "prompt")
	assert.ErrorContains(t, err, "chat error")
}
