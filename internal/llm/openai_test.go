package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
)

func TestOpenAIClient_Complete(t *testing.T) {
	var got openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Model: got.Model,
			Choices: []openai.ChatCompletionChoice{{
				Message:      openai.ChatCompletionMessage{Role: "assistant", Content: "Happy to help!"},
				FinishReason: openai.FinishReasonStop,
			}},
			Usage: openai.Usage{PromptTokens: 12, CompletionTokens: 4},
		})
	}))
	defer srv.Close()

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	c := NewOpenAIClientWithConfig(cfg)

	resp, err := c.Complete(context.Background(), &CompletionRequest{
		System:   "You are Sarah Chen.",
		Messages: []ChatMessage{{Role: "user", Content: "I need a flight"}},
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Content != "Happy to help!" || resp.TokensIn != 12 || resp.StopReason != "stop" {
		t.Errorf("Complete() = %+v", resp)
	}
	if got.Model != defaultOpenAIModel {
		t.Errorf("model = %q, want %q", got.Model, defaultOpenAIModel)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != openai.ChatMessageRoleSystem {
		t.Errorf("messages = %+v", got.Messages)
	}
}

func TestWithSystem(t *testing.T) {
	req := &CompletionRequest{
		System: "persona",
		Messages: []ChatMessage{
			{Role: "assistant", Content: "Hi"},
			{Role: "user", Content: "hello"},
		},
	}
	msgs := withSystem(req)
	if msgs[1].Content != "persona\n\nhello" {
		t.Errorf("withSystem() = %+v", msgs)
	}
	if req.Messages[1].Content != "hello" {
		t.Error("withSystem() mutated the request")
	}

	only := withSystem(&CompletionRequest{System: "persona"})
	if len(only) != 1 || only[0].Role != "user" {
		t.Errorf("withSystem() without messages = %+v", only)
	}
}

func TestNewClient(t *testing.T) {
	if _, err := NewClient("mystery", "key"); err == nil {
		t.Error("unknown provider should fail")
	}
	if _, err := NewClient(ProviderOpenAI, ""); err == nil {
		t.Error("missing key should fail")
	}
	c, err := NewClient(ProviderAnthropic, "key")
	if err != nil || c.Name() != "anthropic" {
		t.Errorf("NewClient(anthropic) = %v, %v", c, err)
	}
}
