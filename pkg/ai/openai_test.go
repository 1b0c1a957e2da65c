package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestOpenAIChatComplete_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("unexpected auth header %q", got)
		}

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if req.Model != "gpt-3.5-turbo" {
			t.Fatalf("unexpected model %q", req.Model)
		}
		if len(req.Messages) != 2 {
			t.Fatalf("expected system+user messages, got %d", len(req.Messages))
		}
		if req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Fatalf("unexpected roles: %+v", req.Messages)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": `{"summary":"ok"}`}, "finish_reason": "stop"},
			},
			"usage": map[string]int{"total_tokens": 321},
		})
	}))
	defer ts.Close()

	client := NewOpenAIChat(ts.URL, "test-key", "gpt-3.5-turbo", 0.3, 1500, 30*time.Second)
	result, err := client.Complete(context.Background(), "You are an assistant.", "Summarize this.")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if result.Content != `{"summary":"ok"}` {
		t.Errorf("unexpected content %q", result.Content)
	}
	if result.TokensUsed != 321 {
		t.Errorf("expected 321 tokens, got %d", result.TokensUsed)
	}
}

func TestOpenAIChatComplete_OmitsEmptySystemPrompt(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Fatalf("expected single user message, got %+v", req.Messages)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "hi"}},
			},
		})
	}))
	defer ts.Close()

	client := NewOpenAIChat(ts.URL, "k", "m", 0, 0, 30*time.Second)
	if _, err := client.Complete(context.Background(), "", "hello"); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
}

func TestOpenAIChatComplete_ErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limit exceeded"}}`))
	}))
	defer ts.Close()

	client := NewOpenAIChat(ts.URL, "k", "m", 0, 0, 30*time.Second)
	_, err := client.Complete(context.Background(), "", "hello")
	if err == nil {
		t.Fatal("expected error for 429 response")
	}
}

func TestOpenAIChatComplete_EmptyChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer ts.Close()

	client := NewOpenAIChat(ts.URL, "k", "m", 0, 0, 30*time.Second)
	_, err := client.Complete(context.Background(), "", "hello")
	if err == nil {
		t.Fatal("expected error for empty choices")
	}
}
