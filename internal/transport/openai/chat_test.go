package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestChatStreamer_Open(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		if !req.Stream {
			t.Error("expected stream:true")
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	cs := NewChatStreamer(&ChatConfig{
		APIKey:        "test-key",
		BaseURL:       server.URL,
		Model:         "test-model",
		SystemMessage: "be helpful",
		Logger:        zap.NewNop(),
	})

	stream, err := cs.Open(context.Background(), "Query: hello")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer stream.Close()

	chunk, err := stream.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if chunk.Data != `{"choices":[]}` {
		t.Fatalf("unexpected chunk: %q", chunk.Data)
	}

	done, err := stream.Next()
	if err != nil || !done.Done {
		t.Fatalf("expected terminal chunk, got %+v err=%v", done, err)
	}
}

func TestChatStreamer_Open_Non200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	cs := NewChatStreamer(&ChatConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
		Logger:  zap.NewNop(),
	})

	if _, err := cs.Open(context.Background(), "hello"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestChatStreamer_ContextCancelTearsDown(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[]}\n\n")
		w.(http.Flusher).Flush()
		<-release
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cs := NewChatStreamer(&ChatConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
		Logger:  zap.NewNop(),
	})

	stream, err := cs.Open(ctx, "hello")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer stream.Close()

	if _, err := stream.Next(); err != nil {
		t.Fatalf("Next failed: %v", err)
	}

	cancel()
	if _, err := stream.Next(); err == nil || err == io.EOF {
		t.Fatalf("expected transport error after cancel, got %v", err)
	}
}
