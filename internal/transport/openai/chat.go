package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/askcast/askcast/internal/domain"
)

const defaultChatBaseURL = "https://api.openai.com/v1"

// ChatStreamer opens streaming chat completions against an OpenAI-compatible
// endpoint. The response is consumed frame-by-frame through a Scanner; the
// typed go-openai stream decoder is deliberately not used here because the
// answer stream forwards raw provider chunks without re-marshalling.
type ChatStreamer struct {
	baseURL       string
	apiKey        string
	model         string
	systemMessage string
	client        *http.Client
	logger        *zap.Logger
}

// ChatConfig holds the generation provider settings.
type ChatConfig struct {
	APIKey        string
	BaseURL       string
	Model         string
	SystemMessage string
	Client        *http.Client
	Logger        *zap.Logger
}

// NewChatStreamer creates a streaming chat client.
func NewChatStreamer(cfg *ChatConfig) *ChatStreamer {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultChatBaseURL
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{}
	}
	return &ChatStreamer{
		baseURL:       baseURL,
		apiKey:        cfg.APIKey,
		model:         cfg.Model,
		systemMessage: cfg.SystemMessage,
		client:        client,
		logger:        cfg.Logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// Stream is one open streaming completion. Close tears down the provider
// connection; it is safe to call after an error.
type Stream struct {
	body io.ReadCloser
	sc   *Scanner
}

// Next returns the next provider chunk.
func (s *Stream) Next() (domain.ProviderChunk, error) {
	return s.sc.Next()
}

// Close releases the provider connection.
func (s *Stream) Close() error {
	return s.body.Close()
}

// Open starts a streaming completion with the grounding prompt as the system
// instruction and the constructed message as user content. The request is
// bound to ctx, so client disconnects tear the provider connection down.
func (c *ChatStreamer) Open(ctx context.Context, userContent string) (*Stream, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: c.systemMessage},
			{Role: "user", Content: userContent},
		},
		Stream: true,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call chat api: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		c.logger.Error("Chat API returned non-200",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return nil, fmt.Errorf("chat api returned status %d", resp.StatusCode)
	}

	return &Stream{body: resp.Body, sc: NewScanner(resp.Body)}, nil
}
