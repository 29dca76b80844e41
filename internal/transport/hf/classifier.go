// Package hf provides clients for Hugging Face style inference endpoints:
// zero-shot query classification and SPLADE sparse encoding.
package hf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// candidate labels sent to the zero-shot endpoint. The provider scores the
// query against these natural-language descriptions.
var candidateLabels = []string{"question", "search term"}

// Classifier calls a zero-shot classification inference endpoint.
type Classifier struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewClassifier creates a zero-shot classifier client.
func NewClassifier(endpoint, apiKey string, timeout time.Duration) *Classifier {
	return &Classifier{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

type classifyRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters classifyParameters `json:"parameters"`
}

type classifyParameters struct {
	CandidateLabels []string `json:"candidate_labels"`
}

type classifyResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// Classify returns the highest-scoring candidate label for the query text.
func (c *Classifier) Classify(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(classifyRequest{
		Inputs:     text,
		Parameters: classifyParameters{CandidateLabels: candidateLabels},
	})
	if err != nil {
		return "", fmt.Errorf("marshal classify request: %w", err)
	}

	resp, err := postJSON(ctx, c.client, c.endpoint, c.apiKey, body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	var parsed classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode classify response: %w", err)
	}
	if len(parsed.Labels) == 0 || len(parsed.Labels) != len(parsed.Scores) {
		return "", fmt.Errorf("malformed classify response: %d labels, %d scores",
			len(parsed.Labels), len(parsed.Scores))
	}

	best := 0
	for i, score := range parsed.Scores {
		if score > parsed.Scores[best] {
			best = i
		}
	}
	return parsed.Labels[best], nil
}

func postJSON(ctx context.Context, client *http.Client, url, apiKey string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call inference endpoint: %w", err)
	}
	return resp, nil
}
