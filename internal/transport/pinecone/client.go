// Package pinecone is a REST client for a Pinecone-style vector index:
// control-plane host resolution plus data-plane hybrid queries.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/askcast/askcast/internal/domain"
)

// Client holds the vector index handle. The data-plane host is resolved once
// at startup and re-resolved on staleness; the handle is shared across
// requests, so host access is mutex-guarded.
type Client struct {
	controllerURL string
	apiKey        string
	indexName     string
	namespace     string
	client        *http.Client
	logger        *zap.Logger

	mu   sync.RWMutex
	host string
}

// Config holds vector index connection settings.
type Config struct {
	ControllerURL string
	APIKey        string
	IndexName     string
	Namespace     string
	Timeout       time.Duration
	Logger        *zap.Logger
}

// NewClient creates an index client. Call Init before Query.
func NewClient(cfg *Config) *Client {
	return &Client{
		controllerURL: strings.TrimRight(cfg.ControllerURL, "/"),
		apiKey:        cfg.APIKey,
		indexName:     cfg.IndexName,
		namespace:     cfg.Namespace,
		client:        &http.Client{Timeout: cfg.Timeout},
		logger:        cfg.Logger,
	}
}

type describeIndexResponse struct {
	Host      string `json:"host"`
	Dimension int    `json:"dimension"`
	Status    struct {
		Ready bool   `json:"ready"`
		State string `json:"state"`
	} `json:"status"`
}

type indexStatsResponse struct {
	Dimension        int                        `json:"dimension"`
	IndexFullness    float64                    `json:"indexFullness"`
	TotalVectorCount int                        `json:"totalVectorCount"`
	Namespaces       map[string]json.RawMessage `json:"namespaces"`
}

// Init resolves the data-plane host via the control plane and logs index
// stats the way an operator would want to see them at startup.
func (c *Client) Init(ctx context.Context) error {
	host, err := c.resolveHost(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.host = host
	c.mu.Unlock()

	stats, err := c.describeStats(ctx)
	if err != nil {
		return err
	}

	namespaces := make([]string, 0, len(stats.Namespaces))
	for ns := range stats.Namespaces {
		namespaces = append(namespaces, ns)
	}
	c.logger.Info("Vector index initialized",
		zap.String("index", c.indexName),
		zap.Int("dimension", stats.Dimension),
		zap.Float64("index_fullness", stats.IndexFullness),
		zap.Strings("namespaces", namespaces),
		zap.Int("total_vectors", stats.TotalVectorCount),
	)
	return nil
}

// Reinit re-resolves the data-plane host after a stale handle.
func (c *Client) Reinit(ctx context.Context) error {
	host, err := c.resolveHost(ctx)
	if err != nil {
		return fmt.Errorf("reinit index handle: %w", err)
	}
	c.mu.Lock()
	c.host = host
	c.mu.Unlock()
	return nil
}

// Ping verifies the handle is live by describing index stats.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.describeStats(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIndexStale, err)
	}
	return nil
}

type queryRequest struct {
	Vector          []float32     `json:"vector"`
	SparseVector    *sparseVector `json:"sparseVector,omitempty"`
	TopK            int           `json:"topK"`
	Namespace       string        `json:"namespace,omitempty"`
	IncludeMetadata bool          `json:"includeMetadata"`
}

type sparseVector struct {
	Indices []int     `json:"indices"`
	Values  []float32 `json:"values"`
}

type queryResponse struct {
	Matches []struct {
		ID       string         `json:"id"`
		Score    float32        `json:"score"`
		Metadata map[string]any `json:"metadata"`
	} `json:"matches"`
}

// Query issues one true hybrid similarity query: both vectors in a single
// request, ranked by the index's combined similarity.
func (c *Client) Query(ctx context.Context, dense []float32, sparse domain.SparseVector, topK int) ([]domain.Match, error) {
	req := queryRequest{
		Vector:          dense,
		TopK:            topK,
		Namespace:       c.namespace,
		IncludeMetadata: true,
	}
	if !sparse.IsZero() {
		req.SparseVector = &sparseVector{Indices: sparse.Indices, Values: sparse.Values}
	}

	var parsed queryResponse
	if err := c.postDataPlane(ctx, "/query", req, &parsed); err != nil {
		return nil, err
	}

	matches := make([]domain.Match, 0, len(parsed.Matches))
	for _, m := range parsed.Matches {
		matches = append(matches, domain.Match{ID: m.ID, Score: m.Score, Metadata: m.Metadata})
	}
	return matches, nil
}

func (c *Client) resolveHost(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s/indexes/%s", c.controllerURL, c.indexName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create describe request: %w", err)
	}
	req.Header.Set("Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("describe index: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("describe index returned status %d", resp.StatusCode)
	}

	var parsed describeIndexResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode describe response: %w", err)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("describe index returned no host")
	}

	host := parsed.Host
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	return strings.TrimRight(host, "/"), nil
}

func (c *Client) describeStats(ctx context.Context) (*indexStatsResponse, error) {
	var parsed indexStatsResponse
	if err := c.postDataPlane(ctx, "/describe_index_stats", struct{}{}, &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

func (c *Client) postDataPlane(ctx context.Context, path string, body, out any) error {
	c.mu.RLock()
	host := c.host
	c.mu.RUnlock()
	if host == "" {
		return fmt.Errorf("%w: index handle not initialized", domain.ErrIndexStale)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, host+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("call index %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("index %s returned status %d: %s", path, resp.StatusCode, snippet)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
