package hf

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/askcast/askcast/internal/domain"
)

// SparseEncoder calls a SPLADE inference endpoint that turns query text into
// a term-weighted sparse vector.
type SparseEncoder struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewSparseEncoder creates a sparse encoder client.
func NewSparseEncoder(endpoint, apiKey string, timeout time.Duration) *SparseEncoder {
	return &SparseEncoder{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

type sparseRequest struct {
	Inputs string `json:"inputs"`
}

type sparseResponse struct {
	Indices []int     `json:"indices"`
	Values  []float32 `json:"values"`
}

// EncodeSparse returns the sparse vector for the query text. Failures abort
// the request, so every error wraps domain.ErrSparseEncoderError.
func (e *SparseEncoder) EncodeSparse(ctx context.Context, text string) (domain.SparseVector, error) {
	body, err := json.Marshal(sparseRequest{Inputs: text})
	if err != nil {
		return domain.SparseVector{}, fmt.Errorf("marshal sparse request: %w", err)
	}

	resp, err := postJSON(ctx, e.client, e.endpoint, e.apiKey, body)
	if err != nil {
		return domain.SparseVector{}, fmt.Errorf("%w: %w", domain.ErrSparseEncoderError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.SparseVector{}, fmt.Errorf("%w: endpoint returned status %d",
			domain.ErrSparseEncoderError, resp.StatusCode)
	}

	var parsed sparseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.SparseVector{}, fmt.Errorf("%w: decode response: %w",
			domain.ErrSparseEncoderError, err)
	}
	if len(parsed.Indices) != len(parsed.Values) {
		return domain.SparseVector{}, fmt.Errorf("%w: %d indices vs %d values",
			domain.ErrSparseEncoderError, len(parsed.Indices), len(parsed.Values))
	}

	return domain.SparseVector{Indices: parsed.Indices, Values: parsed.Values}, nil
}
