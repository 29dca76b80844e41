package hf

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/askcast/askcast/internal/domain"
)

func TestClassifier_Classify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req classifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		if req.Inputs != "what is dopamine?" {
			t.Errorf("unexpected inputs: %q", req.Inputs)
		}
		if len(req.Parameters.CandidateLabels) != 2 {
			t.Errorf("unexpected candidate labels: %v", req.Parameters.CandidateLabels)
		}

		json.NewEncoder(w).Encode(classifyResponse{
			Labels: []string{"search term", "question"},
			Scores: []float64{0.12, 0.88},
		})
	}))
	defer server.Close()

	c := NewClassifier(server.URL, "test-key", time.Second)
	label, err := c.Classify(context.Background(), "what is dopamine?")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if label != "question" {
		t.Fatalf("expected highest-scoring label \"question\", got %q", label)
	}
}

func TestClassifier_Classify_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewClassifier(server.URL, "test-key", time.Second)
	if _, err := c.Classify(context.Background(), "hi"); err == nil {
		t.Fatal("expected error for 503 response")
	}
}

func TestClassifier_Classify_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(classifyResponse{Labels: []string{"question"}, Scores: nil})
	}))
	defer server.Close()

	c := NewClassifier(server.URL, "test-key", time.Second)
	if _, err := c.Classify(context.Background(), "hi"); err == nil {
		t.Fatal("expected error for malformed response")
	}
}

func TestSparseEncoder_EncodeSparse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req sparseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		json.NewEncoder(w).Encode(sparseResponse{
			Indices: []int{101, 2054},
			Values:  []float32{0.8, 0.3},
		})
	}))
	defer server.Close()

	e := NewSparseEncoder(server.URL, "test-key", time.Second)
	vec, err := e.EncodeSparse(context.Background(), "dopamine")
	if err != nil {
		t.Fatalf("EncodeSparse failed: %v", err)
	}
	if len(vec.Indices) != 2 || vec.Values[0] != 0.8 {
		t.Fatalf("unexpected sparse vector: %+v", vec)
	}
}

func TestSparseEncoder_EncodeSparse_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	e := NewSparseEncoder(server.URL, "test-key", time.Second)
	_, err := e.EncodeSparse(context.Background(), "dopamine")
	if !errors.Is(err, domain.ErrSparseEncoderError) {
		t.Fatalf("expected ErrSparseEncoderError, got %v", err)
	}
}
