package pinecone

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/askcast/askcast/internal/domain"
)

// newIndexServer fakes both the control plane (GET /indexes/{name}) and the
// data plane (POST /query, /describe_index_stats) on one listener.
func newIndexServer(t *testing.T, matches []map[string]any) (*httptest.Server, *int) {
	t.Helper()
	var queryCalls int
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/indexes/podcast-search":
			json.NewEncoder(w).Encode(map[string]any{"host": server.URL, "dimension": 4})
		case "/describe_index_stats":
			json.NewEncoder(w).Encode(map[string]any{
				"dimension":        4,
				"totalVectorCount": 42,
				"namespaces":       map[string]any{"nocontext-default": map[string]any{}},
			})
		case "/query":
			queryCalls++
			var req queryRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode query: %v", err)
				return
			}
			if !req.IncludeMetadata {
				t.Error("expected includeMetadata")
			}
			if req.SparseVector == nil {
				t.Error("expected sparse vector in hybrid query")
			}
			json.NewEncoder(w).Encode(map[string]any{"matches": matches})
		default:
			http.NotFound(w, r)
		}
	}))
	return server, &queryCalls
}

func newTestClient(url string) *Client {
	return NewClient(&Config{
		ControllerURL: url,
		APIKey:        "test-key",
		IndexName:     "podcast-search",
		Namespace:     "nocontext-default",
		Timeout:       time.Second,
		Logger:        zap.NewNop(),
	})
}

func TestClient_InitAndQuery(t *testing.T) {
	matches := []map[string]any{
		{"id": "a", "score": 0.9, "metadata": map[string]any{"video_id": "abc"}},
		{"id": "b", "score": 0.5, "metadata": map[string]any{"video_id": "def"}},
	}
	server, _ := newIndexServer(t, matches)
	defer server.Close()

	c := newTestClient(server.URL)
	ctx := context.Background()
	if err := c.Init(ctx); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := c.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	got, err := c.Query(ctx,
		[]float32{0.1, 0.2, 0.3, 0.4},
		domain.SparseVector{Indices: []int{1}, Values: []float32{0.5}},
		10,
	)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[0].Score != 0.9 {
		t.Fatalf("unexpected matches: %+v", got)
	}
	if got[0].MetaString("video_id") != "abc" {
		t.Fatalf("unexpected metadata: %+v", got[0].Metadata)
	}
}

func TestClient_QueryBeforeInit(t *testing.T) {
	c := newTestClient("http://controller.invalid")
	_, err := c.Query(context.Background(), []float32{0.1}, domain.SparseVector{}, 10)
	if !errors.Is(err, domain.ErrIndexStale) {
		t.Fatalf("expected ErrIndexStale, got %v", err)
	}
}

func TestClient_PingDeadHost(t *testing.T) {
	server, _ := newIndexServer(t, nil)
	c := newTestClient(server.URL)
	if err := c.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	server.Close()

	err := c.Ping(context.Background())
	if !errors.Is(err, domain.ErrIndexStale) {
		t.Fatalf("expected ErrIndexStale, got %v", err)
	}
}

func TestClient_ReinitRecoversHost(t *testing.T) {
	server, calls := newIndexServer(t, []map[string]any{})
	defer server.Close()

	c := newTestClient(server.URL)
	if err := c.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	// Simulate a stale handle, then recover it through the control plane.
	c.mu.Lock()
	c.host = "http://stale.invalid"
	c.mu.Unlock()

	if err := c.Ping(context.Background()); err == nil {
		t.Fatal("expected ping failure on stale host")
	}
	if err := c.Reinit(context.Background()); err != nil {
		t.Fatalf("Reinit failed: %v", err)
	}
	if _, err := c.Query(context.Background(),
		[]float32{0.1}, domain.SparseVector{Indices: []int{0}, Values: []float32{1}}, 5,
	); err != nil {
		t.Fatalf("Query after reinit failed: %v", err)
	}
	if *calls != 1 {
		t.Fatalf("expected 1 query call, got %d", *calls)
	}
}
