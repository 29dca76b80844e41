package query

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/askcast/askcast/internal/domain"
)

type mockCache struct {
	mu     sync.Mutex
	pair   domain.EmbeddingPair
	hit    bool
	stored []domain.EmbeddingPair
}

func (m *mockCache) Lookup(_ context.Context, _ domain.Query) (domain.EmbeddingPair, bool) {
	return m.pair, m.hit
}

func (m *mockCache) StoreAsync(_ domain.Query, pair domain.EmbeddingPair) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored = append(m.stored, pair)
}

type mockEmbedder struct {
	calls atomic.Int32
	vec   []float32
	err   error
}

func (m *mockEmbedder) EmbedDense(_ context.Context, _ string) ([]float32, error) {
	m.calls.Add(1)
	return m.vec, m.err
}

type mockSparse struct {
	calls atomic.Int32
	vec   domain.SparseVector
	err   error
}

func (m *mockSparse) EncodeSparse(_ context.Context, _ string) (domain.SparseVector, error) {
	m.calls.Add(1)
	return m.vec, m.err
}

type mockClassifier struct {
	label domain.Label
}

func (m *mockClassifier) Classify(_ context.Context, _ domain.Query) domain.Label {
	return m.label
}

type mockRetriever struct {
	gotPair  domain.EmbeddingPair
	gotLabel domain.Label
	matches  []domain.Match
	err      error
}

func (m *mockRetriever) Retrieve(_ context.Context, pair domain.EmbeddingPair, label domain.Label) ([]domain.Match, error) {
	m.gotPair = pair
	m.gotLabel = label
	return m.matches, m.err
}

type mockEnricher struct {
	passages []domain.Passage
	err      error
}

func (m *mockEnricher) EnrichAll(_ context.Context, _ []domain.Match) ([]domain.Passage, error) {
	return m.passages, m.err
}

type mockAnswerer struct {
	events []domain.StreamEvent
}

func (m *mockAnswerer) Stream(_ context.Context, _ domain.Query, _ []domain.Passage) <-chan domain.StreamEvent {
	ch := make(chan domain.StreamEvent, len(m.events))
	for _, ev := range m.events {
		ch <- ev
	}
	close(ch)
	return ch
}

type deps struct {
	cache      *mockCache
	embedder   *mockEmbedder
	sparse     *mockSparse
	classifier *mockClassifier
	retriever  *mockRetriever
	enricher   *mockEnricher
	answerer   *mockAnswerer
}

func newTestService() (*Service, *deps) {
	d := &deps{
		cache:      &mockCache{},
		embedder:   &mockEmbedder{vec: []float32{0.1, 0.2}},
		sparse:     &mockSparse{vec: domain.SparseVector{Indices: []int{1}, Values: []float32{0.5}}},
		classifier: &mockClassifier{label: domain.LabelQuestion},
		retriever:  &mockRetriever{},
		enricher:   &mockEnricher{},
		answerer:   &mockAnswerer{events: []domain.StreamEvent{{Type: domain.EventClose}}},
	}
	svc := New(d.cache, d.embedder, d.sparse, d.classifier, d.retriever, d.enricher, d.answerer)
	return svc, d
}
