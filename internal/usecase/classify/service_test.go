package classify

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/askcast/askcast/internal/domain"
	"github.com/askcast/askcast/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterPipelineMetrics()
	os.Exit(m.Run())
}

type mockProvider struct {
	label string
	err   error
	calls int
}

func (m *mockProvider) Classify(_ context.Context, _ string) (string, error) {
	m.calls++
	return m.label, m.err
}

func TestClassify_Question(t *testing.T) {
	svc := New(&mockProvider{label: "question"})
	got := svc.Classify(context.Background(), domain.Query{Text: "what is dopamine?"})
	if got != domain.LabelQuestion {
		t.Fatalf("expected question label, got %q", got)
	}
}

func TestClassify_SearchTerm(t *testing.T) {
	svc := New(&mockProvider{label: "search term"})
	got := svc.Classify(context.Background(), domain.Query{Text: "dopamine"})
	if got != domain.LabelSearchTerm {
		t.Fatalf("expected search_term label, got %q", got)
	}
}

func TestClassify_FailOpen(t *testing.T) {
	mp := &mockProvider{err: errors.New("endpoint unreachable")}
	svc := New(mp)

	got := svc.Classify(context.Background(), domain.Query{Text: "dopamine"})
	if got != domain.DefaultLabel {
		t.Fatalf("expected fail-open default %q, got %q", domain.DefaultLabel, got)
	}
	if mp.calls != 1 {
		t.Fatalf("expected exactly one provider call, got %d", mp.calls)
	}
}
