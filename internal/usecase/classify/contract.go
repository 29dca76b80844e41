package classify

import "context"

// Provider is a zero-shot classification endpoint returning the
// highest-scoring candidate label for a text.
type Provider interface {
	Classify(ctx context.Context, text string) (string, error)
}
