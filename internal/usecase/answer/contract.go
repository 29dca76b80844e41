package answer

import (
	"context"

	"github.com/askcast/askcast/internal/domain"
)

// ChunkStream is one open provider stream. Next returns io.EOF once the
// stream is exhausted; Close tears the provider connection down.
type ChunkStream interface {
	Next() (domain.ProviderChunk, error)
	Close() error
}

// Generator opens a streaming completion with the given user content.
type Generator interface {
	Open(ctx context.Context, userContent string) (ChunkStream, error)
}
