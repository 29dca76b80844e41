package health

import "context"

// CachePinger checks embedding cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// EpisodePinger checks episode row store availability.
type EpisodePinger interface {
	Ping(ctx context.Context) error
}

// IndexPinger checks vector index availability.
type IndexPinger interface {
	Ping(ctx context.Context) error
}
