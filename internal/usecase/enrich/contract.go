package enrich

import "context"

// EpisodeStore reads episode-level attributes keyed by video id.
type EpisodeStore interface {
	Description(ctx context.Context, videoID string) (string, error)
	Tags(ctx context.Context, videoID string) ([]string, error)
}
