// Package enrich joins raw retrieval matches with episode attributes and
// derives the display fields clients render.
package enrich

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/askcast/askcast/internal/domain"
	"github.com/askcast/askcast/internal/logger"
)

// MissingPolicy decides what a missing episode row does to the request.
type MissingPolicy string

const (
	// PolicyFail aborts the whole request on a missing episode row.
	PolicyFail MissingPolicy = "fail"
	// PolicyDrop skips the affected passage and keeps the rest.
	PolicyDrop MissingPolicy = "drop"
)

// Service builds passages from matches.
type Service struct {
	episodes EpisodeStore
	policy   MissingPolicy
}

// New creates an enrichment service.
func New(episodes EpisodeStore, policy MissingPolicy) *Service {
	if policy == "" {
		policy = PolicyFail
	}
	return &Service{episodes: episodes, policy: policy}
}

// Enrich builds one passage from one match. A missing episode row is a hard
// failure for the passage; the caller applies the configured policy.
func (s *Service) Enrich(ctx context.Context, m domain.Match) (domain.Passage, error) {
	videoID := m.MetaString("video_id")
	if videoID == "" {
		return domain.Passage{}, fmt.Errorf("match %s has no video_id metadata", m.ID)
	}

	description, err := s.episodes.Description(ctx, videoID)
	if err != nil {
		return domain.Passage{}, fmt.Errorf("episode description: %w", err)
	}
	tags, err := s.episodes.Tags(ctx, videoID)
	if err != nil {
		return domain.Passage{}, fmt.Errorf("episode tags: %w", err)
	}

	start := m.MetaFloat("start")
	return domain.Passage{
		VideoID:     videoID,
		Description: description,
		Tags:        tags,
		Start:       formatTimestamp(start),
		End:         formatTimestamp(m.MetaFloat("end")),
		ClipURL:     clipURL(videoID, start),
		Published:   formatDate(m.MetaString("published")),
		Thumbnail:   thumbnailURL(videoID),
		Title:       m.MetaString("title"),
		Content:     m.MetaString("content"),
		Score:       m.Score,
	}, nil
}

// EnrichAll builds passages for every match, preserving retrieval order and
// applying the missing-row policy.
func (s *Service) EnrichAll(ctx context.Context, matches []domain.Match) ([]domain.Passage, error) {
	log := logger.FromContext(ctx)

	passages := make([]domain.Passage, 0, len(matches))
	for _, m := range matches {
		p, err := s.Enrich(ctx, m)
		if err != nil {
			if s.policy == PolicyDrop && errors.Is(err, domain.ErrEpisodeNotFound) {
				log.Warn("Dropping passage with missing episode row",
					zap.String("match_id", m.ID),
					zap.Error(err),
				)
				continue
			}
			return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
		}
		passages = append(passages, p)
	}
	return passages, nil
}
