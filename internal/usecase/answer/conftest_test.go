package answer

import (
	"context"
	"io"

	"github.com/askcast/askcast/internal/domain"
)

type mockStream struct {
	chunks []domain.ProviderChunk
	err    error
	pos    int
	closed bool
}

func (m *mockStream) Next() (domain.ProviderChunk, error) {
	if m.pos >= len(m.chunks) {
		if m.err != nil {
			return domain.ProviderChunk{}, m.err
		}
		return domain.ProviderChunk{}, io.ErrUnexpectedEOF
	}
	c := m.chunks[m.pos]
	m.pos++
	return c, nil
}

func (m *mockStream) Close() error {
	m.closed = true
	return nil
}

type mockGenerator struct {
	stream  *mockStream
	openErr error
	opened  int
	prompt  string
}

func (m *mockGenerator) Open(_ context.Context, userContent string) (ChunkStream, error) {
	m.opened++
	m.prompt = userContent
	if m.openErr != nil {
		return nil, m.openErr
	}
	return m.stream, nil
}

func collect(ch <-chan domain.StreamEvent) []domain.StreamEvent {
	var events []domain.StreamEvent
	for ev := range ch {
		events = append(events, ev)
	}
	return events
}
