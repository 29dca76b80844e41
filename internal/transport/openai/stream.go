package openai

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/askcast/askcast/internal/domain"
)

// doneSentinel terminates a provider stream.
const doneSentinel = "[DONE]"

// Scanner decodes the provider's newline-delimited frame protocol: each
// non-empty line is a field-marker-prefixed payload, and a literal [DONE]
// payload ends the stream. Framing is kept separate from transport so the
// protocol is testable on its own.
type Scanner struct {
	sc   *bufio.Scanner
	done bool
}

// NewScanner wraps a provider response body.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{sc: bufio.NewScanner(r)}
}

// Next returns the next decoded frame. After the [DONE] sentinel, or once the
// underlying stream ends, Next returns io.EOF. A stream that ends without the
// sentinel is a truncated stream and surfaces as an error.
func (s *Scanner) Next() (domain.ProviderChunk, error) {
	if s.done {
		return domain.ProviderChunk{}, io.EOF
	}
	for s.sc.Scan() {
		line := strings.TrimRight(s.sc.Text(), "\r")
		if line == "" {
			continue
		}
		payload := stripFieldMarker(line)
		if payload == doneSentinel {
			s.done = true
			return domain.ProviderChunk{Done: true}, nil
		}
		return domain.ProviderChunk{Data: payload}, nil
	}
	if err := s.sc.Err(); err != nil {
		return domain.ProviderChunk{}, fmt.Errorf("read stream: %w", err)
	}
	return domain.ProviderChunk{}, fmt.Errorf("stream truncated before %s sentinel", doneSentinel)
}

// stripFieldMarker drops the field name up to the first colon and a single
// following space if present. Lines without a colon pass through unchanged.
func stripFieldMarker(line string) string {
	if _, value, found := strings.Cut(line, ":"); found {
		return strings.TrimPrefix(value, " ")
	}
	return line
}
