package domain

import "strings"

// Query is an incoming natural-language query. Immutable once received.
type Query struct {
	Text string `json:"text"`
}

// CacheKey returns the case-folded key used for embedding cache lookups.
func (q Query) CacheKey() string {
	return strings.ToLower(q.Text)
}

// IsEmpty reports whether the query contains no searchable text.
func (q Query) IsEmpty() bool {
	return strings.TrimSpace(q.Text) == ""
}
