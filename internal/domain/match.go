package domain

// Match is a single similarity hit returned by the vector index, ranked by
// the index's combined dense+sparse similarity.
type Match struct {
	ID       string
	Score    float32
	Metadata map[string]any
}

// MetaString reads a string metadata field, returning "" when absent or of a
// different type.
func (m Match) MetaString(key string) string {
	s, _ := m.Metadata[key].(string)
	return s
}

// MetaFloat reads a numeric metadata field. JSON decoding yields float64 for
// all numbers, so that is the only numeric shape handled.
func (m Match) MetaFloat(key string) float64 {
	f, _ := m.Metadata[key].(float64)
	return f
}
