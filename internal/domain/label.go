package domain

// Label is the query-intent classification outcome. It selects the convex
// blending strategy for hybrid retrieval.
type Label string

const (
	// LabelQuestion marks a natural-language question (dense-dominant search).
	LabelQuestion Label = "question"
	// LabelSearchTerm marks a keyword-style query (sparse-dominant search).
	LabelSearchTerm Label = "search_term"
)

// DefaultLabel is the documented fail-open policy: when classification is
// unavailable the pipeline proceeds with scaled dense vector similarity.
const DefaultLabel = LabelQuestion

// ParseLabel maps a provider candidate label to a Label. Unknown labels fall
// back to DefaultLabel.
func ParseLabel(s string) Label {
	switch s {
	case "search term", "search_term":
		return LabelSearchTerm
	case "question":
		return LabelQuestion
	default:
		return DefaultLabel
	}
}
