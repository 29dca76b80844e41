package answer

import (
	"fmt"
	"strings"

	"github.com/askcast/askcast/internal/domain"
)

// BuildPrompt concatenates the query and every passage's (title, content)
// pair into the grounding block the generation provider receives as user
// content. Consumed exactly once per request.
func BuildPrompt(q domain.Query, passages []domain.Passage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s", q.Text)
	for _, p := range passages {
		fmt.Fprintf(&b, "\n\nPassage: \"\"\"Source=%s, Content=%s\"\"\"", p.Title, p.Content)
	}
	return b.String()
}
