package domain

// Passage is the enriched, display-ready view of a retrieval match. It is
// built fresh per request and serialized into the initial "passages" event.
type Passage struct {
	VideoID     string   `json:"video_id"`
	Description string   `json:"video_description"`
	Tags        []string `json:"video_tags"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	ClipURL     string   `json:"clip_url"`
	Published   string   `json:"published"`
	Thumbnail   string   `json:"thumbnail"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Score       float32  `json:"score"`
}
