package enrich

import (
	"fmt"
	"time"
)

// monthAbbrev is a fixed table so display dates never depend on locale.
var monthAbbrev = [13]string{
	"", "Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// formatTimestamp renders transcript offsets as H:MM:SS duration strings,
// e.g. 125 seconds -> "0:02:05". Sub-second precision is dropped.
func formatTimestamp(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

// formatDate renders a stored "2006-01-02" date as "Mon D, YYYY",
// e.g. "2021-05-03" -> "May 3, 2021". Unparseable dates pass through as-is.
func formatDate(stored string) string {
	d, err := time.Parse("2006-01-02", stored)
	if err != nil {
		return stored
	}
	return fmt.Sprintf("%s %d, %d", monthAbbrev[d.Month()], d.Day(), d.Year())
}

// clipURL deep-links into the source video at the passage start offset with
// autoplay enabled.
func clipURL(videoID string, startSeconds float64) string {
	return fmt.Sprintf("https://www.youtube.com/embed/%s?start=%d&autoplay=1", videoID, int(startSeconds))
}

// thumbnailURL is the deterministic maxres thumbnail for a video id.
func thumbnailURL(videoID string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", videoID)
}
