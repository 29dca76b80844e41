package chi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/askcast/askcast/internal/domain"
)

// setStreamHeaders prepares the response for server-sent events.
func setStreamHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
}

// writeEvent frames one event on the wire and flushes it. Multi-line data is
// split into one data field per line so the payload reassembles intact on the
// client side.
func writeEvent(w http.ResponseWriter, f http.Flusher, ev domain.StreamEvent) error {
	if ev.Retry > 0 {
		if _, err := fmt.Fprintf(w, "retry: %d\n", ev.Retry); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "event: %s\n", ev.Type); err != nil {
		return err
	}
	for _, line := range strings.Split(ev.Data, "\n") {
		if _, err := fmt.Fprintf(w, "data: %s\n", line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprint(w, "\n"); err != nil {
		return err
	}
	f.Flush()
	return nil
}
