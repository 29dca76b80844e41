package domain

// EventType tags a server-sent event on the answer stream.
type EventType string

const (
	// EventPassages carries the serialized passage list. Always emitted first.
	EventPassages EventType = "passages"
	// EventAnswerChunk carries one decoded provider chunk.
	EventAnswerChunk EventType = "answer_chunk"
	// EventClose terminates a successful stream.
	EventClose EventType = "close"
	// EventError terminates a failed stream. Emitted at most once.
	EventError EventType = "error"
)

// StreamEvent is one element of the answer stream. Retry is the client
// reconnect hint in milliseconds; zero means no hint is sent.
type StreamEvent struct {
	Type  EventType
	Data  string
	Retry int
}
