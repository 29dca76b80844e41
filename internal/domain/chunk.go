package domain

// ProviderChunk is one decoded frame from the generation provider's stream.
// Data carries the raw JSON payload exactly as the provider sent it.
type ProviderChunk struct {
	Data string
	Done bool
}
