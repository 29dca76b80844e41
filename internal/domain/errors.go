package domain

import "errors"

var (
	// ErrUpstreamUnavailable signals a non-recoverable dependency failure
	// before streaming begins. Maps to 503 with a generic message.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrEmbeddingProviderError signals a dense embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrSparseEncoderError signals a sparse encoder failure.
	ErrSparseEncoderError = errors.New("sparse encoder error")
	// ErrEpisodeNotFound signals a missing episode row during enrichment.
	ErrEpisodeNotFound = errors.New("episode not found")
	// ErrIndexStale signals a dead vector-index handle. Recovered locally by
	// reinitializing the handle and retrying once.
	ErrIndexStale = errors.New("vector index handle stale")
	// ErrVectorDimMismatch signals a dense vector of the wrong dimensionality.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrMalformedEmbedding signals an internally inconsistent embedding pair.
	ErrMalformedEmbedding = errors.New("malformed embedding")
	// ErrEmptyQuery signals a request without query text.
	ErrEmptyQuery = errors.New("empty query")
)

// GenericRetryMessage is the only error text ever shown to clients. Internal
// detail stays in the logs.
const GenericRetryMessage = "There was a problem encountered in the server. " +
	"Please wait a couple of seconds before trying again."
