package db

import "errors"

// ErrKeyNotFound signals an absent key. Distinct from a present-but-empty
// value, which is the store's problem to never produce.
var ErrKeyNotFound = errors.New("db: key not found")

// Op constants map to Redis command names for error context.
const (
	OpGet   = "GET"
	OpSetEx = "SETEX"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
