package model

import "errors"

// ErrDimensionMismatch is returned when a caller-supplied embedding does
// not match the store's configured dimensionality. It is fatal to the
// calling operation and never retried.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// ErrRetrievalFailed is returned when the embedding provider or the store
// fails during retrieval. It surfaces to the caller unmodified.
// An empty result set is not an error.
var ErrRetrievalFailed = errors.New("retrieval failed")
