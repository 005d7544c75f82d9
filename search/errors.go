package search

import "errors"

// Sentinel errors for consistent error handling.
var (
	ErrNilDataset      = errors.New("dataset is required")
	ErrInvalidEmbedder = errors.New("embedder is nil")
	ErrInvalidAlpha    = errors.New("hybrid alpha must be between 0 and 1")
)
