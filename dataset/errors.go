package dataset

import "errors"

// Sentinel errors for consistent error handling.
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateID      = errors.New("record id already exists")
	ErrEmptyID          = errors.New("record id is empty")
	ErrClosed           = errors.New("dataset is closed")
	ErrInvalidEmbedding = errors.New("invalid embedding blob")
)
