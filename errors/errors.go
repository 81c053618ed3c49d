// Package errors defines all exported error sentinels for the stationstats library.
//
// This is the single source of truth for error values, so errors.Is checks
// work across package boundaries.
package errors

import "errors"

// Configuration errors
var (
	ErrInvalidBlockSize  = errors.New("stationstats: block size must be positive")
	ErrInvalidQueueDepth = errors.New("stationstats: queue depth must not be negative")
	ErrUnknownHash       = errors.New("stationstats: unknown hash algorithm")
)

// Run errors
var (
	ErrWorkerPanic = errors.New("stationstats: worker panicked")
)

// Result errors
var (
	ErrNotFound = errors.New("stationstats: key not found")
)
