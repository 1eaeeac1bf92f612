package repositories

import "errors"

// Sentinel errors shared by all repositories. Services and handlers check
// these with errors.Is; everything else is a store failure.
var (
	ErrNotFound  = errors.New("record not found")
	ErrInvalidID = errors.New("invalid id format")
)
