package store

import "errors"

var (
	ErrTripNotFound     = errors.New("trip not found")
	ErrActivityNotFound = errors.New("activity not found")
	ErrLodgingNotFound  = errors.New("lodging not found")

	// ErrConstraintViolation marks a commit rejected by the database's own
	// uniqueness or integrity checks. Treated as recoverable by callers: the
	// design assumes no external lock around the shared store, so two
	// committers can race and the loser retries or backs off.
	ErrConstraintViolation = errors.New("constraint violation")
)
