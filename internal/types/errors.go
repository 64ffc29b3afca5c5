package types

import "errors"

// Sentinel domain errors. Handlers translate these to HTTP statuses;
// everything else surfaces as a 500.
var (
	ErrNotFound        = errors.New("requested item not found")
	ErrConflict        = errors.New("item already exists or conflict")
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrValidation      = errors.New("invalid input")
)
