package repositories

import "errors"

var (
	// ErrNotFound indicates the requested document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrConflict indicates the attempted write would violate a uniqueness constraint.
	ErrConflict = errors.New("document conflict")
	// ErrInvalidID indicates an identifier could not be parsed as an ObjectID.
	ErrInvalidID = errors.New("invalid identifier")
)
